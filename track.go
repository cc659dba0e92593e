package av1bridge

import (
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
)

// TrackWriter forwards marshaled packets to a pion WebRTC sample
// track, letting a host publish encoder output over a peer connection
// without touching RTP details itself.
type TrackWriter struct {
	track *webrtc.TrackLocalStaticSample
	fps   int
}

// NewTrackWriter creates an AV1 sample track with the given identifiers
// and a writer bound to it. Add the returned track to a peer connection
// with AddTrack.
func NewTrackWriter(trackID, streamID string, fps int) (*TrackWriter, error) {
	if fps <= 0 {
		fps = 30
	}
	track, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{
			MimeType:  webrtc.MimeTypeAV1,
			ClockRate: 90000,
		},
		trackID, streamID,
	)
	if err != nil {
		return nil, err
	}
	return &TrackWriter{track: track, fps: fps}, nil
}

// Track returns the underlying track for AddTrack.
func (w *TrackWriter) Track() *webrtc.TrackLocalStaticSample {
	return w.track
}

// WriteRecord writes one marshaled packet as a media sample. Records
// with ShowFrame unset still carry bitstream data the decoder needs
// and are written like any other.
func (w *TrackWriter) WriteRecord(rec *PacketRecord) error {
	return w.track.WriteSample(media.Sample{
		Data:     rec.Payload,
		Duration: time.Second / time.Duration(w.fps),
	})
}
