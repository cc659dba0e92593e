package av1bridge

import (
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/av1"
	"github.com/Eyevinn/mp4ff/mp4"
)

// MP4Muxer collects marshaled packets and writes a fragmented MP4 with
// an av01 video track to a host-supplied destination.
type MP4Muxer struct {
	width   int
	height  int
	fps     int
	records []PacketRecord
}

// NewMP4Muxer creates a muxer for the given stream geometry.
func NewMP4Muxer(width, height, fps int) *MP4Muxer {
	if fps <= 0 {
		fps = 30
	}
	return &MP4Muxer{width: width, height: height, fps: fps}
}

// Add appends one marshaled packet. Records must arrive in encode
// order, which is the order Drain produces them.
func (m *MP4Muxer) Add(rec PacketRecord) {
	m.records = append(m.records, rec)
}

// Finalize writes the complete container: ftyp, init segment, and one
// fragment holding every added sample.
func (m *MP4Muxer) Finalize(w io.Writer) error {
	if len(m.records) == 0 {
		return fmt.Errorf("%w: no packets added", ErrMalformedBuffer)
	}

	timescale := uint32(m.fps * 1000)
	trackID := uint32(1)

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(timescale, "video", "en")
	trak := init.Moov.Trak

	av01 := mp4.CreateVisualSampleEntryBox("av01", uint16(m.width), uint16(m.height), m.configRecord())
	trak.Mdia.Minf.Stbl.Stsd.AddChild(av01)
	trak.Tkhd.Width = mp4.Fixed32(m.width << 16)
	trak.Tkhd.Height = mp4.Fixed32(m.height << 16)

	frag, err := mp4.CreateFragment(1, trackID)
	if err != nil {
		return fmt.Errorf("create fragment: %w", err)
	}

	dur := timescale / uint32(m.fps)
	for _, rec := range m.records {
		flags := mp4.NonSyncSampleFlags
		if rec.Keyframe {
			flags = mp4.SyncSampleFlags
		}
		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags: flags,
				Size:  uint32(len(rec.Payload)),
				Dur:   dur,
			},
			DecodeTime: uint64(rec.PTS) * uint64(dur),
			Data:       rec.Payload,
		})
	}

	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "av01", "mp41"})
	if err := ftyp.Encode(w); err != nil {
		return fmt.Errorf("encode ftyp: %w", err)
	}
	if err := init.Moov.Encode(w); err != nil {
		return fmt.Errorf("encode moov: %w", err)
	}
	if err := frag.Encode(w); err != nil {
		return fmt.Errorf("encode fragment: %w", err)
	}
	return nil
}

// configRecord builds the Av1C box, seeding ConfigOBUs with the
// sequence header from the first keyframe when one is present.
func (m *MP4Muxer) configRecord() *mp4.Av1CBox {
	var seqHdr []byte
	for _, rec := range m.records {
		if rec.Keyframe && len(rec.Payload) > 0 {
			seqHdr = extractSequenceHeader(rec.Payload)
			break
		}
	}

	return &mp4.Av1CBox{
		CodecConfRec: av1.CodecConfRec{
			Version:            1,
			SeqProfile:         0,
			SeqLevelIdx0:       8, // Level 4.0
			ChromaSubsamplingX: 1, // 4:2:0
			ChromaSubsamplingY: 1,
			ConfigOBUs:         seqHdr,
		},
	}
}

// extractSequenceHeader scans a low-overhead OBU stream for the
// sequence header OBU (type 1) and returns it including its header
// bytes, or nil if none is found.
func extractSequenceHeader(data []byte) []byte {
	offset := 0
	for offset < len(data) {
		start := offset
		header := data[offset]
		obuType := (header >> 3) & 0x0F
		hasExtension := header&0x04 != 0
		hasSizeField := header&0x02 != 0
		offset++

		if hasExtension {
			if offset >= len(data) {
				return nil
			}
			offset++
		}

		var obuSize int
		if hasSizeField {
			var ok bool
			obuSize, offset, ok = readLeb128(data, offset)
			if !ok {
				return nil
			}
		} else {
			obuSize = len(data) - offset
		}

		end := offset + obuSize
		if end > len(data) {
			end = len(data)
		}
		if obuType == 1 {
			return data[start:end]
		}
		offset = end
	}
	return nil
}

// readLeb128 decodes a LEB128 value, returning the value, the new
// offset, and whether the encoding terminated within bounds.
func readLeb128(data []byte, offset int) (int, int, bool) {
	value := 0
	for i := 0; i < 8; i++ {
		if offset >= len(data) {
			return 0, offset, false
		}
		b := data[offset]
		offset++
		value |= int(b&0x7F) << (i * 7)
		if b&0x80 == 0 {
			return value, offset, true
		}
	}
	return 0, offset, false
}
