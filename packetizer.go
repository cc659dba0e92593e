package av1bridge

import (
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"
)

// AV1Packetizer splits marshaled packet payloads into RTP packets.
// Uses pion's AV1Payloader, which implements the AV1 RTP payload
// format (aggregation headers, OBU fragmentation).
type AV1Packetizer struct {
	ssrc        uint32
	payloadType uint8
	mtu         int
	sequencer   rtp.Sequencer
	clockRate   uint32
	payloader   *codecs.AV1Payloader
	mu          sync.Mutex
}

// NewAV1Packetizer creates a packetizer with a 90kHz clock.
func NewAV1Packetizer(ssrc uint32, payloadType uint8, mtu int) *AV1Packetizer {
	if mtu <= 0 {
		mtu = 1200
	}
	return &AV1Packetizer{
		ssrc:        ssrc,
		payloadType: payloadType,
		mtu:         mtu,
		sequencer:   rtp.NewRandomSequencer(),
		clockRate:   90000,
		payloader:   &codecs.AV1Payloader{},
	}
}

// ClockRate returns the RTP clock rate.
func (p *AV1Packetizer) ClockRate() uint32 { return p.clockRate }

// Packetize converts one marshaled packet into RTP packets. The RTP
// timestamp is derived from the record's sequence value and the frame
// rate. Records with empty payloads yield no packets.
func (p *AV1Packetizer) Packetize(rec *PacketRecord, fps int) ([]*rtp.Packet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(rec.Payload) == 0 {
		return nil, nil
	}
	if fps <= 0 {
		fps = 30
	}
	timestamp := uint32(rec.PTS) * (p.clockRate / uint32(fps))

	payloads := p.payloader.Payload(uint16(p.mtu-12), rec.Payload)
	if len(payloads) == 0 {
		return nil, nil
	}

	packets := make([]*rtp.Packet, len(payloads))
	for i, payload := range payloads {
		packets[i] = &rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				Marker:         i == len(payloads)-1, // Marker on last packet
				PayloadType:    p.payloadType,
				SequenceNumber: p.sequencer.NextSequenceNumber(),
				Timestamp:      timestamp,
				SSRC:           p.ssrc,
			},
			Payload: payload,
		}
	}
	return packets, nil
}

// PacketizeToBytes converts a marshaled packet to raw RTP packet bytes.
func (p *AV1Packetizer) PacketizeToBytes(rec *PacketRecord, fps int) ([][]byte, error) {
	packets, err := p.Packetize(rec, fps)
	if err != nil {
		return nil, err
	}
	result := make([][]byte, len(packets))
	for i, pkt := range packets {
		result[i], _ = pkt.Marshal()
	}
	return result, nil
}

func (p *AV1Packetizer) SetSSRC(ssrc uint32) { p.mu.Lock(); p.ssrc = ssrc; p.mu.Unlock() }
func (p *AV1Packetizer) SSRC() uint32        { p.mu.Lock(); defer p.mu.Unlock(); return p.ssrc }
func (p *AV1Packetizer) MTU() int            { p.mu.Lock(); defer p.mu.Unlock(); return p.mtu }
func (p *AV1Packetizer) SetMTU(mtu int)      { p.mu.Lock(); p.mtu = mtu; p.mu.Unlock() }
