package av1bridge

import "fmt"

// PacketRecord is the boundary-safe representation of an encoded
// packet. The payload is a copy; nothing in a record aliases encoder
// memory, so a host can hold it indefinitely.
type PacketRecord struct {
	Payload   []byte
	FrameType FrameType
	Keyframe  bool
	ShowFrame bool
	PTS       int64
}

// MarshalPacket packages a drained packet for the host. This is the
// single point where the packet's storage leaves the encode path: the
// payload bytes are copied and the source packet is marked consumed.
// Marshaling the same packet twice fails with ErrPacketConsumed.
func MarshalPacket(pkt *EncodedPacket) (PacketRecord, error) {
	if pkt.consumed {
		return PacketRecord{}, fmt.Errorf("%w: pts %d", ErrPacketConsumed, pkt.PTS)
	}

	payload := make([]byte, len(pkt.Data))
	copy(payload, pkt.Data)

	rec := PacketRecord{
		Payload:   payload,
		FrameType: pkt.FrameType,
		Keyframe:  pkt.FrameType.IsKey(),
		ShowFrame: pkt.ShowFrame,
		PTS:       pkt.PTS,
	}

	pkt.consumed = true
	pkt.Data = nil
	return rec, nil
}
