package av1bridge

import (
	"bytes"
	"errors"
	"testing"
)

func TestMarshalPacket_CopiesPayload(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	pkt := &EncodedPacket{Data: data, FrameType: FrameTypeKey, ShowFrame: true, PTS: 7}

	rec, err := MarshalPacket(pkt)
	if err != nil {
		t.Fatalf("MarshalPacket() error = %v", err)
	}

	// The record must not alias encoder memory.
	data[0] = 0xFF
	if !bytes.Equal(rec.Payload, []byte{1, 2, 3, 4}) {
		t.Error("record payload aliases the packet data")
	}

	if rec.FrameType != FrameTypeKey || !rec.Keyframe {
		t.Errorf("record type = %s keyframe = %v, want Key/true", rec.FrameType, rec.Keyframe)
	}
	if !rec.ShowFrame || rec.PTS != 7 {
		t.Errorf("record metadata = show %v pts %d, want true/7", rec.ShowFrame, rec.PTS)
	}
}

func TestMarshalPacket_ConsumeOnce(t *testing.T) {
	pkt := &EncodedPacket{Data: []byte{9}, FrameType: FrameTypeInter, PTS: 3}

	if _, err := MarshalPacket(pkt); err != nil {
		t.Fatalf("first MarshalPacket() error = %v", err)
	}
	if pkt.Data != nil {
		t.Error("packet storage not released after marshal")
	}
	if _, err := MarshalPacket(pkt); !errors.Is(err, ErrPacketConsumed) {
		t.Errorf("second MarshalPacket() error = %v, want ErrPacketConsumed", err)
	}
}

func TestMarshalPacket_InterIsNotKeyframe(t *testing.T) {
	pkt := &EncodedPacket{Data: []byte{1}, FrameType: FrameTypeInter}
	rec, err := MarshalPacket(pkt)
	if err != nil {
		t.Fatalf("MarshalPacket() error = %v", err)
	}
	if rec.Keyframe {
		t.Error("inter frame marshaled with Keyframe = true")
	}
}
