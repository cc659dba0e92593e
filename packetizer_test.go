package av1bridge

import "testing"

func TestAV1Packetizer_Packetize(t *testing.T) {
	p := NewAV1Packetizer(0x1234, 45, 1200)

	payload := make([]byte, 3000) // forces fragmentation at mtu 1200
	for i := range payload {
		payload[i] = byte(i)
	}
	rec := &PacketRecord{Payload: payload, FrameType: FrameTypeKey, Keyframe: true, ShowFrame: true, PTS: 2}

	packets, err := p.Packetize(rec, 30)
	if err != nil {
		t.Fatalf("Packetize() error = %v", err)
	}
	if len(packets) < 2 {
		t.Fatalf("Packetize() = %d packets, want fragmentation across >= 2", len(packets))
	}

	wantTS := uint32(2) * (90000 / 30)
	for i, pkt := range packets {
		if pkt.SSRC != 0x1234 {
			t.Errorf("packet %d SSRC = %x, want 1234", i, pkt.SSRC)
		}
		if pkt.PayloadType != 45 {
			t.Errorf("packet %d payload type = %d, want 45", i, pkt.PayloadType)
		}
		if pkt.Timestamp != wantTS {
			t.Errorf("packet %d timestamp = %d, want %d", i, pkt.Timestamp, wantTS)
		}
		wantMarker := i == len(packets)-1
		if pkt.Marker != wantMarker {
			t.Errorf("packet %d marker = %v, want %v", i, pkt.Marker, wantMarker)
		}
		if len(pkt.Payload) > 1200-12 {
			t.Errorf("packet %d payload %d bytes exceeds mtu", i, len(pkt.Payload))
		}
	}

	// Sequence numbers increment by one across fragments.
	for i := 1; i < len(packets); i++ {
		if packets[i].SequenceNumber != packets[i-1].SequenceNumber+1 {
			t.Errorf("sequence gap between packets %d and %d", i-1, i)
		}
	}
}

func TestAV1Packetizer_EmptyPayload(t *testing.T) {
	p := NewAV1Packetizer(1, 45, 1200)
	packets, err := p.Packetize(&PacketRecord{}, 30)
	if err != nil {
		t.Fatalf("Packetize() error = %v", err)
	}
	if packets != nil {
		t.Errorf("Packetize() of empty record = %d packets, want none", len(packets))
	}
}

func TestAV1Packetizer_PacketizeToBytes(t *testing.T) {
	p := NewAV1Packetizer(1, 45, 1200)
	rec := &PacketRecord{Payload: []byte{0x12, 0x00, 0x0A, 0x01, 0xFF}, PTS: 0}

	raw, err := p.PacketizeToBytes(rec, 30)
	if err != nil {
		t.Fatalf("PacketizeToBytes() error = %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("PacketizeToBytes() returned no packets")
	}
	for i, b := range raw {
		if len(b) < 12 {
			t.Errorf("packet %d shorter than an RTP header", i)
		}
		if b[0]>>6 != 2 {
			t.Errorf("packet %d RTP version = %d, want 2", i, b[0]>>6)
		}
	}
}

func TestAV1Packetizer_DefaultMTU(t *testing.T) {
	p := NewAV1Packetizer(1, 45, 0)
	if p.MTU() != 1200 {
		t.Errorf("MTU() = %d, want default 1200", p.MTU())
	}
	p.SetMTU(900)
	if p.MTU() != 900 {
		t.Errorf("MTU() = %d, want 900", p.MTU())
	}
}
