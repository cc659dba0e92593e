package av1bridge

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestIVFWriter_Header(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewIVFWriter(&buf, 640, 480, 30, 1); err != nil {
		t.Fatalf("NewIVFWriter() error = %v", err)
	}

	hdr := buf.Bytes()
	if len(hdr) != 32 {
		t.Fatalf("header length = %d, want 32", len(hdr))
	}
	if string(hdr[0:4]) != "DKIF" {
		t.Errorf("signature = %q, want DKIF", hdr[0:4])
	}
	if got := binary.LittleEndian.Uint16(hdr[6:8]); got != 32 {
		t.Errorf("header length field = %d, want 32", got)
	}
	if string(hdr[8:12]) != "AV01" {
		t.Errorf("fourcc = %q, want AV01", hdr[8:12])
	}
	if got := binary.LittleEndian.Uint16(hdr[12:14]); got != 640 {
		t.Errorf("width = %d, want 640", got)
	}
	if got := binary.LittleEndian.Uint16(hdr[14:16]); got != 480 {
		t.Errorf("height = %d, want 480", got)
	}
	if got := binary.LittleEndian.Uint32(hdr[16:20]); got != 30 {
		t.Errorf("timebase num = %d, want 30", got)
	}
	if got := binary.LittleEndian.Uint32(hdr[20:24]); got != 1 {
		t.Errorf("timebase den = %d, want 1", got)
	}
}

func TestIVFWriter_Frames(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewIVFWriter(&buf, 64, 64, 30, 1)
	if err != nil {
		t.Fatalf("NewIVFWriter() error = %v", err)
	}

	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01}
	rec := &PacketRecord{Payload: payload, PTS: 42}
	if err := w.WriteRecord(rec); err != nil {
		t.Fatalf("WriteRecord() error = %v", err)
	}

	frame := buf.Bytes()[32:]
	if got := binary.LittleEndian.Uint32(frame[0:4]); got != uint32(len(payload)) {
		t.Errorf("frame size = %d, want %d", got, len(payload))
	}
	if got := binary.LittleEndian.Uint64(frame[4:12]); got != 42 {
		t.Errorf("frame pts = %d, want 42", got)
	}
	if !bytes.Equal(frame[12:], payload) {
		t.Error("frame payload mismatch")
	}
}
