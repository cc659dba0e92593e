package av1bridge

import (
	"encoding/binary"
	"io"
)

// IVFWriter writes marshaled packets as an IVF stream ("DKIF" header,
// "AV01" fourcc, little-endian per-frame headers). The writer performs
// no I/O of its own beyond the host-supplied destination.
type IVFWriter struct {
	w io.Writer
}

// NewIVFWriter writes the 32-byte file header and returns the writer.
// num and den form the timebase (frame rate numerator/denominator).
func NewIVFWriter(w io.Writer, width, height, num, den int) (*IVFWriter, error) {
	var hdr [32]byte
	copy(hdr[0:4], "DKIF")
	binary.LittleEndian.PutUint16(hdr[4:6], 0)  // version
	binary.LittleEndian.PutUint16(hdr[6:8], 32) // header length
	copy(hdr[8:12], "AV01")
	binary.LittleEndian.PutUint16(hdr[12:14], uint16(width))
	binary.LittleEndian.PutUint16(hdr[14:16], uint16(height))
	binary.LittleEndian.PutUint32(hdr[16:20], uint32(num))
	binary.LittleEndian.PutUint32(hdr[20:24], uint32(den))
	binary.LittleEndian.PutUint32(hdr[24:28], 0) // frame count, unknown up front
	binary.LittleEndian.PutUint32(hdr[28:32], 0) // unused

	if _, err := w.Write(hdr[:]); err != nil {
		return nil, err
	}
	return &IVFWriter{w: w}, nil
}

// WriteRecord writes one frame: 4-byte payload size, 8-byte timestamp,
// then the payload.
func (iw *IVFWriter) WriteRecord(rec *PacketRecord) error {
	var hdr [12]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(rec.Payload)))
	binary.LittleEndian.PutUint64(hdr[4:12], uint64(rec.PTS))
	if _, err := iw.w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := iw.w.Write(rec.Payload)
	return err
}
