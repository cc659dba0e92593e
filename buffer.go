package av1bridge

import (
	"fmt"
	"sync"
)

// FrameHandle is the token for a buffer transferred into the pipeline.
// Handles are single-owner: the manager issues one on Acquire and
// invalidates it permanently on Release. A handle never becomes valid
// again.
type FrameHandle struct {
	id uint64
}

// ID returns the handle's unique identifier.
func (h *FrameHandle) ID() uint64 { return h.id }

// BufferManager owns the lifecycle of pixel buffers crossing the
// sandbox boundary: transfer-in from the host, access while in the
// pipeline, and transfer-out of the underlying storage.
//
// Acquire takes ownership of the raw bytes without copying. Until the
// handle is released the host must not read or write the storage it
// passed in; the manager cannot detect such access at runtime, so this
// is a caller obligation of the boundary contract.
type BufferManager struct {
	mu   sync.Mutex
	next uint64
	live map[uint64]*PixelBuffer
}

// NewBufferManager creates an empty manager.
func NewBufferManager() *BufferManager {
	return &BufferManager{live: make(map[uint64]*PixelBuffer)}
}

// Acquire validates raw pixel storage against the declared geometry and
// registers it for exclusive ownership inside the pipeline. The stride
// is tight (width times the packed pixel size, or width for planar
// luma).
func (m *BufferManager) Acquire(raw []byte, width, height int, format PixelFormat) (*FrameHandle, error) {
	stride := width
	if bpp := format.BytesPerPixel(); bpp > 0 {
		stride = width * bpp
	}
	buf := &PixelBuffer{
		Width:  width,
		Height: height,
		Format: format,
		Stride: stride,
		Data:   raw,
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	h := &FrameHandle{id: m.next}
	m.live[h.id] = buf
	return h, nil
}

// Buffer returns the pixel buffer a live handle refers to. The buffer
// stays owned by the pipeline; the handle remains live.
func (m *BufferManager) Buffer(h *FrameHandle) (*PixelBuffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf, ok := m.live[h.id]
	if !ok {
		return nil, fmt.Errorf("%w: handle %d", ErrBufferReleased, h.id)
	}
	return buf, nil
}

// Release transfers the underlying storage back to the host and
// invalidates the handle. Any later use of the handle fails with
// ErrBufferReleased.
func (m *BufferManager) Release(h *FrameHandle) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf, ok := m.live[h.id]
	if !ok {
		return nil, fmt.Errorf("%w: handle %d", ErrBufferReleased, h.id)
	}
	delete(m.live, h.id)
	return buf.Data, nil
}

// Live returns the number of buffers currently owned by the pipeline.
func (m *BufferManager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}
