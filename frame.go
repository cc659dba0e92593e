// Core pixel buffer and packet types used across the bridge.
package av1bridge

import "fmt"

// PixelFormat represents the pixel layouts the bridge understands.
type PixelFormat int

const (
	PixelFormatI420   PixelFormat = iota // YUV 4:2:0 planar (Y + U + V)
	PixelFormatI444                      // YUV 4:4:4 planar (full-resolution chroma)
	PixelFormatRGB24                     // Packed RGB, 3 bytes per pixel
	PixelFormatRGBA32                    // Packed RGBA, 4 bytes per pixel
	PixelFormatBGRA32                    // Packed BGRA, 4 bytes per pixel
)

func (p PixelFormat) String() string {
	switch p {
	case PixelFormatI420:
		return "I420"
	case PixelFormatI444:
		return "I444"
	case PixelFormatRGB24:
		return "RGB24"
	case PixelFormatRGBA32:
		return "RGBA32"
	case PixelFormatBGRA32:
		return "BGRA32"
	default:
		return "Unknown"
	}
}

// PlaneCount returns the number of planes for this pixel format.
func (p PixelFormat) PlaneCount() int {
	switch p {
	case PixelFormatI420, PixelFormatI444:
		return 3 // Y, U, V
	case PixelFormatRGB24, PixelFormatRGBA32, PixelFormatBGRA32:
		return 1 // Packed
	default:
		return 0
	}
}

// BytesPerPixel returns the per-pixel size of a packed format, or 0 for
// planar formats.
func (p PixelFormat) BytesPerPixel() int {
	switch p {
	case PixelFormatRGB24:
		return 3
	case PixelFormatRGBA32, PixelFormatBGRA32:
		return 4
	default:
		return 0
	}
}

// Planar reports whether the format stores each color component in a
// separate contiguous plane.
func (p PixelFormat) Planar() bool {
	return p == PixelFormatI420 || p == PixelFormatI444
}

// ChromaDims returns the chroma plane dimensions for a luma plane of the
// given size. Odd dimensions round up: a 63-pixel luma row maps to a
// 32-pixel chroma row in 4:2:0.
func (p PixelFormat) ChromaDims(width, height int) (int, int) {
	switch p {
	case PixelFormatI420:
		return (width + 1) / 2, (height + 1) / 2
	case PixelFormatI444:
		return width, height
	default:
		return 0, 0
	}
}

// BufferSize returns the storage size required for the given dimensions
// and luma/packed row stride.
func (p PixelFormat) BufferSize(width, height, stride int) int {
	switch p {
	case PixelFormatI420:
		cs := (stride + 1) / 2
		_, ch := p.ChromaDims(width, height)
		return stride*height + 2*cs*ch
	case PixelFormatI444:
		return 3 * stride * height
	case PixelFormatRGB24, PixelFormatRGBA32, PixelFormatBGRA32:
		return stride * height
	default:
		return 0
	}
}

// PixelBuffer is a raw pixel buffer crossing the sandbox boundary.
// Planar formats store all planes contiguously in Data (Y, then U, then
// V); packed formats store interleaved rows. Exactly one component owns
// a buffer at a time; ownership transfers when the buffer is passed
// between the buffer manager, the converter, and a session.
type PixelBuffer struct {
	Width  int
	Height int
	Format PixelFormat
	Stride int // luma or packed row stride in bytes
	Data   []byte
}

// NewPixelBuffer allocates a zeroed buffer with a tight stride.
func NewPixelBuffer(width, height int, format PixelFormat) *PixelBuffer {
	stride := width
	if bpp := format.BytesPerPixel(); bpp > 0 {
		stride = width * bpp
	}
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Format: format,
		Stride: stride,
		Data:   make([]byte, format.BufferSize(width, height, stride)),
	}
}

// Validate checks that the declared geometry is consistent with the
// storage length.
func (b *PixelBuffer) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrMalformedBuffer, b.Width, b.Height)
	}
	minStride := b.Width
	if bpp := b.Format.BytesPerPixel(); bpp > 0 {
		minStride = b.Width * bpp
	}
	if b.Stride < minStride {
		return fmt.Errorf("%w: stride %d below row size %d", ErrMalformedBuffer, b.Stride, minStride)
	}
	want := b.Format.BufferSize(b.Width, b.Height, b.Stride)
	if want == 0 {
		return fmt.Errorf("%w: unknown format %d", ErrMalformedBuffer, int(b.Format))
	}
	if len(b.Data) != want {
		return fmt.Errorf("%w: storage %d bytes, geometry requires %d", ErrMalformedBuffer, len(b.Data), want)
	}
	return nil
}

// ChromaStride returns the chroma row stride for planar formats, 0 for
// packed formats.
func (b *PixelBuffer) ChromaStride() int {
	switch b.Format {
	case PixelFormatI420:
		return (b.Stride + 1) / 2
	case PixelFormatI444:
		return b.Stride
	default:
		return 0
	}
}

// Plane returns the storage for plane i. Plane 0 is the luma or packed
// plane; planes 1 and 2 are chroma. Returns nil for out-of-range planes.
func (b *PixelBuffer) Plane(i int) []byte {
	if i < 0 || i >= b.Format.PlaneCount() {
		return nil
	}
	lumaSize := b.Stride * b.Height
	if i == 0 {
		return b.Data[:lumaSize]
	}
	ch := b.Height
	if b.Format == PixelFormatI420 {
		ch = (b.Height + 1) / 2
	}
	chromaSize := b.ChromaStride() * ch
	start := lumaSize + (i-1)*chromaSize
	return b.Data[start : start+chromaSize]
}

// Clone creates a deep copy of the buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	clone := &PixelBuffer{
		Width:  b.Width,
		Height: b.Height,
		Format: b.Format,
		Stride: b.Stride,
	}
	if b.Data != nil {
		clone.Data = make([]byte, len(b.Data))
		copy(clone.Data, b.Data)
	}
	return clone
}

// FrameType classifies an encoded frame.
type FrameType int

const (
	FrameTypeKey       FrameType = iota // decodable independently
	FrameTypeInter                      // predicted from prior frames
	FrameTypeIntraOnly                  // intra coded, not a random access point
	FrameTypeSwitch                     // switch frame
)

func (f FrameType) String() string {
	switch f {
	case FrameTypeKey:
		return "Key"
	case FrameTypeInter:
		return "Inter"
	case FrameTypeIntraOnly:
		return "IntraOnly"
	case FrameTypeSwitch:
		return "Switch"
	default:
		return "Unknown"
	}
}

// IsKey returns true for key frames.
func (f FrameType) IsKey() bool { return f == FrameTypeKey }

// EncodedPacket is one completed output unit from the encoder engine.
// Packets drain in bitstream order; PTS carries the sequence value
// assigned at submission time. A packet is consumed exactly once by the
// marshaler and must not be touched afterwards.
type EncodedPacket struct {
	Data      []byte
	FrameType FrameType
	ShowFrame bool
	PTS       int64

	consumed bool
}
