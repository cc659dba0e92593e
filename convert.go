package av1bridge

import (
	"fmt"
	"sync"
)

// ConvertFunc converts a validated source buffer into a freshly
// allocated buffer in the routine's destination format. The source is
// never mutated.
type ConvertFunc func(src *PixelBuffer) (*PixelBuffer, error)

type formatPair struct {
	src, dst PixelFormat
}

// ConversionContext binds a format pair to its selected routine.
// Contexts are cached by the converter so repeated conversions of the
// same pair skip the registry lookup.
type ConversionContext struct {
	Src PixelFormat
	Dst PixelFormat
	fn  ConvertFunc
}

// Convert runs the routine on src after validating its geometry.
func (c *ConversionContext) Convert(src *PixelBuffer) (*PixelBuffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if src.Format != c.Src {
		return nil, fmt.Errorf("%w: buffer is %s, context expects %s", ErrFormatMismatch, src.Format, c.Src)
	}
	return c.fn(src)
}

// Converter converts pixel buffers between host-native packed formats
// and the planar formats the encoder requires. Routines are registered
// per (source, destination) pair; same-format conversion is a clone.
type Converter struct {
	mu       sync.RWMutex
	routines map[formatPair]ConvertFunc
	contexts map[formatPair]*ConversionContext
}

// NewConverter creates a converter with the built-in routines:
// RGBA32/BGRA32/RGB24 to I420, and I420 back to RGBA32 for preview.
func NewConverter() *Converter {
	c := &Converter{
		routines: make(map[formatPair]ConvertFunc),
		contexts: make(map[formatPair]*ConversionContext),
	}
	c.Register(PixelFormatRGBA32, PixelFormatI420, func(src *PixelBuffer) (*PixelBuffer, error) {
		return packedToI420(src, 0, 1, 2)
	})
	c.Register(PixelFormatBGRA32, PixelFormatI420, func(src *PixelBuffer) (*PixelBuffer, error) {
		return packedToI420(src, 2, 1, 0)
	})
	c.Register(PixelFormatRGB24, PixelFormatI420, func(src *PixelBuffer) (*PixelBuffer, error) {
		return packedToI420(src, 0, 1, 2)
	})
	c.Register(PixelFormatRGBA32, PixelFormatI444, func(src *PixelBuffer) (*PixelBuffer, error) {
		return packedToI444(src, 0, 1, 2)
	})
	c.Register(PixelFormatI420, PixelFormatRGBA32, i420ToRGBA)
	return c
}

// Register installs a routine for a format pair, replacing any existing
// routine and invalidating the cached context for the pair.
func (c *Converter) Register(src, dst PixelFormat, fn ConvertFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pair := formatPair{src, dst}
	c.routines[pair] = fn
	delete(c.contexts, pair)
}

// Context returns the cached conversion context for a format pair.
func (c *Converter) Context(src, dst PixelFormat) (*ConversionContext, error) {
	pair := formatPair{src, dst}

	c.mu.RLock()
	ctx, ok := c.contexts[pair]
	c.mu.RUnlock()
	if ok {
		return ctx, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ctx, ok := c.contexts[pair]; ok {
		return ctx, nil
	}
	fn, ok := c.routines[pair]
	if !ok {
		return nil, fmt.Errorf("%w: no conversion %s to %s", ErrUnsupportedFormat, src, dst)
	}
	ctx = &ConversionContext{Src: src, Dst: dst, fn: fn}
	c.contexts[pair] = ctx
	return ctx, nil
}

// Convert converts src to the target format. The input buffer is never
// mutated and stays valid afterwards, so the host may keep referencing
// it for preview. Converting to the buffer's own format clones it.
func (c *Converter) Convert(src *PixelBuffer, target PixelFormat) (*PixelBuffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if src.Format == target {
		return src.Clone(), nil
	}
	ctx, err := c.Context(src.Format, target)
	if err != nil {
		return nil, err
	}
	return ctx.fn(src)
}

// BT.601 studio-swing RGB to YUV conversion.
func rgbToYUV(r, g, b uint8) (y, u, v uint8) {
	yf := 16.0 + 65.481*float64(r)/255.0 + 128.553*float64(g)/255.0 + 24.966*float64(b)/255.0
	uf := 128.0 - 37.797*float64(r)/255.0 - 74.203*float64(g)/255.0 + 112.0*float64(b)/255.0
	vf := 128.0 + 112.0*float64(r)/255.0 - 93.786*float64(g)/255.0 - 18.214*float64(b)/255.0

	y = uint8(clampF(yf, 16, 235))
	u = uint8(clampF(uf, 16, 240))
	v = uint8(clampF(vf, 16, 240))
	return
}

// Inverse BT.601 conversion for the preview path.
func yuvToRGB(y, u, v uint8) (r, g, b uint8) {
	yf := (float64(y) - 16.0) * 255.0 / 219.0
	uf := (float64(u) - 128.0) * 255.0 / 224.0
	vf := (float64(v) - 128.0) * 255.0 / 224.0

	r = uint8(clampF(yf+1.402*vf, 0, 255))
	g = uint8(clampF(yf-0.344136*uf-0.714136*vf, 0, 255))
	b = uint8(clampF(yf+1.772*uf, 0, 255))
	return
}

func clampF(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// packedToI420 converts a packed RGB-family buffer to planar 4:2:0.
// ri, gi, bi select the channel byte offsets within a pixel, so one
// routine serves RGBA, BGRA and RGB24. Chroma samples are taken at the
// top-left pixel of each 2x2 block; odd right/bottom edges contribute
// their own chroma sample via the round-up plane sizing.
func packedToI420(src *PixelBuffer, ri, gi, bi int) (*PixelBuffer, error) {
	dst := NewPixelBuffer(src.Width, src.Height, PixelFormatI420)
	bpp := src.Format.BytesPerPixel()

	yPlane := dst.Plane(0)
	uPlane := dst.Plane(1)
	vPlane := dst.Plane(2)
	cs := dst.ChromaStride()

	for row := 0; row < src.Height; row++ {
		srcRow := src.Data[row*src.Stride:]
		for col := 0; col < src.Width; col++ {
			px := srcRow[col*bpp:]
			y, u, v := rgbToYUV(px[ri], px[gi], px[bi])
			yPlane[row*dst.Stride+col] = y
			if row%2 == 0 && col%2 == 0 {
				idx := (row/2)*cs + col/2
				uPlane[idx] = u
				vPlane[idx] = v
			}
		}
	}
	return dst, nil
}

// packedToI444 converts a packed RGB-family buffer to planar 4:4:4.
func packedToI444(src *PixelBuffer, ri, gi, bi int) (*PixelBuffer, error) {
	dst := NewPixelBuffer(src.Width, src.Height, PixelFormatI444)
	bpp := src.Format.BytesPerPixel()

	yPlane := dst.Plane(0)
	uPlane := dst.Plane(1)
	vPlane := dst.Plane(2)

	for row := 0; row < src.Height; row++ {
		srcRow := src.Data[row*src.Stride:]
		for col := 0; col < src.Width; col++ {
			px := srcRow[col*bpp:]
			y, u, v := rgbToYUV(px[ri], px[gi], px[bi])
			idx := row*dst.Stride + col
			yPlane[idx] = y
			uPlane[idx] = u
			vPlane[idx] = v
		}
	}
	return dst, nil
}

// i420ToRGBA converts planar 4:2:0 back to packed RGBA for preview and
// debug paths. Chroma is replicated across each 2x2 block.
func i420ToRGBA(src *PixelBuffer) (*PixelBuffer, error) {
	dst := NewPixelBuffer(src.Width, src.Height, PixelFormatRGBA32)

	yPlane := src.Plane(0)
	uPlane := src.Plane(1)
	vPlane := src.Plane(2)
	cs := src.ChromaStride()

	for row := 0; row < src.Height; row++ {
		for col := 0; col < src.Width; col++ {
			cIdx := (row/2)*cs + col/2
			r, g, b := yuvToRGB(yPlane[row*src.Stride+col], uPlane[cIdx], vPlane[cIdx])
			px := dst.Data[row*dst.Stride+col*4:]
			px[0] = r
			px[1] = g
			px[2] = b
			px[3] = 255
		}
	}
	return dst, nil
}
