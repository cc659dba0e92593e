package av1bridge

import (
	"fmt"
	"math"
)

// TestPattern selects the synthetic content a TestPatternProvider
// generates.
type TestPattern int

const (
	PatternColorBars TestPattern = iota
	PatternGradient
	PatternMovingBox
)

func (p TestPattern) String() string {
	switch p {
	case PatternColorBars:
		return "ColorBars"
	case PatternGradient:
		return "Gradient"
	case PatternMovingBox:
		return "MovingBox"
	default:
		return "Unknown"
	}
}

// SMPTE color bars (simplified 8-bar pattern)
var colorBarsRGB = [][3]uint8{
	{192, 192, 192}, // White (75%)
	{192, 192, 0},   // Yellow
	{0, 192, 192},   // Cyan
	{0, 192, 0},     // Green
	{192, 0, 192},   // Magenta
	{192, 0, 0},     // Red
	{0, 0, 192},     // Blue
	{16, 16, 16},    // Black
}

// TestPatternProvider is a FrameProvider that renders synthetic RGBA
// frames. It stands in for a host canvas during demos and tests, and
// exercises the packed-to-planar conversion path the way real host
// capture does.
type TestPatternProvider struct {
	width   int
	height  int
	pattern TestPattern
	frame   uint64
}

// NewTestPatternProvider creates a provider for the given dimensions.
func NewTestPatternProvider(width, height int, pattern TestPattern) (*TestPatternProvider, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: pattern dimensions %dx%d", ErrMalformedBuffer, width, height)
	}
	return &TestPatternProvider{width: width, height: height, pattern: pattern}, nil
}

// NextFrame implements FrameProvider. Each call allocates a fresh
// RGBA32 buffer owned by the caller.
func (s *TestPatternProvider) NextFrame() (*PixelBuffer, error) {
	buf := NewPixelBuffer(s.width, s.height, PixelFormatRGBA32)

	switch s.pattern {
	case PatternColorBars:
		s.renderColorBars(buf)
	case PatternGradient:
		s.renderGradient(buf)
	case PatternMovingBox:
		s.renderMovingBox(buf, s.frame)
	}

	s.frame++
	return buf, nil
}

func (s *TestPatternProvider) renderColorBars(buf *PixelBuffer) {
	barWidth := s.width / 8
	if barWidth == 0 {
		barWidth = 1
	}
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			barIdx := x / barWidth
			if barIdx >= 8 {
				barIdx = 7
			}
			setRGBA(buf, x, y, colorBarsRGB[barIdx][0], colorBarsRGB[barIdx][1], colorBarsRGB[barIdx][2])
		}
	}
}

func (s *TestPatternProvider) renderGradient(buf *PixelBuffer) {
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			// Horizontal gradient from black to white
			v := uint8((x * 255) / s.width)
			setRGBA(buf, x, y, v, v, v)
		}
	}
}

func (s *TestPatternProvider) renderMovingBox(buf *PixelBuffer, frameNum uint64) {
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			setRGBA(buf, x, y, 16, 16, 16)
		}
	}

	// Box moves in a circle around the frame center.
	boxSize := s.width / 8
	if boxSize < 4 {
		boxSize = 4
	}
	radius := float64(minInt(s.width, s.height)) / 4
	angle := float64(frameNum) * 0.05
	boxX := s.width/2 + int(radius*math.Cos(angle)) - boxSize/2
	boxY := s.height/2 + int(radius*math.Sin(angle)) - boxSize/2

	for y := boxY; y < boxY+boxSize && y < s.height; y++ {
		if y < 0 {
			continue
		}
		for x := boxX; x < boxX+boxSize && x < s.width; x++ {
			if x < 0 {
				continue
			}
			setRGBA(buf, x, y, 235, 235, 235)
		}
	}
}

func setRGBA(buf *PixelBuffer, x, y int, r, g, b uint8) {
	px := buf.Data[y*buf.Stride+x*4:]
	px[0] = r
	px[1] = g
	px[2] = b
	px[3] = 255
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
