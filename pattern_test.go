package av1bridge

import (
	"bytes"
	"errors"
	"testing"
)

func TestTestPatternProvider_FramesAreValid(t *testing.T) {
	patterns := []TestPattern{PatternColorBars, PatternGradient, PatternMovingBox}

	for _, p := range patterns {
		t.Run(p.String(), func(t *testing.T) {
			src, err := NewTestPatternProvider(64, 48, p)
			if err != nil {
				t.Fatalf("NewTestPatternProvider() error = %v", err)
			}
			frame, err := src.NextFrame()
			if err != nil {
				t.Fatalf("NextFrame() error = %v", err)
			}
			if frame.Format != PixelFormatRGBA32 {
				t.Errorf("format = %s, want RGBA32", frame.Format)
			}
			if frame.Width != 64 || frame.Height != 48 {
				t.Errorf("dimensions = %dx%d, want 64x48", frame.Width, frame.Height)
			}
			if err := frame.Validate(); err != nil {
				t.Errorf("frame invalid: %v", err)
			}
		})
	}
}

func TestTestPatternProvider_MovingBoxAnimates(t *testing.T) {
	src, err := NewTestPatternProvider(64, 64, PatternMovingBox)
	if err != nil {
		t.Fatalf("NewTestPatternProvider() error = %v", err)
	}

	f1, _ := src.NextFrame()
	var f2 *PixelBuffer
	for i := 0; i < 30; i++ {
		f2, _ = src.NextFrame()
	}
	if bytes.Equal(f1.Data, f2.Data) {
		t.Error("moving box did not move across 30 frames")
	}
}

func TestTestPatternProvider_FramesAreIndependent(t *testing.T) {
	src, err := NewTestPatternProvider(16, 16, PatternColorBars)
	if err != nil {
		t.Fatalf("NewTestPatternProvider() error = %v", err)
	}
	f1, _ := src.NextFrame()
	f2, _ := src.NextFrame()
	f1.Data[0] = ^f1.Data[0]
	if f1.Data[0] == f2.Data[0] {
		t.Error("successive frames share storage")
	}
}

func TestNewTestPatternProvider_BadDims(t *testing.T) {
	if _, err := NewTestPatternProvider(0, 16, PatternGradient); !errors.Is(err, ErrMalformedBuffer) {
		t.Errorf("NewTestPatternProvider() error = %v, want ErrMalformedBuffer", err)
	}
}

func TestProviderFunc(t *testing.T) {
	called := false
	p := ProviderFunc(func() (*PixelBuffer, error) {
		called = true
		return NewPixelBuffer(4, 4, PixelFormatRGBA32), nil
	})
	if _, err := p.NextFrame(); err != nil {
		t.Fatalf("NextFrame() error = %v", err)
	}
	if !called {
		t.Error("ProviderFunc did not invoke the wrapped function")
	}
}
