package av1bridge

import (
	"errors"
	"testing"
)

func TestPixelFormat_String(t *testing.T) {
	tests := []struct {
		format PixelFormat
		want   string
	}{
		{PixelFormatI420, "I420"},
		{PixelFormatI444, "I444"},
		{PixelFormatRGB24, "RGB24"},
		{PixelFormatRGBA32, "RGBA32"},
		{PixelFormatBGRA32, "BGRA32"},
		{PixelFormat(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.format.String(); got != tt.want {
				t.Errorf("PixelFormat.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPixelFormat_PlaneCount(t *testing.T) {
	tests := []struct {
		format PixelFormat
		want   int
	}{
		{PixelFormatI420, 3},
		{PixelFormatI444, 3},
		{PixelFormatRGB24, 1},
		{PixelFormatRGBA32, 1},
		{PixelFormatBGRA32, 1},
		{PixelFormat(99), 0},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.PlaneCount(); got != tt.want {
				t.Errorf("PixelFormat.PlaneCount() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPixelFormat_ChromaDims(t *testing.T) {
	tests := []struct {
		name   string
		format PixelFormat
		w, h   int
		wantW  int
		wantH  int
	}{
		{"I420 even", PixelFormatI420, 64, 64, 32, 32},
		{"I420 odd rounds up", PixelFormatI420, 63, 63, 32, 32},
		{"I420 1x1", PixelFormatI420, 1, 1, 1, 1},
		{"I444 full res", PixelFormatI444, 63, 63, 63, 63},
		{"packed has none", PixelFormatRGBA32, 64, 64, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := tt.format.ChromaDims(tt.w, tt.h)
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("ChromaDims(%d, %d) = (%d, %d), want (%d, %d)",
					tt.w, tt.h, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPixelFormat_BufferSize(t *testing.T) {
	tests := []struct {
		name   string
		format PixelFormat
		w, h   int
		stride int
		want   int
	}{
		{"I420 64x64", PixelFormatI420, 64, 64, 64, 64*64 + 2*32*32},
		{"I420 63x63", PixelFormatI420, 63, 63, 63, 63*63 + 2*32*32},
		{"I444 16x16", PixelFormatI444, 16, 16, 16, 3 * 16 * 16},
		{"RGBA 64x64", PixelFormatRGBA32, 64, 64, 256, 64 * 256},
		{"RGB24 10x10", PixelFormatRGB24, 10, 10, 30, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.BufferSize(tt.w, tt.h, tt.stride); got != tt.want {
				t.Errorf("BufferSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPixelBuffer_Validate(t *testing.T) {
	tests := []struct {
		name    string
		buf     *PixelBuffer
		wantErr bool
	}{
		{"valid RGBA", NewPixelBuffer(64, 64, PixelFormatRGBA32), false},
		{"valid I420", NewPixelBuffer(64, 64, PixelFormatI420), false},
		{"valid I420 odd", NewPixelBuffer(63, 63, PixelFormatI420), false},
		{"zero width", &PixelBuffer{Width: 0, Height: 4, Format: PixelFormatI420, Stride: 4, Data: make([]byte, 24)}, true},
		{"short storage", &PixelBuffer{Width: 64, Height: 64, Format: PixelFormatRGBA32, Stride: 256, Data: make([]byte, 100)}, true},
		{"stride below row", &PixelBuffer{Width: 64, Height: 64, Format: PixelFormatRGBA32, Stride: 64, Data: make([]byte, 64*64)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buf.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedBuffer) {
				t.Errorf("Validate() error = %v, want ErrMalformedBuffer", err)
			}
		})
	}
}

func TestPixelBuffer_Planes(t *testing.T) {
	buf := NewPixelBuffer(64, 64, PixelFormatI420)

	if got := len(buf.Plane(0)); got != 64*64 {
		t.Errorf("luma plane size = %d, want %d", got, 64*64)
	}
	for i := 1; i <= 2; i++ {
		if got := len(buf.Plane(i)); got != 32*32 {
			t.Errorf("chroma plane %d size = %d, want %d", i, got, 32*32)
		}
	}
	if buf.Plane(3) != nil {
		t.Error("out-of-range plane should be nil")
	}

	// Planes must tile the storage without overlap.
	buf.Plane(1)[0] = 0xAA
	buf.Plane(2)[0] = 0xBB
	if buf.Data[64*64] != 0xAA {
		t.Error("U plane does not start after luma")
	}
	if buf.Data[64*64+32*32] != 0xBB {
		t.Error("V plane does not start after U plane")
	}
}

func TestPixelBuffer_Clone(t *testing.T) {
	buf := NewPixelBuffer(8, 8, PixelFormatRGBA32)
	buf.Data[0] = 42

	clone := buf.Clone()
	clone.Data[0] = 7

	if buf.Data[0] != 42 {
		t.Error("Clone() shares storage with the original")
	}
	if clone.Width != buf.Width || clone.Stride != buf.Stride || clone.Format != buf.Format {
		t.Error("Clone() lost geometry")
	}
}

func TestFrameType_String(t *testing.T) {
	tests := []struct {
		ft   FrameType
		want string
	}{
		{FrameTypeKey, "Key"},
		{FrameTypeInter, "Inter"},
		{FrameTypeIntraOnly, "IntraOnly"},
		{FrameTypeSwitch, "Switch"},
		{FrameType(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.ft.String(); got != tt.want {
			t.Errorf("FrameType.String() = %v, want %v", got, tt.want)
		}
	}

	if !FrameTypeKey.IsKey() || FrameTypeInter.IsKey() {
		t.Error("IsKey() misclassifies frame types")
	}
}
