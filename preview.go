package av1bridge

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// PreviewImage renders a pixel buffer as an image.RGBA for host-side
// debug display. Planar 4:2:0 input goes through the inverse BT.601
// conversion; packed RGBA input is copied directly.
func PreviewImage(buf *PixelBuffer) (*image.RGBA, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	switch buf.Format {
	case PixelFormatRGBA32:
		img := image.NewRGBA(image.Rect(0, 0, buf.Width, buf.Height))
		for row := 0; row < buf.Height; row++ {
			copy(img.Pix[row*img.Stride:row*img.Stride+buf.Width*4], buf.Data[row*buf.Stride:])
		}
		return img, nil
	case PixelFormatI420:
		rgba, err := i420ToRGBA(buf)
		if err != nil {
			return nil, err
		}
		img := image.NewRGBA(image.Rect(0, 0, buf.Width, buf.Height))
		for row := 0; row < buf.Height; row++ {
			copy(img.Pix[row*img.Stride:row*img.Stride+buf.Width*4], rgba.Data[row*rgba.Stride:])
		}
		return img, nil
	default:
		return nil, fmt.Errorf("%w: no preview for %s", ErrUnsupportedFormat, buf.Format)
	}
}

// ScalePreview downscales a preview to fit within maxWidth x maxHeight,
// preserving aspect ratio. Images already within bounds are returned
// unchanged.
func ScalePreview(img *image.RGBA, maxWidth, maxHeight int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxWidth && h <= maxHeight {
		return img
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
