// Package gray converts camera frames to 8-bit grayscale images.
package gray

import (
	"image"
	"image/color"
)

// Convert returns an 8-bit grayscale copy of src. YCbCr frames are
// converted by copying their luma plane, without touching chroma.
func Convert(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src := src.(type) {
	case *image.Gray:
		for y := 0; y < b.Dy(); y++ {
			row := src.Pix[(b.Min.Y+y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X):]
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()], row)
		}
	case *image.YCbCr:
		for y := 0; y < b.Dy(); y++ {
			off := src.YOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()], src.Y[off:])
		}
	case *image.RGBA:
		for y := 0; y < b.Dy(); y++ {
			so := src.PixOffset(b.Min.X, b.Min.Y+y)
			do := y * dst.Stride
			for x := 0; x < b.Dx(); x++ {
				p := src.Pix[so+x*4 : so+x*4+3]
				dst.Pix[do+x] = luma(p[0], p[1], p[2])
			}
		}
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				dst.SetGray(x, y, color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray))
			}
		}
	}
	return dst
}

// luma computes the BT.601 luma used by the standard library's
// grayscale model.
func luma(r, g, b uint8) uint8 {
	return uint8((19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 1<<15) >> 16)
}

// Invert returns a copy of src with every pixel value flipped.
func Invert(src *image.Gray) *image.Gray {
	dst := image.NewGray(src.Rect)
	for i, p := range src.Pix {
		dst.Pix[i] = 255 - p
	}
	return dst
}
