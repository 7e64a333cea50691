package bench

import (
	"image"

	"github.com/nfnt/resize"

	"arucam.dev/gray"
)

// Downscale limits the frame width, keeping the aspect ratio. Frames
// at or below maxWidth pass through unchanged.
func Downscale(g *image.Gray, maxWidth int) *image.Gray {
	if maxWidth <= 0 || g.Rect.Dx() <= maxWidth {
		return g
	}
	scaled := resize.Resize(uint(maxWidth), 0, g, resize.Bilinear)
	return gray.Convert(scaled)
}
