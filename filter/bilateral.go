package filter

import (
	"image"
	"math"
)

// Bilateral applies an edge-preserving bilateral filter with a d by d
// neighborhood. sigmaColor controls how strongly differing intensities
// are mixed, sigmaSpace how far away pixels still contribute.
func Bilateral(src *image.Gray, d int, sigmaColor, sigmaSpace float64) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}
	r := d / 2
	if r < 1 {
		r = 1
	}

	// Spatial weights depend only on the offset, color weights only
	// on the intensity difference. Precompute both.
	size := 2*r + 1
	spatial := make([]float64, size*size)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			spatial[(dy+r)*size+(dx+r)] = math.Exp(-float64(dx*dx+dy*dy) / (2 * sigmaSpace * sigmaSpace))
		}
	}
	var colorw [256]float64
	for i := range colorw {
		colorw[i] = math.Exp(-float64(i*i) / (2 * sigmaColor * sigmaColor))
	}

	at := func(x, y int) uint8 {
		return src.Pix[src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)]
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			center := at(x, y)
			var sum, norm float64
			for dy := -r; dy <= r; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -r; dx <= r; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					p := at(xx, yy)
					diff := int(p) - int(center)
					if diff < 0 {
						diff = -diff
					}
					wgt := spatial[(dy+r)*size+(dx+r)] * colorw[diff]
					sum += wgt * float64(p)
					norm += wgt
				}
			}
			dst.Pix[y*dst.Stride+x] = uint8(math.Round(sum / norm))
		}
	}
	return dst
}
