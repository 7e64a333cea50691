// Package filter implements the grayscale preprocessing filters used
// to improve marker detection in poor lighting.
package filter

import (
	"image"
	"math"
)

// CLAHE applies contrast limited adaptive histogram equalization with
// the given clip limit over a tiles.X by tiles.Y grid. Tile lookup
// tables are bilinearly interpolated so tile seams don't show.
func CLAHE(src *image.Gray, clipLimit float64, tiles image.Point) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w == 0 || h == 0 {
		return image.NewGray(src.Rect)
	}
	tx, ty := tiles.X, tiles.Y
	if tx < 1 {
		tx = 1
	}
	if ty < 1 {
		ty = 1
	}
	tileW := (w + tx - 1) / tx
	tileH := (h + ty - 1) / ty

	// One 256-entry lookup table per tile, built from its clipped
	// histogram.
	luts := make([][256]uint8, tx*ty)
	for tyi := 0; tyi < ty; tyi++ {
		for txi := 0; txi < tx; txi++ {
			x0, y0 := txi*tileW, tyi*tileH
			x1, y1 := min(x0+tileW, w), min(y0+tileH, h)
			var hist [256]int
			for y := y0; y < y1; y++ {
				row := src.Pix[src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y):]
				for x := x0; x < x1; x++ {
					hist[row[x]]++
				}
			}
			area := (x1 - x0) * (y1 - y0)
			clip := int(clipLimit * float64(area) / 256)
			if clip < 1 {
				clip = 1
			}
			excess := 0
			for i, n := range hist {
				if n > clip {
					excess += n - clip
					hist[i] = clip
				}
			}
			// Redistribute the clipped mass evenly.
			add, rem := excess/256, excess%256
			for i := range hist {
				hist[i] += add
				if i < rem {
					hist[i]++
				}
			}
			lut := &luts[tyi*tx+txi]
			cdf := 0
			for i, n := range hist {
				cdf += n
				lut[i] = uint8(math.Round(float64(cdf) * 255 / float64(area)))
			}
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		// Vertical tile interpolation position.
		fy := (float64(y)-float64(tileH)/2 + 0.5) / float64(tileH)
		ty0 := int(math.Floor(fy))
		wy := fy - float64(ty0)
		ty1 := clampi(ty0+1, 0, ty-1)
		ty0 = clampi(ty0, 0, ty-1)
		srow := src.Pix[src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y):]
		drow := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			fx := (float64(x)-float64(tileW)/2 + 0.5) / float64(tileW)
			tx0 := int(math.Floor(fx))
			wx := fx - float64(tx0)
			tx1 := clampi(tx0+1, 0, tx-1)
			tx0 = clampi(tx0, 0, tx-1)
			v := srow[x]
			v00 := float64(luts[ty0*tx+tx0][v])
			v01 := float64(luts[ty0*tx+tx1][v])
			v10 := float64(luts[ty1*tx+tx0][v])
			v11 := float64(luts[ty1*tx+tx1][v])
			top := v00 + (v01-v00)*wx
			bot := v10 + (v11-v10)*wx
			drow[x] = uint8(math.Round(top + (bot-top)*wy))
		}
	}
	return dst
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
