// Package threshold implements the binarizations the marker detector
// runs on incoming frames.
package threshold

import "image"

// Level computes the global Otsu threshold of src, the level that
// maximizes the between-class variance of the histogram.
func Level(src *image.Gray) uint8 {
	var hist [256]int
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		off := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		for _, p := range src.Pix[off : off+w] {
			hist[p]++
		}
	}
	total := w * h
	if total == 0 {
		return 0
	}
	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}
	var (
		sumB, wB float64
		best     float64
		level    uint8
	)
	for i, n := range hist {
		wB += float64(n)
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(i) * float64(n)
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			level = uint8(i)
		}
	}
	return level
}

// Otsu binarizes src at its Otsu level: pixels above the level become
// white, the rest black.
func Otsu(src *image.Gray) *image.Gray {
	level := Level(src)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		off := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		drow := dst.Pix[y*dst.Stride:]
		for x, p := range src.Pix[off : off+w] {
			if p > level {
				drow[x] = 255
			}
		}
	}
	return dst
}

// AdaptiveMeanInv binarizes src against the mean of the blockSize by
// blockSize neighborhood: pixels darker than mean-c become white.
// The inverted polarity makes dark marker borders the foreground for
// contour extraction. blockSize must be odd.
func AdaptiveMeanInv(src *image.Gray, blockSize, c int) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}
	if blockSize < 3 {
		blockSize = 3
	}
	if blockSize%2 == 0 {
		blockSize++
	}
	r := blockSize / 2

	// Summed-area table with a zero border row/column.
	integral := make([]uint64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		off := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		row := src.Pix[off : off+w]
		var acc uint64
		for x, p := range row {
			acc += uint64(p)
			integral[(y+1)*(w+1)+x+1] = integral[y*(w+1)+x+1] + acc
		}
	}
	sum := func(x0, y0, x1, y1 int) uint64 {
		return integral[y1*(w+1)+x1] - integral[y0*(w+1)+x1] -
			integral[y1*(w+1)+x0] + integral[y0*(w+1)+x0]
	}

	for y := 0; y < h; y++ {
		y0, y1 := max(0, y-r), min(h, y+r+1)
		off := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		drow := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			x0, x1 := max(0, x-r), min(w, x+r+1)
			area := uint64((x1 - x0) * (y1 - y0))
			mean := int(sum(x0, y0, x1, y1) / area)
			if int(src.Pix[off+x]) < mean-c {
				drow[x] = 255
			}
		}
	}
	return dst
}
