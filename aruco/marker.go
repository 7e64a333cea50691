package aruco

import (
	"fmt"
	"image"
)

// Image renders marker id as a grayscale image with scale pixels per
// cell, including the black border.
func (d *Dictionary) Image(id, scale int) (*image.Gray, error) {
	if id < 0 || id >= len(d.codes) {
		return nil, fmt.Errorf("aruco: marker %d not in dictionary %s (%d markers)", id, d.Name, len(d.codes))
	}
	if scale < 1 {
		scale = 1
	}
	cells := d.Size + 2
	img := image.NewGray(image.Rect(0, 0, cells*scale, cells*scale))
	code := d.codes[id][0]
	n := d.Size * d.Size
	for i := 0; i < d.Size; i++ {
		for j := 0; j < d.Size; j++ {
			if code>>(n-1-(i*d.Size+j))&1 == 0 {
				continue
			}
			for y := (i + 1) * scale; y < (i+2)*scale; y++ {
				for x := (j + 1) * scale; x < (j+2)*scale; x++ {
					img.Pix[y*img.Stride+x] = 255
				}
			}
		}
	}
	return img, nil
}
