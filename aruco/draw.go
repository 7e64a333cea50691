package aruco

import (
	"image"
	"image/color"
	"image/draw"

	"arucam.dev/bresenham"
)

// Overlay returns an RGBA copy of frame with every detection outlined
// in c. The canonical top-left corner carries a filled square so the
// marker orientation is visible.
func Overlay(frame image.Image, dets []Detection, c color.Color) *image.RGBA {
	b := frame.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, frame, b.Min, draw.Src)
	for _, det := range dets {
		DrawDetection(dst, det, c)
	}
	return dst
}

// DrawDetection outlines a single detection on dst.
func DrawDetection(dst *image.RGBA, det Detection, c color.Color) {
	set := func(x, y int) {
		if image.Pt(x, y).In(dst.Rect) {
			dst.Set(x, y, c)
		}
	}
	pts := make([]image.Point, 4)
	for i, p := range det.Corners {
		pts[i] = image.Pt(int(p[0]+0.5), int(p[1]+0.5))
	}
	bresenham.Polygon(set, pts)
	// Mark the top-left corner.
	const r = 2
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			set(pts[0].X+dx, pts[0].Y+dy)
		}
	}
}
