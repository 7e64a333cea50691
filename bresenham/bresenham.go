// Package bresenham rasterizes line segments with the Bresenham
// algorithm, one callback per pixel.
package bresenham

import "image"

// Plot invokes set for every pixel on the segment from a to b,
// endpoints included.
func Plot(set func(x, y int), a, b image.Point) {
	dx := b.X - a.X
	if dx < 0 {
		dx = -dx
	}
	dy := b.Y - a.Y
	if dy < 0 {
		dy = -dy
	}
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx - dy
	x, y := a.X, a.Y
	for {
		set(x, y)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// Polygon plots the closed outline through the given vertices.
func Polygon(set func(x, y int), pts []image.Point) {
	if len(pts) < 2 {
		return
	}
	for i, p := range pts {
		Plot(set, p, pts[(i+1)%len(pts)])
	}
}
