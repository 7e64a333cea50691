// Package contour extracts region boundaries from binarized frames
// and fits polygons to them.
package contour

import (
	"image"
	"math"
)

// A Contour is a closed boundary, one point per border pixel.
type Contour []image.Point

// Neighbor offsets in clockwise order, east first, for screen
// coordinates with y growing down.
var dirs8 = [8]image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// Find traces the boundaries of all white regions in bin using
// Moore-neighbor tracing. Both outer boundaries and hole boundaries
// are returned.
func Find(bin *image.Gray) []Contour {
	w, h := bin.Rect.Dx(), bin.Rect.Dy()
	fg := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return bin.Pix[bin.PixOffset(bin.Rect.Min.X+x, bin.Rect.Min.Y+y)] != 0
	}
	traced := make([]bool, w*h)
	var contours []Contour
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !fg(x, y) || fg(x-1, y) || traced[y*w+x] {
				continue
			}
			c := trace(image.Pt(x, y), fg)
			for _, p := range c {
				traced[p.Y*w+p.X] = true
			}
			contours = append(contours, c)
		}
	}
	return contours
}

// trace follows the boundary starting at a pixel whose west neighbor
// is background, stopping when the start is re-entered from the same
// backtrack position (Jacob's criterion).
func trace(start image.Point, fg func(x, y int) bool) Contour {
	c := Contour{start}
	startBack := start.Add(dirs8[4]) // west, known background
	cur, back := start, startBack
	// A boundary cannot be longer than the perimeter of the traced
	// region; guard against pathological inputs anyway.
	for steps := 0; steps < 1<<22; steps++ {
		bi := dirIndex(back.Sub(cur))
		moved := false
		for i := 1; i <= 8; i++ {
			d := (bi + i) % 8
			n := cur.Add(dirs8[d])
			if fg(n.X, n.Y) {
				back = cur.Add(dirs8[(bi+i-1)%8])
				cur = n
				moved = true
				break
			}
		}
		if !moved {
			// Isolated pixel.
			return c
		}
		if cur == start && back == startBack {
			return c
		}
		c = append(c, cur)
	}
	return c
}

func dirIndex(d image.Point) int {
	for i, v := range dirs8 {
		if v == d {
			return i
		}
	}
	return 4
}

// Perimeter returns the length of the closed contour.
func Perimeter(c Contour) float64 {
	var sum float64
	for i, p := range c {
		q := c[(i+1)%len(c)]
		dx, dy := float64(q.X-p.X), float64(q.Y-p.Y)
		sum += math.Hypot(dx, dy)
	}
	return sum
}

// Area returns the absolute area enclosed by the contour (shoelace).
func Area(c Contour) float64 {
	var sum float64
	for i, p := range c {
		q := c[(i+1)%len(c)]
		sum += float64(p.X)*float64(q.Y) - float64(q.X)*float64(p.Y)
	}
	return math.Abs(sum) / 2
}

// IsConvex reports whether the closed polygon turns in a single
// direction at every vertex.
func IsConvex(poly Contour) bool {
	if len(poly) < 4 {
		return len(poly) == 3
	}
	sign := 0
	for i := range poly {
		a, b, c := poly[i], poly[(i+1)%len(poly)], poly[(i+2)%len(poly)]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		switch {
		case cross > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return true
}

// Approx simplifies a closed contour with the Douglas-Peucker
// algorithm. Points farther than epsilon from the simplified outline
// are kept.
func Approx(c Contour, epsilon float64) Contour {
	if len(c) < 3 {
		return append(Contour(nil), c...)
	}
	// Split the closed curve at the point farthest from the start so
	// both halves are open polylines.
	far, dist := 0, 0.0
	for i, p := range c {
		dx, dy := float64(p.X-c[0].X), float64(p.Y-c[0].Y)
		if d := dx*dx + dy*dy; d > dist {
			dist, far = d, i
		}
	}
	if far == 0 {
		return Contour{c[0]}
	}
	first := simplify(c[:far+1], epsilon)
	tail := make(Contour, 0, len(c)-far+1)
	tail = append(tail, c[far:]...)
	tail = append(tail, c[0])
	second := simplify(tail, epsilon)
	// Drop the duplicated junction points.
	out := append(Contour(nil), first[:len(first)-1]...)
	out = append(out, second[:len(second)-1]...)
	return out
}

func simplify(pts Contour, epsilon float64) Contour {
	if len(pts) < 3 {
		return pts
	}
	a, b := pts[0], pts[len(pts)-1]
	far, dist := 0, 0.0
	for i := 1; i < len(pts)-1; i++ {
		if d := pointSegDist(pts[i], a, b); d > dist {
			dist, far = d, i
		}
	}
	if dist <= epsilon {
		return Contour{a, b}
	}
	left := simplify(pts[:far+1], epsilon)
	right := simplify(pts[far:], epsilon)
	return append(left[:len(left)-1], right...)
}

func pointSegDist(p, a, b image.Point) float64 {
	ax, ay := float64(a.X), float64(a.Y)
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	px, py := float64(p.X)-ax, float64(p.Y)-ay
	den := dx*dx + dy*dy
	if den == 0 {
		return math.Hypot(px, py)
	}
	t := (px*dx + py*dy) / den
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(px-t*dx, py-t*dy)
}
