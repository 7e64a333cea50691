// package affine implements mathematical operations on the
// golang.org/x/image/math/f32 data types.
package affine

import (
	"image"
	"math"

	"golang.org/x/image/math/f32"
)

func Scale(p f32.Vec2, s float32) f32.Vec2 {
	return f32.Vec2{p[0] * s, p[1] * s}
}

func Add(p ...f32.Vec2) f32.Vec2 {
	r := p[0]
	for i := 1; i < len(p); i++ {
		r = f32.Vec2{r[0] + p[i][0], r[1] + p[i][1]}
	}
	return r
}

func Sub(p ...f32.Vec2) f32.Vec2 {
	r := p[0]
	for i := 1; i < len(p); i++ {
		r = f32.Vec2{r[0] - p[i][0], r[1] - p[i][1]}
	}
	return r
}

func Pointf(p image.Point) f32.Vec2 {
	return f32.Vec2{float32(p.X), float32(p.Y)}
}

func Dot(p0, p1 f32.Vec2) float32 {
	return p0[0]*p1[0] + p0[1]*p1[1]
}

func Length(p f32.Vec2) float32 {
	return float32(math.Sqrt(float64(Dot(p, p))))
}

func Div(v f32.Vec2, s float32) f32.Vec2 {
	return f32.Vec2{v[0] / s, v[1] / s}
}
