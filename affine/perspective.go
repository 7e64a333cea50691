package affine

import (
	"golang.org/x/image/math/f32"
)

// SquareToQuad computes the projective transform mapping the unit
// square corners (0,0), (1,0), (1,1), (0,1) onto the quadrilateral
// q, in that order. It reports false for degenerate quads.
func SquareToQuad(q [4]f32.Vec2) (f32.Mat3, bool) {
	// Heckbert's closed form for the unit square case.
	sx := q[0][0] - q[1][0] + q[2][0] - q[3][0]
	sy := q[0][1] - q[1][1] + q[2][1] - q[3][1]
	if sx == 0 && sy == 0 {
		// Parallelogram, the map is affine.
		return f32.Mat3{
			q[1][0] - q[0][0], q[3][0] - q[0][0], q[0][0],
			q[1][1] - q[0][1], q[3][1] - q[0][1], q[0][1],
			0, 0, 1,
		}, true
	}
	dx1, dy1 := q[1][0]-q[2][0], q[1][1]-q[2][1]
	dx2, dy2 := q[3][0]-q[2][0], q[3][1]-q[2][1]
	den := dx1*dy2 - dx2*dy1
	if den == 0 {
		return f32.Mat3{}, false
	}
	g := (sx*dy2 - sy*dx2) / den
	h := (dx1*sy - dy1*sx) / den
	return f32.Mat3{
		q[1][0] - q[0][0] + g*q[1][0], q[3][0] - q[0][0] + h*q[3][0], q[0][0],
		q[1][1] - q[0][1] + g*q[1][1], q[3][1] - q[0][1] + h*q[3][1], q[0][1],
		g, h, 1,
	}, true
}

// QuadToSquare returns the inverse map of SquareToQuad.
func QuadToSquare(q [4]f32.Vec2) (f32.Mat3, bool) {
	m, ok := SquareToQuad(q)
	if !ok {
		return f32.Mat3{}, false
	}
	return InvertMat3(m)
}

// Project applies the projective transform m to p, dividing through
// by the homogeneous coordinate.
func Project(m f32.Mat3, p f32.Vec2) f32.Vec2 {
	w := m[6]*p[0] + m[7]*p[1] + m[8]
	return f32.Vec2{
		(m[0]*p[0] + m[1]*p[1] + m[2]) / w,
		(m[3]*p[0] + m[4]*p[1] + m[5]) / w,
	}
}

// InvertMat3 inverts m by its adjugate. It reports false for
// singular matrices.
func InvertMat3(m f32.Mat3) (f32.Mat3, bool) {
	a := f32.Mat3{
		m[4]*m[8] - m[5]*m[7], m[2]*m[7] - m[1]*m[8], m[1]*m[5] - m[2]*m[4],
		m[5]*m[6] - m[3]*m[8], m[0]*m[8] - m[2]*m[6], m[2]*m[3] - m[0]*m[5],
		m[3]*m[7] - m[4]*m[6], m[1]*m[6] - m[0]*m[7], m[0]*m[4] - m[1]*m[3],
	}
	det := m[0]*a[0] + m[1]*a[3] + m[2]*a[6]
	if det == 0 {
		return f32.Mat3{}, false
	}
	for i := range a {
		a[i] /= det
	}
	return a, true
}
