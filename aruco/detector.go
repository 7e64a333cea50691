package aruco

import (
	"image"
	"math"

	"golang.org/x/image/math/f32"

	"arucam.dev/affine"
	"arucam.dev/contour"
	"arucam.dev/threshold"
)

// A Detection is one identified marker. Corners are in clockwise
// screen order starting at the marker's canonical top-left corner,
// so the marker's orientation in the frame is recoverable.
type Detection struct {
	ID      int
	Corners [4]f32.Vec2
}

// Center returns the intersection point of the detection diagonals,
// a cheap approximation of the marker center.
func (d *Detection) Center() f32.Vec2 {
	return affine.Scale(affine.Add(d.Corners[0], d.Corners[1], d.Corners[2], d.Corners[3]), 0.25)
}

type Detector struct {
	Dict   *Dictionary
	Params *Parameters
}

func NewDetector(dict *Dictionary, params *Parameters) *Detector {
	if params == nil {
		params = DefaultParameters()
	}
	return &Detector{Dict: dict, Params: params}
}

// Detect finds markers in the grayscale frame. The frame is
// adaptively binarized, boundary quads are extracted as candidates,
// and each candidate is unwarped and matched against the dictionary.
func (d *Detector) Detect(img *image.Gray) []Detection {
	p := d.Params
	bin := threshold.AdaptiveMeanInv(img, p.AdaptiveThreshWinSize, p.AdaptiveThreshConstant)
	var dets []Detection
	for _, cand := range d.candidates(bin) {
		det, ok := d.decode(img, cand)
		if !ok {
			continue
		}
		if p.CornerRefinementWinSize > 0 {
			for i := range det.Corners {
				det.Corners[i] = refineCorner(img, det.Corners[i], p)
			}
		}
		dets = append(dets, det)
	}
	return dedupe(dets)
}

// candidates extracts convex quads from the binarized frame.
func (d *Detector) candidates(bin *image.Gray) [][4]f32.Vec2 {
	p := d.Params
	w, h := bin.Rect.Dx(), bin.Rect.Dy()
	maxDim := float64(max(w, h))
	minPer := p.MinMarkerPerimeterRate * maxDim
	maxPer := p.MaxMarkerPerimeterRate * maxDim

	var quads [][4]f32.Vec2
	for _, c := range contour.Find(bin) {
		per := contour.Perimeter(c)
		if per < minPer || per > maxPer {
			continue
		}
		poly := contour.Approx(c, p.PolygonalApproxAccuracyRate*per)
		if len(poly) != 4 || !contour.IsConvex(poly) {
			continue
		}
		minDistSq := sq(p.MinCornerDistanceRate * per)
		tooClose := false
		for i, a := range poly {
			b := poly[(i+1)%4]
			dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
			if dx*dx+dy*dy < minDistSq {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}
		m := p.MinDistanceToBorder
		outside := false
		for _, q := range poly {
			if q.X < m || q.Y < m || q.X >= w-m || q.Y >= h-m {
				outside = true
				break
			}
		}
		if outside {
			continue
		}
		var quad [4]f32.Vec2
		for i, q := range poly {
			quad[i] = affine.Pointf(q)
		}
		quads = append(quads, clockwise(quad))
	}
	return quads
}

// clockwise normalizes corner order for screen coordinates (y down),
// matching the sampling orientation of affine.SquareToQuad.
func clockwise(q [4]f32.Vec2) [4]f32.Vec2 {
	ab := affine.Sub(q[1], q[0])
	bc := affine.Sub(q[2], q[1])
	if ab[0]*bc[1]-ab[1]*bc[0] < 0 {
		q[1], q[3] = q[3], q[1]
	}
	return q
}

// decode unwarps the candidate to a bit grid and matches it against
// the dictionary.
func (d *Detector) decode(img *image.Gray, quad [4]f32.Vec2) (Detection, bool) {
	p := d.Params
	size := d.Dict.Size
	cells := size + 2*p.MarkerBorderBits
	res := p.PerspectiveRemovePixelPerCell
	side := cells * res

	m, ok := affine.SquareToQuad(quad)
	if !ok {
		return Detection{}, false
	}
	// Unwarp the candidate into a canonical patch.
	patch := make([]uint8, side*side)
	lo, hi := uint8(255), uint8(0)
	for i := 0; i < side; i++ {
		v := (float32(i) + 0.5) / float32(side)
		for j := 0; j < side; j++ {
			u := (float32(j) + 0.5) / float32(side)
			pt := affine.Project(m, f32.Vec2{u, v})
			s := sample(img, pt[0], pt[1])
			patch[i*side+j] = s
			lo, hi = min(lo, s), max(hi, s)
		}
	}
	if int(hi)-int(lo) < 20 {
		// Flat patch, nothing to decode.
		return Detection{}, false
	}
	level := otsuLevel(patch)

	// Majority vote per cell.
	cellBits := make([]bool, cells*cells)
	for ci := 0; ci < cells; ci++ {
		for cj := 0; cj < cells; cj++ {
			white := 0
			for i := ci * res; i < (ci+1)*res; i++ {
				for j := cj * res; j < (cj+1)*res; j++ {
					if patch[i*side+j] > level {
						white++
					}
				}
			}
			cellBits[ci*cells+cj] = white*2 > res*res
		}
	}

	if det, ok := d.match(cellBits, cells, quad); ok {
		return det, true
	}
	if p.DetectInvertedMarker {
		for i := range cellBits {
			cellBits[i] = !cellBits[i]
		}
		return d.match(cellBits, cells, quad)
	}
	return Detection{}, false
}

// match checks the border cells and identifies the inner bit pattern.
func (d *Detector) match(cellBits []bool, cells int, quad [4]f32.Vec2) (Detection, bool) {
	p := d.Params
	size := d.Dict.Size
	border := p.MarkerBorderBits

	badBorder, borderCells := 0, 0
	for ci := 0; ci < cells; ci++ {
		for cj := 0; cj < cells; cj++ {
			inner := ci >= border && ci < cells-border && cj >= border && cj < cells-border
			if inner {
				continue
			}
			borderCells++
			if cellBits[ci*cells+cj] {
				badBorder++
			}
		}
	}
	if float64(badBorder) > p.MaxErroneousBitsInBorderRate*float64(borderCells) {
		return Detection{}, false
	}

	n := size * size
	var code uint64
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if cellBits[(i+border)*cells+(j+border)] {
				code |= 1 << (n - 1 - (i*size + j))
			}
		}
	}
	maxCorr := int(p.ErrorCorrectionRate * float64(d.Dict.MaxCorrectionBits))
	id, rot, _, ok := d.Dict.Identify(code, maxCorr)
	if !ok {
		return Detection{}, false
	}
	// The extracted pattern is the canonical one rotated rot times
	// clockwise; the canonical top-left corner is candidate corner
	// rot.
	var det Detection
	det.ID = id
	for i := range det.Corners {
		det.Corners[i] = quad[(i+rot)%4]
	}
	return det, true
}

// dedupe collapses multiple detections of the same marker, typically
// the outer and inner boundary of its border, keeping the largest.
func dedupe(dets []Detection) []Detection {
	var out []Detection
	for _, det := range dets {
		dup := false
		for i := range out {
			if out[i].ID != det.ID {
				continue
			}
			dist := affine.Length(affine.Sub(out[i].Center(), det.Center()))
			ref := affine.Length(affine.Sub(out[i].Corners[0], out[i].Corners[2]))
			if dist > ref {
				continue
			}
			dup = true
			if quadArea(det.Corners) > quadArea(out[i].Corners) {
				out[i] = det
			}
			break
		}
		if !dup {
			out = append(out, det)
		}
	}
	return out
}

func quadArea(q [4]f32.Vec2) float64 {
	var sum float64
	for i := range q {
		a, b := q[i], q[(i+1)%4]
		sum += float64(a[0])*float64(b[1]) - float64(b[0])*float64(a[1])
	}
	return math.Abs(sum) / 2
}

// sample reads img at the given position with bilinear filtering,
// clamping at the edges.
func sample(img *image.Gray, x, y float32) uint8 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	fx, fy := float64(x), float64(y)
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)
	at := func(xi, yi int) float64 {
		xi = clamp(xi, 0, w-1)
		yi = clamp(yi, 0, h-1)
		return float64(img.Pix[img.PixOffset(img.Rect.Min.X+xi, img.Rect.Min.Y+yi)])
	}
	top := at(x0, y0)*(1-tx) + at(x0+1, y0)*tx
	bot := at(x0, y0+1)*(1-tx) + at(x0+1, y0+1)*tx
	return uint8(math.Round(top*(1-ty) + bot*ty))
}

func otsuLevel(pix []uint8) uint8 {
	var hist [256]int
	for _, p := range pix {
		hist[p]++
	}
	total := len(pix)
	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}
	var sumB, wB, best float64
	var level uint8
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
		mB, mF := sumB/wB, (sum-sumB)/wF
		if between := wB * wF * (mB - mF) * (mB - mF); between > best {
			best, level = between, uint8(i)
		}
	}
	return level
}

// refineCorner runs iterative gradient-based subpixel refinement, in
// the manner of cv2.cornerSubPix.
func refineCorner(img *image.Gray, c f32.Vec2, p *Parameters) f32.Vec2 {
	win := p.CornerRefinementWinSize
	sigma := float64(win) / 2
	orig := c
	for iter := 0; iter < p.CornerRefinementMaxIterations; iter++ {
		var a11, a12, a22, b1, b2 float64
		cx, cy := float64(c[0]), float64(c[1])
		for dy := -win; dy <= win; dy++ {
			for dx := -win; dx <= win; dx++ {
				qx, qy := cx+float64(dx), cy+float64(dy)
				gx := (float64(sample(img, float32(qx+1), float32(qy))) -
					float64(sample(img, float32(qx-1), float32(qy)))) / 2
				gy := (float64(sample(img, float32(qx), float32(qy+1))) -
					float64(sample(img, float32(qx), float32(qy-1)))) / 2
				wgt := math.Exp(-float64(dx*dx+dy*dy) / (2 * sigma * sigma))
				gxx, gxy, gyy := wgt*gx*gx, wgt*gx*gy, wgt*gy*gy
				a11 += gxx
				a12 += gxy
				a22 += gyy
				b1 += gxx*qx + gxy*qy
				b2 += gxy*qx + gyy*qy
			}
		}
		det := a11*a22 - a12*a12
		if math.Abs(det) < 1e-9 {
			break
		}
		nx := (a22*b1 - a12*b2) / det
		ny := (a11*b2 - a12*b1) / det
		move := math.Hypot(nx-cx, ny-cy)
		c = f32.Vec2{float32(nx), float32(ny)}
		if move < p.CornerRefinementMinAccuracy {
			break
		}
	}
	// Reject refinements that ran away from the corner.
	if affine.Length(affine.Sub(c, orig)) > float32(2*win) {
		return orig
	}
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sq(v float64) float64 { return v * v }
