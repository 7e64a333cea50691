package contour

import (
	"image"
	"testing"
)

func rectImage(w, h int, r image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Pix[y*img.Stride+x] = 255
		}
	}
	return img
}

func TestFindSingleRect(t *testing.T) {
	img := rectImage(64, 64, image.Rect(10, 12, 40, 30))
	cs := Find(img)
	if len(cs) != 1 {
		t.Fatalf("got %d contours, want 1", len(cs))
	}
	// Boundary length of a filled w x h rectangle traced pixel by
	// pixel is 2*(w-1) + 2*(h-1).
	want := 2*(30-1) + 2*(18-1)
	if got := len(cs[0]); got != want {
		t.Errorf("contour length %d, want %d", got, want)
	}
}

func TestFindRing(t *testing.T) {
	// A rectangle with a hole has an outer and an inner boundary.
	img := rectImage(64, 64, image.Rect(10, 10, 50, 50))
	for y := 20; y < 40; y++ {
		for x := 20; x < 40; x++ {
			img.Pix[y*img.Stride+x] = 0
		}
	}
	cs := Find(img)
	if len(cs) != 2 {
		t.Fatalf("got %d contours, want outer + hole", len(cs))
	}
}

func TestFindIsolatedPixel(t *testing.T) {
	img := rectImage(8, 8, image.Rect(4, 4, 5, 5))
	cs := Find(img)
	if len(cs) != 1 || len(cs[0]) != 1 {
		t.Fatalf("got %v", cs)
	}
}

func TestApproxRectToQuad(t *testing.T) {
	img := rectImage(64, 64, image.Rect(8, 8, 56, 40))
	cs := Find(img)
	if len(cs) != 1 {
		t.Fatalf("got %d contours", len(cs))
	}
	poly := Approx(cs[0], 0.03*Perimeter(cs[0]))
	if len(poly) != 4 {
		t.Fatalf("approximated to %d vertices, want 4: %v", len(poly), poly)
	}
	if !IsConvex(poly) {
		t.Errorf("quad not convex: %v", poly)
	}
}

func TestArea(t *testing.T) {
	sq := Contour{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if got := Area(sq); got != 100 {
		t.Errorf("area %f, want 100", got)
	}
}

func TestIsConvex(t *testing.T) {
	convex := Contour{{0, 0}, {10, 0}, {12, 10}, {1, 9}}
	if !IsConvex(convex) {
		t.Errorf("convex quad reported concave")
	}
	concave := Contour{{0, 0}, {10, 0}, {2, 2}, {0, 10}}
	if IsConvex(concave) {
		t.Errorf("concave quad reported convex")
	}
}
