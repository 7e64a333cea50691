package filter

import (
	"image"
	"testing"

	"arucam.dev/xoshiro256"
)

func noisy(w, h int, seed uint64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	rng := xoshiro256.New(seed)
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

func TestCLAHEUniform(t *testing.T) {
	// A flat image has no contrast to stretch; output stays flat.
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	out := CLAHE(img, 2.0, image.Point{8, 8})
	first := out.Pix[0]
	for i, p := range out.Pix {
		if p != first {
			t.Fatalf("pixel %d: got %d, want uniform %d", i, p, first)
		}
	}
}

func TestCLAHEStretchesContrast(t *testing.T) {
	// A low-contrast gradient should span a wider range afterwards.
	img := image.NewGray(image.Rect(0, 0, 256, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			img.Pix[y*img.Stride+x] = uint8(110 + x/4)
		}
	}
	out := CLAHE(img, 2.0, image.Point{8, 8})
	lo, hi := uint8(255), uint8(0)
	for _, p := range out.Pix {
		lo, hi = min(lo, p), max(hi, p)
	}
	if int(hi)-int(lo) <= 16 {
		t.Errorf("contrast not stretched: range %d..%d", lo, hi)
	}
}

func TestCLAHEBounds(t *testing.T) {
	img := noisy(31, 17, 3)
	out := CLAHE(img, 2.0, image.Point{8, 8})
	if got, want := out.Rect.Size(), img.Rect.Size(); got != want {
		t.Errorf("size changed: got %v, want %v", got, want)
	}
}

func TestBilateralSmoothsNoise(t *testing.T) {
	img := noisy(32, 32, 9)
	out := Bilateral(img, 5, 50, 50)
	if got, want := out.Rect.Size(), img.Rect.Size(); got != want {
		t.Fatalf("size changed: got %v, want %v", got, want)
	}
	if variance(out) >= variance(img) {
		t.Errorf("noise variance not reduced: %f >= %f", variance(out), variance(img))
	}
}

func TestBilateralPreservesEdge(t *testing.T) {
	// Hard black/white edge must survive a small sigmaColor.
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 16; x < 32; x++ {
			img.Pix[y*img.Stride+x] = 255
		}
	}
	out := Bilateral(img, 5, 30, 50)
	if l := out.GrayAt(8, 16).Y; l > 30 {
		t.Errorf("dark side brightened to %d", l)
	}
	if r := out.GrayAt(24, 16).Y; r < 225 {
		t.Errorf("bright side darkened to %d", r)
	}
}

func variance(img *image.Gray) float64 {
	var sum float64
	for _, p := range img.Pix {
		sum += float64(p)
	}
	mean := sum / float64(len(img.Pix))
	var v float64
	for _, p := range img.Pix {
		d := float64(p) - mean
		v += d * d
	}
	return v / float64(len(img.Pix))
}
