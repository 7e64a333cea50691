package gray

import (
	"image"
	"image/color"
	"testing"
)

func TestConvertYCbCr(t *testing.T) {
	src := image.NewYCbCr(image.Rect(0, 0, 8, 4), image.YCbCrSubsampleRatio420)
	for i := range src.Y {
		src.Y[i] = byte(i * 7)
	}
	g := Convert(src)
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			want := src.Y[src.YOffset(x, y)]
			if got := g.GrayAt(x, y).Y; got != want {
				t.Fatalf("(%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestConvertRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 1))
	src.Set(0, 0, color.RGBA{255, 255, 255, 255})
	src.Set(1, 0, color.RGBA{0, 0, 0, 255})
	src.Set(2, 0, color.RGBA{255, 0, 0, 255})
	g := Convert(src)
	if g.GrayAt(0, 0).Y != 255 {
		t.Errorf("white: got %d", g.GrayAt(0, 0).Y)
	}
	if g.GrayAt(1, 0).Y != 0 {
		t.Errorf("black: got %d", g.GrayAt(1, 0).Y)
	}
	// Pure red converts to its BT.601 luma.
	if got := g.GrayAt(2, 0).Y; got < 70 || got > 82 {
		t.Errorf("red: got %d, want ~76", got)
	}
}

func TestConvertOffsetBounds(t *testing.T) {
	src := image.NewGray(image.Rect(2, 3, 10, 7))
	src.SetGray(2, 3, color.Gray{200})
	src.SetGray(9, 6, color.Gray{100})
	g := Convert(src)
	if g.Rect.Min != (image.Point{}) {
		t.Fatalf("bounds not normalized: %v", g.Rect)
	}
	if g.GrayAt(0, 0).Y != 200 || g.GrayAt(7, 3).Y != 100 {
		t.Errorf("corner pixels lost: %d, %d", g.GrayAt(0, 0).Y, g.GrayAt(7, 3).Y)
	}
}

func TestInvert(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.Pix[0], src.Pix[1] = 0, 200
	inv := Invert(src)
	if inv.Pix[0] != 255 || inv.Pix[1] != 55 {
		t.Errorf("got %v", inv.Pix)
	}
}
