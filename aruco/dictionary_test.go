package aruco

import (
	"math/bits"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	d1 := Generate("test", 4, 50)
	d2 := Generate("test", 4, 50)
	if d1.Len() != 50 || d2.Len() != 50 {
		t.Fatalf("lengths %d, %d", d1.Len(), d2.Len())
	}
	for i := 0; i < d1.Len(); i++ {
		if d1.Code(i) != d2.Code(i) {
			t.Fatalf("marker %d differs between runs: %x != %x", i, d1.Code(i), d2.Code(i))
		}
	}
}

func TestGenerateDistance(t *testing.T) {
	for _, d := range []*Dictionary{Dict4x4x50(), Dict7x7x50()} {
		if d.MaxCorrectionBits < 1 {
			t.Errorf("%s: no correction capability", d.Name)
		}
		tau := 2*d.MaxCorrectionBits + 1
		for i := 0; i < d.Len(); i++ {
			for j := i + 1; j < d.Len(); j++ {
				for _, r := range rotations(d.Code(j), d.Size) {
					if dist := bits.OnesCount64(d.Code(i) ^ r); dist < tau {
						t.Fatalf("%s: markers %d and %d only %d bits apart, tau %d", d.Name, i, j, dist, tau)
					}
				}
			}
		}
	}
}

func TestRot90(t *testing.T) {
	// 3x3 pattern with a single bit in the top-left corner cycles
	// through the other corners.
	const n = 9
	c := uint64(1 << (n - 1)) // (0,0)
	want := []int{
		n - 1 - 2, // (0,2) after one clockwise turn
		n - 1 - 8, // (2,2)
		n - 1 - 6, // (2,0)
		n - 1 - 0, // back to (0,0)
	}
	for i, bit := range want {
		c = rot90(c, 3)
		if c != 1<<bit {
			t.Fatalf("rotation %d: got %09b, want bit %d", i+1, c, bit)
		}
	}
}

func TestIdentify(t *testing.T) {
	d := Dict4x4x50()
	for id := 0; id < d.Len(); id += 7 {
		code := d.Code(id)
		gotID, rot, dist, ok := d.Identify(code, 0)
		if !ok || gotID != id || rot != 0 || dist != 0 {
			t.Errorf("exact code %d: got id %d rot %d dist %d ok %v", id, gotID, rot, dist, ok)
		}
		// One flipped bit stays identifiable within the correction
		// budget.
		if d.MaxCorrectionBits >= 1 {
			gotID, _, dist, ok = d.Identify(code^1, d.MaxCorrectionBits)
			if !ok || gotID != id || dist != 1 {
				t.Errorf("corrupted code %d: got id %d dist %d ok %v", id, gotID, dist, ok)
			}
		}
	}
}

func TestIdentifyRotated(t *testing.T) {
	d := Dict4x4x50()
	code := d.Code(11)
	for k := 0; k < 4; k++ {
		id, rot, _, ok := d.Identify(code, 0)
		if !ok || id != 11 || rot != k {
			t.Errorf("rotation %d: got id %d rot %d ok %v", k, id, rot, ok)
		}
		code = rot90(code, d.Size)
	}
}

func TestDictionaryByName(t *testing.T) {
	if d, err := DictionaryByName("4x4_50"); err != nil || d.Size != 4 {
		t.Errorf("4x4_50: %v, %v", d, err)
	}
	if d, err := DictionaryByName("7x7_50"); err != nil || d.Size != 7 {
		t.Errorf("7x7_50: %v, %v", d, err)
	}
	if _, err := DictionaryByName("5x5_1000"); err == nil {
		t.Error("unknown dictionary accepted")
	}
}

func TestMarkerImage(t *testing.T) {
	d := Dict4x4x50()
	img, err := d.Image(0, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := img.Rect.Dx(), (4+2)*4; got != want {
		t.Fatalf("side %d, want %d", got, want)
	}
	// Border cells are black.
	if img.GrayAt(0, 0).Y != 0 || img.GrayAt(img.Rect.Max.X-1, img.Rect.Max.Y-1).Y != 0 {
		t.Error("border not black")
	}
	// Inner cells match the code bits.
	code := d.Code(0)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := uint8(0)
			if code>>(15-(i*4+j))&1 != 0 {
				want = 255
			}
			if got := img.GrayAt((j+1)*4+2, (i+1)*4+2).Y; got != want {
				t.Errorf("cell (%d,%d): got %d, want %d", i, j, got, want)
			}
		}
	}
	if _, err := d.Image(d.Len(), 4); err == nil {
		t.Error("out of range marker accepted")
	}
}
