// Package golden compares marker detection results against
// checked-in CBOR fixtures.
package golden

import (
	"fmt"
	"os"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"arucam.dev/aruco"
)

type detection struct {
	ID      int           `cbor:"1,keyasint"`
	Corners [4][2]float32 `cbor:"2,keyasint"`
}

// CompareDetections checks dets against the fixture at path. With
// update set the fixture is rewritten instead. Corner positions may
// drift by up to tol pixels.
func CompareDetections(path string, update bool, tol float64, dets []aruco.Detection) error {
	got := encode(dets)
	if update {
		enc, err := cbor.Marshal(got)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return os.WriteFile(path, enc, 0o640)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var want []detection
	if err := cbor.Unmarshal(raw, &want); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if len(got) != len(want) {
		return fmt.Errorf("%s: %d detections, fixture has %d", path, len(got), len(want))
	}
	for i := range got {
		if got[i].ID != want[i].ID {
			return fmt.Errorf("%s: detection %d has ID %d, fixture has %d", path, i, got[i].ID, want[i].ID)
		}
		for c := range got[i].Corners {
			dx := float64(got[i].Corners[c][0] - want[i].Corners[c][0])
			dy := float64(got[i].Corners[c][1] - want[i].Corners[c][1])
			if dx*dx+dy*dy > tol*tol {
				return fmt.Errorf("%s: marker %d corner %d at %v, fixture has %v",
					path, got[i].ID, c, got[i].Corners[c], want[i].Corners[c])
			}
		}
	}
	return nil
}

func encode(dets []aruco.Detection) []detection {
	out := make([]detection, len(dets))
	for i, d := range dets {
		out[i].ID = d.ID
		for c, p := range d.Corners {
			out[i].Corners[c] = [2]float32{p[0], p[1]}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
