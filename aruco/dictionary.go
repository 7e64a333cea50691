package aruco

import (
	"fmt"
	"math/bits"
	"sync"

	"arucam.dev/xoshiro256"
)

// A Dictionary is a set of marker bit patterns with a guaranteed
// minimum Hamming distance between any two patterns in any rotation.
//
// Patterns are stored row major, most significant bit first, in a
// uint64, which limits markers to 8x8 bits.
type Dictionary struct {
	Name string
	// Size is the number of bits per marker side, border excluded.
	Size int
	// MaxCorrectionBits is the number of bit errors that can be
	// corrected without risking a wrong ID, (tau-1)/2 for the
	// realized minimum distance tau.
	MaxCorrectionBits int

	// codes[id][k] is marker id rotated k*90 degrees clockwise.
	codes [][4]uint64
}

// Len returns the number of markers in the dictionary.
func (d *Dictionary) Len() int { return len(d.codes) }

// Code returns the canonical (unrotated) pattern of marker id.
func (d *Dictionary) Code(id int) uint64 { return d.codes[id][0] }

// Dict4x4x50 and Dict7x7x50 are the two stock dictionaries, built
// deterministically on first use.
var (
	Dict4x4x50 = sync.OnceValue(func() *Dictionary { return Generate("4x4_50", 4, 50) })
	Dict7x7x50 = sync.OnceValue(func() *Dictionary { return Generate("7x7_50", 7, 50) })
)

// DictionaryByName resolves the profile-level dictionary names.
func DictionaryByName(name string) (*Dictionary, error) {
	switch name {
	case "4x4_50":
		return Dict4x4x50(), nil
	case "7x7_50":
		return Dict7x7x50(), nil
	}
	return nil, fmt.Errorf("aruco: unknown dictionary %q", name)
}

// Generate builds a dictionary of count markers of size bits per side
// by rejection sampling from a seeded generator. Candidates must keep
// a minimum distance to all accepted markers and to their own
// rotations; the required distance is relaxed when the search
// stalls, so generation always terminates deterministically.
func Generate(name string, size, count int) *Dictionary {
	if size < 3 || size > 8 {
		panic(fmt.Sprintf("aruco: unsupported marker size %d", size))
	}
	n := size * size
	rng := xoshiro256.New(0x6172756361 + uint64(size)<<8 + uint64(count))
	required := n/4 + 1
	selfRequired := max(1, required/2)

	var codes [][4]uint64
	for len(codes) < count {
		const maxAttempts = 5000
		accepted := false
		for attempt := 0; attempt < maxAttempts; attempt++ {
			c := randomCode(rng, n)
			rots := rotations(c, size)
			if selfDistance(rots) < selfRequired {
				continue
			}
			if distanceToAll(codes, rots) < required {
				continue
			}
			codes = append(codes, rots)
			accepted = true
			break
		}
		if !accepted && required > 1 {
			required--
			selfRequired = max(1, required/2)
		} else if !accepted {
			// Cannot happen for the stock sizes; fail loudly
			// instead of looping forever.
			panic(fmt.Sprintf("aruco: dictionary %s exhausted at %d markers", name, len(codes)))
		}
	}

	tau := n
	for i := range codes {
		if d := selfDistance(codes[i]); d < tau {
			tau = d
		}
		for j := i + 1; j < len(codes); j++ {
			for _, r := range codes[j] {
				if d := bits.OnesCount64(codes[i][0] ^ r); d < tau {
					tau = d
				}
			}
		}
	}
	return &Dictionary{
		Name:              name,
		Size:              size,
		MaxCorrectionBits: (tau - 1) / 2,
		codes:             codes,
	}
}

// Identify matches code against every marker in every rotation and
// returns the closest one if it is within maxCorrection bit errors.
func (d *Dictionary) Identify(code uint64, maxCorrection int) (id, rotation, distance int, ok bool) {
	best := 1 << 30
	for i, rots := range d.codes {
		for k, r := range rots {
			if dist := bits.OnesCount64(code ^ r); dist < best {
				best, id, rotation = dist, i, k
			}
		}
	}
	if len(d.codes) == 0 || best > maxCorrection {
		return 0, 0, best, false
	}
	return id, rotation, best, true
}

func randomCode(rng *xoshiro256.Source, n int) uint64 {
	return rng.Uint64() >> (64 - n)
}

// rotations returns c and its three clockwise rotations.
func rotations(c uint64, size int) [4]uint64 {
	var r [4]uint64
	r[0] = c
	for k := 1; k < 4; k++ {
		r[k] = rot90(r[k-1], size)
	}
	return r
}

// rot90 rotates the size x size bit pattern 90 degrees clockwise:
// destination (i,j) takes source (size-1-j, i).
func rot90(c uint64, size int) uint64 {
	n := size * size
	var out uint64
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			src := (size-1-j)*size + i
			if c>>(n-1-src)&1 != 0 {
				out |= 1 << (n - 1 - (i*size + j))
			}
		}
	}
	return out
}

func selfDistance(rots [4]uint64) int {
	d := 64
	for k := 1; k < 4; k++ {
		if n := bits.OnesCount64(rots[0] ^ rots[k]); n < d {
			d = n
		}
	}
	return d
}

func distanceToAll(codes [][4]uint64, rots [4]uint64) int {
	d := 64
	for _, existing := range codes {
		for _, r := range rots {
			if n := bits.OnesCount64(existing[0] ^ r); n < d {
				d = n
			}
		}
	}
	return d
}
