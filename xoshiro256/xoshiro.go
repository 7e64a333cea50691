// Package xoshiro256 implements the xoshiro256** pseudo-random
// number generator. The implementation is based on the public domain
// [C implementation].
//
// [C implementation]: https://xoshiro.di.unimi.it/xoshiro256starstar.c
package xoshiro256

import "math"

type Source struct {
	state [4]uint64
}

// New returns a source seeded by expanding seed with splitmix64,
// as recommended by the xoshiro authors.
func New(seed uint64) *Source {
	s := new(Source)
	for i := range s.state {
		seed += 0x9e3779b97f4a7c15
		z := seed
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		s.state[i] = z ^ (z >> 31)
	}
	return s
}

func (s *Source) Uint64() uint64 {
	result := rotl(s.state[1]*5, 7) * 9

	t := s.state[1] << 17

	s.state[2] ^= s.state[0]
	s.state[3] ^= s.state[1]
	s.state[1] ^= s.state[2]
	s.state[0] ^= s.state[3]

	s.state[2] ^= t

	s.state[3] = rotl(s.state[3], 45)

	return result
}

func (s *Source) Intn(n int) int {
	return int(s.Float64() * float64(n))
}

func (s *Source) Float64() float64 {
	return float64(s.Uint64()) / (float64(math.MaxUint64) + 1)
}

func rotl(x uint64, k int) uint64 {
	return (x << k) | (x >> (64 - k))
}
