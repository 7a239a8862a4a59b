// Package random provides a small deterministic random stream for per-pixel
// sampling. Every pixel of every frame gets its own stream, so pixels can be
// traced in parallel without sharing generator state.
package random

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// golden is the Weyl increment added to the stream state before hashing.
const golden uint32 = 0x9e3779b9

// Hash is the PCG output permutation applied to a 32-bit input.
func Hash(input uint32) uint32 {
	state := input*747796405 + 2891336453
	word := ((state >> ((state >> 28) + 4)) ^ state) * 277803737
	return (word >> 22) ^ word
}

// Stream is a counter-based pseudo-random sequence. The zero value is usable
// but every zero-value stream produces the same sequence.
type Stream struct {
	state uint32
}

// New creates a stream from an explicit seed.
func New(seed uint32) Stream {
	return Stream{state: Hash(seed)}
}

// ForPixel creates the stream used for one pixel in one frame.
// Different pixels of the same frame and the same pixel in different frames
// produce independent sequences.
func ForPixel(pixelIndex, frameIndex uint32) Stream {
	return Stream{state: Hash(pixelIndex ^ Hash(frameIndex+golden))}
}

// Uint32 returns the next 32-bit value.
func (s *Stream) Uint32() uint32 {
	s.state += golden
	return Hash(s.state)
}

// Float64 returns the next value in [0, 1].
func (s *Stream) Float64() float64 {
	return float64(s.Uint32()) / float64(math.MaxUint32)
}

// Range returns the next value in [lo, hi].
func (s *Stream) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*s.Float64()
}

// OnUnitSphere returns a direction distributed uniformly over the unit sphere.
func (s *Stream) OnUnitSphere() mgl64.Vec3 {
	z := s.Range(-1, 1)
	phi := 2 * math.Pi * s.Float64()
	r := math.Sqrt(math.Max(0, 1-z*z))
	return mgl64.Vec3{r * math.Cos(phi), r * math.Sin(phi), z}
}
