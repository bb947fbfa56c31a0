package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// SpikeTrain generates n sorted spike times in [0, window).
func (r *RNG) SpikeTrain(n int, window float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	train := make([]float64, n)
	t := 0.0

	for i := range train {
		t += r.rand.Float64() * window / float64(n)
		train[i] = t
	}

	return train
}

// Noise generates a side x side image of random pixels.
func (r *RNG) Noise(side int) []uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()

	img := make([]uint8, side*side)
	for i := range img {
		img[i] = uint8(r.rand.Intn(256))
	}

	return img
}

// Uniform generates a side x side image with every pixel set to value.
// Uniform regions contain no edges.
func Uniform(side int, value uint8) []uint8 {
	img := make([]uint8, side*side)
	for i := range img {
		img[i] = value
	}

	return img
}

// VerticalStep generates a side x side image whose left half is left and
// right half is right, producing a strong vertical edge down the middle.
func VerticalStep(side int, left, right uint8) []uint8 {
	img := make([]uint8, side*side)

	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			if x < side/2 {
				img[y*side+x] = left
			} else {
				img[y*side+x] = right
			}
		}
	}

	return img
}

// HorizontalStep generates a side x side image whose top half is top and
// bottom half is bottom, producing a strong horizontal edge.
func HorizontalStep(side int, top, bottom uint8) []uint8 {
	img := make([]uint8, side*side)

	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			if y < side/2 {
				img[y*side+x] = top
			} else {
				img[y*side+x] = bottom
			}
		}
	}

	return img
}

// Checkerboard generates a side x side image alternating between a and b,
// with cells of the given size.
func Checkerboard(side, cell int, a, b uint8) []uint8 {
	img := make([]uint8, side*side)

	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				img[y*side+x] = a
			} else {
				img[y*side+x] = b
			}
		}
	}

	return img
}
