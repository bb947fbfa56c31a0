// Package testutil provides testing utilities for spikego.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded thread-safe RNG and generators for synthetic
// grayscale images with known edge structure.
//
// # Synthetic Images
//
//	rng := testutil.NewRNG(seed)
//	img := testutil.VerticalStep(8, 0, 255) // left half dark, right half bright
//	img = testutil.Uniform(8, 128)          // featureless region
//	img = rng.Noise(8)                      // random pixels
package testutil
