// Package edge provides oriented edge-feature extraction from square pixel
// regions. Operators convert one region into a fixed-length vector of edge
// strengths in [0, 1], one component per orientation, evenly distributed
// across 180 degrees.
package edge

import (
	"fmt"
	"strings"
)

// Operator extracts oriented edge features from an image region.
type Operator interface {
	// ExtractEdges returns one normalized edge strength per orientation
	// for the given row-major square region. Regions smaller than 3x3
	// have no interior pixels and yield an all-zero vector. An all-
	// uniform region always yields an all-zero vector.
	ExtractEdges(region []uint8, regionSize int) []float64

	// Orientations returns the length of the extracted feature vector.
	Orientations() int

	// Name returns the operator's stable name.
	Name() string
}

// Config holds the operator parameters. Operator-specific fields are
// ignored by operators that do not use them.
type Config struct {
	// Orientations is the number of edge orientations to detect.
	Orientations int

	// Threshold zeroes out any normalized component below it. It directly
	// controls downstream spike sparsity.
	Threshold float64

	// Gabor parameters.
	Wavelength  float64
	Sigma       float64
	Gamma       float64
	PhaseOffset float64

	// Difference-of-Gaussians parameters. Sigma2 must exceed Sigma1 and
	// is raised to Sigma1*1.6 otherwise.
	Sigma1 float64
	Sigma2 float64

	// KernelSize is the filter kernel size for gabor and dog. Forced odd
	// and at least 3.
	KernelSize int
}

// DefaultConfig contains the default operator configuration.
var DefaultConfig = Config{
	Orientations: 8,
	Threshold:    0.15,
	Wavelength:   4.0,
	Sigma:        2.0,
	Gamma:        0.5,
	PhaseOffset:  0.0,
	Sigma1:       1.0,
	Sigma2:       1.6,
	KernelSize:   5,
}

func (c *Config) applyDefaults() {
	if c.Wavelength <= 0 {
		c.Wavelength = DefaultConfig.Wavelength
	}
	if c.Sigma <= 0 {
		c.Sigma = DefaultConfig.Sigma
	}
	if c.Gamma <= 0 {
		c.Gamma = DefaultConfig.Gamma
	}
	if c.Sigma1 <= 0 {
		c.Sigma1 = DefaultConfig.Sigma1
	}
	if c.Sigma2 <= c.Sigma1 {
		c.Sigma2 = c.Sigma1 * 1.6
	}
	if c.KernelSize < 3 {
		c.KernelSize = DefaultConfig.KernelSize
	}
	if c.KernelSize%2 == 0 {
		c.KernelSize++
	}
}

// New creates an edge operator by its stable name. Unknown names fail
// descriptively; there is no fallback operator.
func New(name string, cfg Config) (Operator, error) {
	if cfg.Orientations <= 0 {
		return nil, fmt.Errorf("edge: orientations must be positive, got %d", cfg.Orientations)
	}
	cfg.applyDefaults()

	switch strings.ToLower(name) {
	case "sobel":
		return newSobel(cfg), nil
	case "gabor":
		return newGabor(cfg), nil
	case "dog", "difference_of_gaussians":
		return newDoG(cfg), nil
	default:
		return nil, fmt.Errorf("edge: unknown operator %q (available: %s)",
			name, strings.Join(Available(), ", "))
	}
}

// Available lists the registered operator names.
func Available() []string {
	return []string{"sobel", "gabor", "dog"}
}

// pixel returns the region value at (row, col), or 0 out of bounds.
func pixel(region []uint8, row, col, regionSize int) float64 {
	if row < 0 || row >= regionSize || col < 0 || col >= regionSize {
		return 0
	}
	return float64(region[row*regionSize+col]) / 255.0
}

// normalize max-normalizes features into [0, 1] in place. A maximum below
// floating point noise counts as all-zero: zero-mean kernels leave residues
// around 1e-16 on uniform regions, which must not be scaled up to full
// strength.
func normalize(features []float64) {
	maxVal := 0.0
	for _, f := range features {
		if f > maxVal {
			maxVal = f
		}
	}
	if maxVal < 1e-9 {
		for i := range features {
			features[i] = 0
		}

		return
	}
	for i := range features {
		features[i] /= maxVal
	}
}

// applyThreshold zeroes components below the threshold in place.
func applyThreshold(features []float64, threshold float64) {
	for i, f := range features {
		if f < threshold {
			features[i] = 0
		}
	}
}
