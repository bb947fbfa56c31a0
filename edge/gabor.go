package edge

import (
	"math"
)

// Gabor convolves the region with a Gaussian-envelope sinusoidal-carrier
// kernel, one per orientation, and sums the absolute response over interior
// pixels. Kernels are DC-corrected to zero mean so uniform regions produce
// no response. More expensive than sobel; tuned to the spatial frequency
// set by the wavelength rather than raw contrast.
type Gabor struct {
	cfg     Config
	kernels [][]float64 // one flattened kernelSize x kernelSize kernel per orientation
}

func newGabor(cfg Config) *Gabor {
	g := &Gabor{cfg: cfg}
	g.kernels = make([][]float64, cfg.Orientations)
	for orient := range g.kernels {
		theta := float64(orient) * math.Pi / float64(cfg.Orientations)
		g.kernels[orient] = g.buildKernel(theta)
	}
	return g
}

// Name returns "gabor".
func (g *Gabor) Name() string { return "gabor" }

// Orientations returns the configured orientation count.
func (g *Gabor) Orientations() int { return g.cfg.Orientations }

func (g *Gabor) buildKernel(theta float64) []float64 {
	size := g.cfg.KernelSize
	half := size / 2
	kernel := make([]float64, size*size)

	sum := 0.0
	for kr := -half; kr <= half; kr++ {
		for kc := -half; kc <= half; kc++ {
			v := g.gabor(float64(kc), float64(kr), theta)
			kernel[(kr+half)*size+(kc+half)] = v
			sum += v
		}
	}

	// Zero-mean correction: a kernel with nonzero DC component responds
	// to uniform regions, which must yield zero features.
	mean := sum / float64(len(kernel))
	for i := range kernel {
		kernel[i] -= mean
	}

	return kernel
}

func (g *Gabor) gabor(x, y, theta float64) float64 {
	xt := x*math.Cos(theta) + y*math.Sin(theta)
	yt := -x*math.Sin(theta) + y*math.Cos(theta)

	envelope := math.Exp(-(xt*xt + g.cfg.Gamma*g.cfg.Gamma*yt*yt) / (2.0 * g.cfg.Sigma * g.cfg.Sigma))
	carrier := math.Cos(2.0*math.Pi*xt/g.cfg.Wavelength + g.cfg.PhaseOffset)

	return envelope * carrier
}

// ExtractEdges implements Operator.
func (g *Gabor) ExtractEdges(region []uint8, regionSize int) []float64 {
	features := make([]float64, g.cfg.Orientations)
	for orient := range features {
		features[orient] = g.response(region, regionSize, g.kernels[orient])
	}
	normalize(features)
	applyThreshold(features, g.cfg.Threshold)
	return features
}

// response applies the kernel at every interior position and accumulates
// the absolute filtered values (energy).
func (g *Gabor) response(region []uint8, regionSize int, kernel []float64) float64 {
	size := g.cfg.KernelSize
	half := size / 2

	total := 0.0
	for r := half; r < regionSize-half; r++ {
		for c := half; c < regionSize-half; c++ {
			acc := 0.0
			for kr := -half; kr <= half; kr++ {
				for kc := -half; kc <= half; kc++ {
					acc += pixel(region, r+kr, c+kc, regionSize) * kernel[(kr+half)*size+(kc+half)]
				}
			}
			total += math.Abs(acc)
		}
	}
	return total
}
