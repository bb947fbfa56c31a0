package edge

import (
	"math"
)

// DoG blurs the region with two Gaussians of increasing width, subtracts
// them, and projects the local gradient of the difference image onto each
// orientation direction. Approximates center-surround receptive fields.
type DoG struct {
	cfg Config
}

func newDoG(cfg Config) *DoG {
	return &DoG{cfg: cfg}
}

// Name returns "dog".
func (d *DoG) Name() string { return "dog" }

// Orientations returns the configured orientation count.
func (d *DoG) Orientations() int { return d.cfg.Orientations }

// ExtractEdges implements Operator.
func (d *DoG) ExtractEdges(region []uint8, regionSize int) []float64 {
	blur1 := d.gaussianBlur(region, regionSize, d.cfg.Sigma1)
	blur2 := d.gaussianBlur(region, regionSize, d.cfg.Sigma2)

	dog := make([]float64, regionSize*regionSize)
	for i := range dog {
		dog[i] = blur1[i] - blur2[i]
	}

	features := make([]float64, d.cfg.Orientations)
	for orient := range features {
		features[orient] = d.orientedResponse(dog, regionSize, orient)
	}
	normalize(features)
	applyThreshold(features, d.cfg.Threshold)
	return features
}

// gaussianBlur convolves the region with a weight-normalized Gaussian so
// uniform regions blur to themselves exactly.
func (d *DoG) gaussianBlur(region []uint8, regionSize int, sigma float64) []float64 {
	half := d.cfg.KernelSize / 2
	blurred := make([]float64, regionSize*regionSize)

	for r := 0; r < regionSize; r++ {
		for c := 0; c < regionSize; c++ {
			sum := 0.0
			weightSum := 0.0
			for kr := -half; kr <= half; kr++ {
				for kc := -half; kc <= half; kc++ {
					nr, nc := r+kr, c+kc
					if nr < 0 || nr >= regionSize || nc < 0 || nc >= regionSize {
						continue
					}
					w := gaussian(float64(kc), float64(kr), sigma)
					sum += pixel(region, nr, nc, regionSize) * w
					weightSum += w
				}
			}
			if weightSum > 0 {
				blurred[r*regionSize+c] = sum / weightSum
			}
		}
	}

	return blurred
}

func gaussian(x, y, sigma float64) float64 {
	return math.Exp(-(x*x+y*y)/(2.0*sigma*sigma)) / (2.0 * math.Pi * sigma * sigma)
}

// orientedResponse sums, over interior pixels, the magnitude of the DoG
// gradient projected onto the orientation direction.
func (d *DoG) orientedResponse(dog []float64, regionSize, orient int) float64 {
	theta := float64(orient) * math.Pi / float64(d.cfg.Orientations)
	dx := math.Cos(theta)
	dy := math.Sin(theta)

	response := 0.0
	for r := 1; r < regionSize-1; r++ {
		for c := 1; c < regionSize-1; c++ {
			gradX := dog[r*regionSize+(c+1)] - dog[r*regionSize+(c-1)]
			gradY := dog[(r+1)*regionSize+c] - dog[(r-1)*regionSize+c]
			response += math.Abs(dx*gradX + dy*gradY)
		}
	}
	return response
}
