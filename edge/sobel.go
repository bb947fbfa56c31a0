package edge

import (
	"math"
)

// Sobel sums absolute directional pixel differences over interior 3x3
// neighborhoods. The canonical first eight orientations use literal
// neighbor differences; finer orientation counts fall back to
// trigonometric projection of the horizontal and vertical gradients.
// Cheapest of the operators; favors sharp, high-contrast edges.
type Sobel struct {
	cfg Config
}

func newSobel(cfg Config) *Sobel {
	return &Sobel{cfg: cfg}
}

// Name returns "sobel".
func (s *Sobel) Name() string { return "sobel" }

// Orientations returns the configured orientation count.
func (s *Sobel) Orientations() int { return s.cfg.Orientations }

// ExtractEdges implements Operator.
func (s *Sobel) ExtractEdges(region []uint8, regionSize int) []float64 {
	features := make([]float64, s.cfg.Orientations)
	for orient := range features {
		features[orient] = s.orientedGradient(region, regionSize, orient)
	}
	normalize(features)
	applyThreshold(features, s.cfg.Threshold)
	return features
}

func (s *Sobel) orientedGradient(region []uint8, regionSize, orient int) float64 {
	// The literal difference cases below are laid out for the canonical
	// 8-orientation bank. A 4-orientation bank reuses every other case;
	// any other count projects trigonometrically.
	lit := -1
	switch s.cfg.Orientations {
	case 8:
		lit = orient
	case 4:
		lit = orient * 2
	}

	gradient := 0.0
	for r := 1; r < regionSize-1; r++ {
		for c := 1; c < regionSize-1; c++ {
			top := pixel(region, r-1, c, regionSize)
			bottom := pixel(region, r+1, c, regionSize)
			left := pixel(region, r, c-1, regionSize)
			right := pixel(region, r, c+1, regionSize)
			topLeft := pixel(region, r-1, c-1, regionSize)
			topRight := pixel(region, r-1, c+1, regionSize)
			bottomLeft := pixel(region, r+1, c-1, regionSize)
			bottomRight := pixel(region, r+1, c+1, regionSize)

			switch lit {
			case 0: // 0 degrees, horizontal
				gradient += math.Abs(right - left)
			case 1: // 22.5 degrees
				gradient += math.Abs(topRight - bottomLeft)
			case 2: // 45 degrees
				// The two-term diagonal sums are halved so their magnitude
				// stays comparable to the single-difference orientations.
				gradient += 0.5 * math.Abs(top+topRight-bottom-bottomLeft)
			case 3: // 67.5 degrees
				gradient += math.Abs(topRight - bottomLeft)
			case 4: // 90 degrees, vertical
				gradient += math.Abs(bottom - top)
			case 5: // 112.5 degrees
				gradient += math.Abs(bottomRight - topLeft)
			case 6: // 135 degrees
				gradient += 0.5 * math.Abs(bottom+bottomRight-top-topLeft)
			case 7: // 157.5 degrees
				gradient += math.Abs(bottomRight - topLeft)
			default:
				theta := float64(orient) * math.Pi / float64(s.cfg.Orientations)
				dx := math.Cos(theta)
				dy := math.Sin(theta)
				// cos(pi/2) is not exactly zero in floating point.
				if math.Abs(dx) < 1e-12 {
					dx = 0
				}
				if math.Abs(dy) < 1e-12 {
					dy = 0
				}
				gradient += math.Abs(dx*(right-left) + dy*(bottom-top))
			}
		}
	}
	return gradient
}
