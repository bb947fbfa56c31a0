package spike

import (
	"fmt"
	"math"
	"strings"
)

// DefaultBins is the number of temporal bins used when canonicalizing a
// train into fixed-length form for the binned metrics.
const DefaultBins = 50

// Victor-Purpura style alignment costs. Shifting a spike by dt costs q*|dt|;
// a spike with no affordable partner is deleted and re-inserted instead.
const (
	// DefaultShiftCost is the cost per millisecond of moving a spike (q).
	DefaultShiftCost = 0.5

	// deleteInsertCost is the cost of deleting a spike from one train and
	// inserting it into the other, paid when shifting would cost more.
	deleteInsertCost = 2.0

	// unmatchedCost is the cost charged per spike left unmatched.
	unmatchedCost = 1.0
)

// Metric identifies a train-level similarity metric.
type Metric int

const (
	// MetricCosine compares trains canonicalized into fixed-length binned
	// form using cosine similarity.
	MetricCosine Metric = iota

	// MetricSpikeDistance uses a Victor-Purpura style alignment cost,
	// converted to similarity via 1/(1+cost). It is the only metric that
	// compares trains of different spike counts directly.
	MetricSpikeDistance

	// MetricHistogram bins both trains into probability distributions and
	// compares them with the Bhattacharyya coefficient. Robust to small
	// timing jitter.
	MetricHistogram
)

// String returns the stable name of the metric.
func (m Metric) String() string {
	switch m {
	case MetricCosine:
		return "cosine"
	case MetricSpikeDistance:
		return "spike_distance"
	case MetricHistogram:
		return "histogram"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// MetricByName resolves a metric by its stable name. Unknown names fail
// descriptively; there is no fallback metric.
func MetricByName(name string) (Metric, error) {
	switch strings.ToLower(name) {
	case "cosine":
		return MetricCosine, nil
	case "spike_distance", "spike", "victor_purpura":
		return MetricSpikeDistance, nil
	case "histogram", "fuzzy":
		return MetricHistogram, nil
	default:
		return 0, fmt.Errorf("unknown spike metric %q (available: cosine, spike_distance, histogram)", name)
	}
}

// Func computes the similarity of two trains in [0, 1].
type Func func(a, b Train) float64

// Provider returns the similarity function for the given metric. Binned
// metrics canonicalize over [0, window) with DefaultBins bins.
func Provider(m Metric, window float64) (Func, error) {
	switch m {
	case MetricCosine:
		return func(a, b Train) float64 {
			return CosineBinned(a, b, window, DefaultBins)
		}, nil
	case MetricSpikeDistance:
		return func(a, b Train) float64 {
			return 1.0 / (1.0 + VictorPurpura(a, b, DefaultShiftCost))
		}, nil
	case MetricHistogram:
		return func(a, b Train) float64 {
			return Bhattacharyya(a, b, window, DefaultBins)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported spike metric: %v", m)
	}
}

// VictorPurpura computes a greedy Victor-Purpura style alignment cost
// between two trains. Each spike in a is matched to its nearest unmatched
// spike in b at cost q*|dt| when that is cheaper than deleting and
// re-inserting it; every spike left unmatched on either side is charged the
// delete/insert cost. Lower is more similar.
func VictorPurpura(a, b Train, q float64) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0.0
	}
	if len(a) == 0 {
		return float64(len(b))
	}
	if len(b) == 0 {
		return float64(len(a))
	}

	total := 0.0
	matched := make([]bool, len(b))

	for _, s := range a {
		minDist := math.MaxFloat64
		best := -1
		for j, t := range b {
			if matched[j] {
				continue
			}
			if d := math.Abs(s - t); d < minDist {
				minDist = d
				best = j
			}
		}

		if best < 0 {
			total += unmatchedCost
			continue
		}

		if shift := q * minDist; shift < deleteInsertCost {
			total += shift
			matched[best] = true
		} else {
			total += deleteInsertCost
		}
	}

	for _, m := range matched {
		if !m {
			total += unmatchedCost
		}
	}

	return total
}

// CosineBinned canonicalizes both trains into bins equal-width temporal bins
// and returns their cosine similarity, clamped to [0, 1]. Identical trains
// yield exactly 1.
func CosineBinned(a, b Train, window float64, bins int) float64 {
	ha := a.Histogram(window, bins)
	hb := b.Histogram(window, bins)

	var dot, na, nb float64
	for i := range ha {
		dot += ha[i] * hb[i]
		na += ha[i] * ha[i]
		nb += hb[i] * hb[i]
	}
	if na == 0 || nb == 0 {
		return 0.0
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(0.0, math.Min(1.0, sim))
}

// Bhattacharyya bins both trains into probability distributions over
// [0, window) and returns the Bhattacharyya coefficient sum(sqrt(p_i*q_i)).
// Identical distributions yield 1, disjoint ones 0.
func Bhattacharyya(a, b Train, window float64, bins int) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	pa := a.Histogram(window, bins)
	pb := b.Histogram(window, bins)

	coeff := 0.0
	for i := range pa {
		coeff += math.Sqrt(pa[i] * pb[i])
	}
	return math.Min(1.0, coeff)
}
