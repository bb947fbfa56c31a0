// Package classify provides k-nearest-neighbor classification over labeled
// activation patterns, with pluggable voting strategies.
package classify

import (
	"fmt"
	"strings"

	"github.com/hupe1980/spikego/metric"
)

// LabeledPattern pairs an activation pattern with its class label.
type LabeledPattern struct {
	Vector []float64
	Label  int
}

// Result holds a classification outcome with its normalized confidence.
type Result struct {
	Label      int
	Confidence float64
}

// Strategy predicts a class label for a query pattern from labeled exemplars.
type Strategy interface {
	// Classify returns the predicted label, or an error when the query is
	// empty, no patterns are stored, or a dimension mismatch occurs.
	Classify(query []float64, patterns []LabeledPattern) (int, error)

	// ClassifyWithConfidence additionally reports the winning label's
	// share of the total vote weight.
	ClassifyWithConfidence(query []float64, patterns []LabeledPattern) (Result, error)

	// Name returns the strategy's stable name.
	Name() string
}

// Config holds the k-NN classifier parameters.
type Config struct {
	// K is the number of neighbors consulted. Values above the pattern
	// count are truncated at classification time.
	K int

	// Power is the weighting exponent of the weighted strategies. Zero
	// selects the default; near-zero values degenerate to majority voting.
	Power float64

	// Metric names the vector similarity used to rank neighbors.
	Metric string
}

// DefaultConfig contains the default classifier configuration.
var DefaultConfig = Config{
	K:      5,
	Power:  2.0,
	Metric: "cosine",
}

func (c *Config) applyDefaults() {
	if c.K < 1 {
		c.K = DefaultConfig.K
	}
	if c.Power == 0 {
		c.Power = DefaultConfig.Power
	}
	if c.Metric == "" {
		c.Metric = DefaultConfig.Metric
	}
}

// New creates a classification strategy by its stable name. Unknown names
// fail descriptively; there is no fallback strategy.
func New(name string, cfg Config) (Strategy, error) {
	cfg.applyDefaults()

	sim, err := metric.ByName(cfg.Metric)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(name) {
	case "majority", "majority_vote":
		return &knn{cfg: cfg, sim: sim, name: "majority", weight: majorityWeight}, nil
	case "weighted_distance":
		return &knn{cfg: cfg, sim: sim, name: "weighted_distance", weight: distanceWeight(cfg.Power)}, nil
	case "weighted_similarity":
		return &knn{cfg: cfg, sim: sim, name: "weighted_similarity", weight: similarityWeight(cfg.Power)}, nil
	default:
		return nil, fmt.Errorf("classify: unknown strategy %q (available: %s)",
			name, strings.Join(Available(), ", "))
	}
}

// Available lists the registered strategy names.
func Available() []string {
	return []string{"majority", "weighted_distance", "weighted_similarity"}
}
