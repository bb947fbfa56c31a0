package classify

import (
	"container/heap"
	"errors"
	"math"

	"github.com/hupe1980/spikego/metric"
	"github.com/hupe1980/spikego/queue"
)

var (
	// ErrEmptyQuery occurs when the query pattern has no elements.
	ErrEmptyQuery = errors.New("classify: empty query pattern")

	// ErrNoPatterns occurs when no labeled patterns are stored.
	ErrNoPatterns = errors.New("classify: no labeled patterns")
)

// weightFunc converts a neighbor's similarity into its vote weight.
type weightFunc func(similarity float64) float64

func majorityWeight(float64) float64 { return 1.0 }

// distanceWeight weights neighbors by inverse distance, treating distance
// as 1-similarity. The epsilon keeps exact matches finite.
func distanceWeight(power float64) weightFunc {
	return func(s float64) float64 {
		return 1.0 / (math.Pow(1.0-s, power) + 1e-6)
	}
}

func similarityWeight(power float64) weightFunc {
	return func(s float64) float64 {
		return math.Pow(s, power)
	}
}

// knn is the shared k-NN core. Strategies differ only in their vote
// weighting; neighbor selection and tie-breaking are identical, so a
// weighted strategy with a degenerate exponent behaves exactly like
// majority voting.
type knn struct {
	cfg    Config
	sim    metric.Func
	name   string
	weight weightFunc
}

var _ Strategy = (*knn)(nil)

// Classify returns the predicted label for the query.
func (c *knn) Classify(query []float64, patterns []LabeledPattern) (int, error) {
	res, err := c.ClassifyWithConfidence(query, patterns)
	if err != nil {
		return 0, err
	}

	return res.Label, nil
}

// ClassifyWithConfidence returns the predicted label and the winning
// label's share of the total vote weight.
func (c *knn) ClassifyWithConfidence(query []float64, patterns []LabeledPattern) (Result, error) {
	neighbors, err := c.nearest(query, patterns)
	if err != nil {
		return Result{}, err
	}

	return c.vote(neighbors), nil
}

// Name returns the strategy name.
func (c *knn) Name() string { return c.name }

// nearest selects the k most similar stored patterns using a bounded
// min-heap, so ranking costs O(n log k).
func (c *knn) nearest(query []float64, patterns []LabeledPattern) ([]*queue.PriorityQueueItem, error) {
	if len(query) == 0 {
		return nil, ErrEmptyQuery
	}

	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}

	pq := &queue.PriorityQueue{}
	heap.Init(pq)

	for i, p := range patterns {
		s, err := c.sim(query, p.Vector)
		if err != nil {
			return nil, err
		}

		heap.Push(pq, &queue.PriorityQueueItem{ID: uint32(i), Label: p.Label, Similarity: s})

		if pq.Len() > c.cfg.K {
			heap.Pop(pq)
		}
	}

	return pq.Items, nil
}

// vote aggregates neighbor weights per label. Ties on total weight are
// broken by the higher average similarity among the tied labels.
func (c *knn) vote(neighbors []*queue.PriorityQueueItem) Result {
	type tally struct {
		weight float64
		simSum float64
		count  int
	}

	tallies := make(map[int]*tally)
	total := 0.0

	for _, n := range neighbors {
		t, ok := tallies[n.Label]
		if !ok {
			t = &tally{}
			tallies[n.Label] = t
		}

		w := c.weight(n.Similarity)

		t.weight += w
		t.simSum += n.Similarity
		t.count++
		total += w
	}

	best := 0
	bestWeight := math.Inf(-1)
	bestAvgSim := math.Inf(-1)

	for label, t := range tallies {
		avg := t.simSum / float64(t.count)

		switch {
		case t.weight > bestWeight:
			best, bestWeight, bestAvgSim = label, t.weight, avg
		case t.weight == bestWeight && avg > bestAvgSim:
			best, bestAvgSim = label, avg
		case t.weight == bestWeight && avg == bestAvgSim && label < best:
			// Deterministic ordering for fully tied labels.
			best = label
		}
	}

	confidence := 0.0
	if total > 0 {
		confidence = bestWeight / total
	}

	return Result{Label: best, Confidence: confidence}
}
