package classify

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
)

// PoolOptions configures a Pool.
type PoolOptions struct {
	// Strategy names the voting strategy. Defaults to "majority".
	Strategy string

	// Config holds the k-NN parameters.
	Config Config

	// MaxConcurrency bounds parallel batch classification. Defaults to
	// the number of CPUs.
	MaxConcurrency int
}

// DefaultPoolOptions contains the default pool configuration.
var DefaultPoolOptions = PoolOptions{
	Strategy: "majority",
	Config:   DefaultConfig,
}

// Pool is a concurrency-safe store of labeled activation patterns with
// per-label bitmap indexes, supporting filtered and batched classification.
type Pool struct {
	mu       sync.RWMutex
	patterns []LabeledPattern
	labels   map[int]*roaring.Bitmap
	strategy Strategy
	maxConc  int
}

// NewPool creates a pattern pool.
func NewPool(optFns ...func(o *PoolOptions)) (*Pool, error) {
	opts := DefaultPoolOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Strategy == "" {
		opts.Strategy = DefaultPoolOptions.Strategy
	}

	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = runtime.NumCPU()
	}

	strategy, err := New(opts.Strategy, opts.Config)
	if err != nil {
		return nil, err
	}

	return &Pool{
		labels:   make(map[int]*roaring.Bitmap),
		strategy: strategy,
		maxConc:  opts.MaxConcurrency,
	}, nil
}

// Add stores a labeled pattern and returns its id.
func (p *Pool) Add(vector []float64, label int) uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := uint32(len(p.patterns))

	v := make([]float64, len(vector))
	copy(v, vector)

	p.patterns = append(p.patterns, LabeledPattern{Vector: v, Label: label})

	bm, ok := p.labels[label]
	if !ok {
		bm = roaring.New()
		p.labels[label] = bm
	}

	bm.Add(id)

	return id
}

// Len returns the number of stored patterns.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.patterns)
}

// Labels returns the distinct labels present in the pool.
func (p *Pool) Labels() []int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	labels := make([]int, 0, len(p.labels))
	for label := range p.labels {
		labels = append(labels, label)
	}

	return labels
}

// Classify predicts the label of a single query pattern.
func (p *Pool) Classify(ctx context.Context, query []float64) (Result, error) {
	return p.ClassifyFiltered(ctx, query, nil)
}

// ClassifyFiltered predicts the label of a query considering only the given
// candidate labels. A nil or empty candidate set considers all labels.
func (p *Pool) ClassifyFiltered(ctx context.Context, query []float64, candidates []int) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	patterns := p.snapshot(candidates)

	return p.strategy.ClassifyWithConfidence(query, patterns)
}

// ClassifyBatch predicts labels for many queries in parallel. Results keep
// the order of the queries; the first error aborts the batch.
func (p *Pool) ClassifyBatch(ctx context.Context, queries [][]float64) ([]Result, error) {
	results := make([]Result, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConc)

	for i, q := range queries {
		g.Go(func() error {
			res, err := p.Classify(ctx, q)
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// snapshot copies the candidate patterns out under the read lock. With a
// candidate label set, membership is resolved through the label bitmaps.
func (p *Pool) snapshot(candidates []int) []LabeledPattern {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(candidates) == 0 {
		out := make([]LabeledPattern, len(p.patterns))
		copy(out, p.patterns)

		return out
	}

	filter := roaring.New()

	for _, label := range candidates {
		if bm, ok := p.labels[label]; ok {
			filter.Or(bm)
		}
	}

	out := make([]LabeledPattern, 0, filter.GetCardinality())

	it := filter.Iterator()
	for it.HasNext() {
		out = append(out, p.patterns[it.Next()])
	}

	return out
}
