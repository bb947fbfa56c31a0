package spikego

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/hupe1980/spikego/blobstore"
	"github.com/hupe1980/spikego/classify"
	"github.com/hupe1980/spikego/resource"
	"github.com/hupe1980/spikego/snapshot"
)

// Pipeline combines a retina with a k-NN classifier into a train/classify
// workflow over raw grayscale samples.
//
// The retina's spike buffers are shared mutable state, so sample encoding
// is serialized internally. Classification over the stored activation
// patterns runs concurrently.
type Pipeline struct {
	mu      sync.Mutex // guards retina spike buffers
	retina  *Retina
	pool    *classify.Pool
	logger  *Logger
	metrics MetricsCollector

	snapshotOpts []func(o *snapshot.Options)
	controller   *resource.Controller
}

// New creates a pipeline with the given lattice grid size.
func New(gridSize int, optFns ...Option) (*Pipeline, error) {
	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	retina, err := NewRetina(gridSize, optFns...)
	if err != nil {
		return nil, err
	}

	pool, err := classify.NewPool(func(o *classify.PoolOptions) {
		o.Strategy = opts.classifierName
		o.Config = opts.classifierConfig
	})
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		retina:       retina,
		pool:         pool,
		logger:       opts.logger.WithGrid(gridSize),
		metrics:      opts.metricsCollector,
		snapshotOpts: opts.snapshotOptions,
		controller:   opts.controller,
	}, nil
}

// Retina returns the underlying retina.
func (p *Pipeline) Retina() *Retina { return p.retina }

// Pool returns the labeled pattern pool.
func (p *Pipeline) Pool() *classify.Pool { return p.pool }

// Train encodes a sample, stores it in the lattice and records its
// activation pattern under the given label.
func (p *Pipeline) Train(ctx context.Context, pixels []uint8, label int) error {
	start := time.Now()

	activation, err := p.learn(pixels)
	if err == nil {
		err = p.store(activation, label)
	}

	p.metrics.RecordTrain(time.Since(start), err)
	p.logger.LogTrain(ctx, label, err)

	return err
}

func (p *Pipeline) learn(pixels []uint8) ([]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.retina.ProcessData(pixels); err != nil {
		return nil, err
	}

	p.retina.Learn()

	return p.retina.ActivationPattern(), nil
}

// store reserves memory for the pattern against the resource controller
// before adding it to the pool. Patterns live for the pool's lifetime, so
// the reservation is never released.
func (p *Pipeline) store(activation []float64, label int) error {
	if !p.controller.TryAcquireMemory(int64(len(activation)) * 8) {
		return ErrMemoryLimit
	}

	p.pool.Add(activation, label)

	return nil
}

// Classify encodes a sample and predicts its label from the stored
// activation patterns.
func (p *Pipeline) Classify(ctx context.Context, pixels []uint8) (classify.Result, error) {
	start := time.Now()

	res, err := p.classify(ctx, pixels)

	p.metrics.RecordClassify(time.Since(start), err)
	p.logger.LogClassify(ctx, res.Label, res.Confidence, err)

	return res, err
}

func (p *Pipeline) classify(ctx context.Context, pixels []uint8) (classify.Result, error) {
	if p.pool.Len() == 0 {
		return classify.Result{}, ErrNotTrained
	}

	activation, err := p.activation(pixels)
	if err != nil {
		return classify.Result{}, err
	}

	return p.pool.Classify(ctx, activation)
}

// ClassifyBatch classifies many samples. Encoding is sequential, voting
// over the pattern pool runs in parallel.
func (p *Pipeline) ClassifyBatch(ctx context.Context, samples [][]uint8) ([]classify.Result, error) {
	if p.pool.Len() == 0 {
		return nil, ErrNotTrained
	}

	activations := make([][]float64, len(samples))

	for i, pixels := range samples {
		activation, err := p.activation(pixels)
		if err != nil {
			return nil, err
		}

		activations[i] = activation
	}

	return p.pool.ClassifyBatch(ctx, activations)
}

func (p *Pipeline) activation(pixels []uint8) ([]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()

	spikes, err := p.retina.ProcessData(pixels)

	p.metrics.RecordProcess(time.Since(start), err)
	p.logger.LogProcess(context.Background(), len(pixels), spikes, err)

	if err != nil {
		return nil, err
	}

	return p.retina.ActivationPattern(), nil
}

// SaveSnapshot persists the learned lattice state to the blob store.
func (p *Pipeline) SaveSnapshot(ctx context.Context, store blobstore.BlobStore, name string) error {
	start := time.Now()

	n, err := p.saveSnapshot(ctx, store, name)

	p.metrics.RecordSnapshot(n, time.Since(start), err)
	p.logger.LogSnapshot(ctx, "save", name, time.Since(start), err)

	return err
}

func (p *Pipeline) saveSnapshot(ctx context.Context, store blobstore.BlobStore, name string) (int64, error) {
	if p.controller != nil {
		if err := p.controller.AcquireBackground(ctx); err != nil {
			return 0, err
		}
		defer p.controller.ReleaseBackground()
	}

	p.mu.Lock()
	snap := p.retina.Snapshot()
	p.mu.Unlock()

	var buf bytes.Buffer
	if err := snapshot.Write(&buf, snap, p.snapshotOpts...); err != nil {
		return 0, err
	}

	size := int64(buf.Len())

	// The encoded snapshot is held in memory for the duration of the
	// upload; account for it so concurrent saves respect the limit.
	if err := p.controller.AcquireMemory(ctx, size); err != nil {
		return 0, err
	}
	defer p.controller.ReleaseMemory(size)

	w, err := store.Create(ctx, name)
	if err != nil {
		return 0, err
	}

	var dst io.Writer = w
	if p.controller != nil {
		dst = resource.NewRateLimitedWriter(ctx, w, p.controller)
	}

	if _, err := dst.Write(buf.Bytes()); err != nil {
		_ = w.Close()

		return 0, err
	}

	return size, w.Close()
}

// LoadSnapshot restores the learned lattice state from the blob store.
func (p *Pipeline) LoadSnapshot(ctx context.Context, store blobstore.BlobStore, name string) error {
	start := time.Now()

	err := p.loadSnapshot(ctx, store, name)

	p.metrics.RecordSnapshot(0, time.Since(start), err)
	p.logger.LogSnapshot(ctx, "load", name, time.Since(start), err)

	return err
}

func (p *Pipeline) loadSnapshot(ctx context.Context, store blobstore.BlobStore, name string) error {
	r, err := store.Open(ctx, name)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	var src io.Reader = r
	if p.controller != nil {
		src = resource.NewRateLimitedReader(ctx, r, p.controller)
	}

	snap, err := snapshot.Read(src)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.retina.RestoreSnapshot(snap)
}
