package spikego

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/spikego/blobstore"
	"github.com/hupe1980/spikego/classify"
	"github.com/hupe1980/spikego/resource"
	"github.com/hupe1980/spikego/snapshot"
	"github.com/hupe1980/spikego/testutil"
)

const (
	labelVertical   = 0
	labelHorizontal = 1
)

// trainedPipeline returns a pipeline taught to tell vertical from
// horizontal step edges on 8x8 samples.
func trainedPipeline(t *testing.T, optFns ...Option) *Pipeline {
	t.Helper()

	p, err := New(1, optFns...)
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, p.Train(ctx, testutil.VerticalStep(8, 0, 255), labelVertical))
	require.NoError(t, p.Train(ctx, testutil.HorizontalStep(8, 0, 255), labelHorizontal))

	return p
}

func TestPipelineTrainClassify(t *testing.T) {
	p := trainedPipeline(t)
	ctx := context.Background()

	assert.Equal(t, 2, p.Pool().Len())
	assert.ElementsMatch(t, []int{labelVertical, labelHorizontal}, p.Pool().Labels())

	t.Run("recognizes vertical", func(t *testing.T) {
		res, err := p.Classify(ctx, testutil.VerticalStep(8, 10, 250))
		require.NoError(t, err)
		assert.Equal(t, labelVertical, res.Label)
		assert.Positive(t, res.Confidence)
	})

	t.Run("recognizes horizontal", func(t *testing.T) {
		res, err := p.Classify(ctx, testutil.HorizontalStep(8, 10, 250))
		require.NoError(t, err)
		assert.Equal(t, labelHorizontal, res.Label)
	})
}

func TestPipelineNotTrained(t *testing.T) {
	p, err := New(1)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = p.Classify(ctx, testutil.VerticalStep(8, 0, 255))
	assert.ErrorIs(t, err, ErrNotTrained)

	_, err = p.ClassifyBatch(ctx, [][]uint8{testutil.VerticalStep(8, 0, 255)})
	assert.ErrorIs(t, err, ErrNotTrained)
}

func TestPipelineTrainInvalidSample(t *testing.T) {
	p, err := New(1)
	require.NoError(t, err)

	require.Error(t, p.Train(context.Background(), nil, labelVertical))
	assert.Zero(t, p.Pool().Len())
}

func TestPipelineClassifyBatch(t *testing.T) {
	p := trainedPipeline(t)

	samples := [][]uint8{
		testutil.VerticalStep(8, 0, 255),
		testutil.HorizontalStep(8, 0, 255),
		testutil.VerticalStep(8, 10, 250),
	}

	results, err := p.ClassifyBatch(context.Background(), samples)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, labelVertical, results[0].Label)
	assert.Equal(t, labelHorizontal, results[1].Label)
	assert.Equal(t, labelVertical, results[2].Label)
}

func TestPipelineWithClassifier(t *testing.T) {
	p := trainedPipeline(t, WithClassifier("weighted_similarity", classify.Config{K: 2, Power: 2.0}))

	res, err := p.Classify(context.Background(), testutil.VerticalStep(8, 0, 255))
	require.NoError(t, err)
	assert.Equal(t, labelVertical, res.Label)
	assert.Greater(t, res.Confidence, 0.5)
}

func TestPipelineMetrics(t *testing.T) {
	mc := &BasicMetricsCollector{}

	p := trainedPipeline(t, WithMetricsCollector(mc))

	_, err := p.Classify(context.Background(), testutil.VerticalStep(8, 0, 255))
	require.NoError(t, err)

	assert.Equal(t, int64(2), mc.TrainCount.Load())
	assert.Equal(t, int64(1), mc.ClassifyCount.Load())

	// Only classification goes through the sample-encoding path that
	// records process metrics; training records its own metric.
	assert.Equal(t, int64(1), mc.ProcessCount.Load())
	assert.Zero(t, mc.ClassifyErrors.Load())
}

func TestPipelineSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	p := trainedPipeline(t, WithSnapshotOptions(func(o *snapshot.Options) {
		o.Compression = snapshot.CompressionLZ4
	}))

	require.NoError(t, p.SaveSnapshot(ctx, store, "lattice.snap"))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"lattice.snap"}, names)

	// A fresh pipeline restored from the snapshot produces the same
	// activation patterns as the trained one.
	restored, err := New(1)
	require.NoError(t, err)
	require.NoError(t, restored.LoadSnapshot(ctx, store, "lattice.snap"))

	sample := testutil.VerticalStep(8, 0, 255)

	want, err := p.activation(sample)
	require.NoError(t, err)

	got, err := restored.activation(sample)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestPipelineSnapshotWithResourceController(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	rc := resource.NewController(resource.Config{
		MaxBackgroundWorkers: 1,
		IOLimitBytesPerSec:   1 << 20,
	})

	p := trainedPipeline(t, WithResourceController(rc))

	require.NoError(t, p.SaveSnapshot(ctx, store, "lattice.snap"))

	// The snapshot buffer reservation is released after the upload; only
	// the two stored activation patterns (8 float64 each) remain tracked.
	assert.Equal(t, int64(128), rc.MemoryUsage())

	restored, err := New(1, WithResourceController(rc))
	require.NoError(t, err)
	require.NoError(t, restored.LoadSnapshot(ctx, store, "lattice.snap"))
}

func TestPipelineMemoryLimit(t *testing.T) {
	ctx := context.Background()

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})

	p, err := New(1, WithResourceController(rc))
	require.NoError(t, err)

	// One activation pattern over 8 orientations takes 64 bytes.
	require.NoError(t, p.Train(ctx, testutil.VerticalStep(8, 0, 255), labelVertical))
	assert.Equal(t, int64(64), rc.MemoryUsage())

	err = p.Train(ctx, testutil.HorizontalStep(8, 0, 255), labelHorizontal)
	assert.ErrorIs(t, err, ErrMemoryLimit)

	assert.Equal(t, 1, p.Pool().Len())
	assert.Equal(t, int64(64), rc.MemoryUsage())
}

func TestPipelineLoadSnapshotMissing(t *testing.T) {
	p, err := New(1)
	require.NoError(t, err)

	err = p.LoadSnapshot(context.Background(), blobstore.NewMemoryStore(), "missing.snap")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
