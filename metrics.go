package spikego

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordProcess is called after a sample is encoded into the lattice.
	// duration is the total time taken, err is nil if successful.
	RecordProcess(duration time.Duration, err error)

	// RecordTrain is called after each training operation.
	RecordTrain(duration time.Duration, err error)

	// RecordClassify is called after each classification.
	RecordClassify(duration time.Duration, err error)

	// RecordSnapshot is called after a snapshot save or load.
	// bytes is the payload size where known, 0 otherwise.
	RecordSnapshot(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordProcess(time.Duration, error)         {}
func (NoopMetricsCollector) RecordTrain(time.Duration, error)           {}
func (NoopMetricsCollector) RecordClassify(time.Duration, error)        {}
func (NoopMetricsCollector) RecordSnapshot(int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ProcessCount       atomic.Int64
	ProcessErrors      atomic.Int64
	ProcessTotalNanos  atomic.Int64
	TrainCount         atomic.Int64
	TrainErrors        atomic.Int64
	TrainTotalNanos    atomic.Int64
	ClassifyCount      atomic.Int64
	ClassifyErrors     atomic.Int64
	ClassifyTotalNanos atomic.Int64
	SnapshotCount      atomic.Int64
	SnapshotErrors     atomic.Int64
	SnapshotBytes      atomic.Int64
}

// RecordProcess implements MetricsCollector.
func (b *BasicMetricsCollector) RecordProcess(duration time.Duration, err error) {
	b.ProcessCount.Add(1)
	b.ProcessTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ProcessErrors.Add(1)
	}
}

// RecordTrain implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrain(duration time.Duration, err error) {
	b.TrainCount.Add(1)
	b.TrainTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TrainErrors.Add(1)
	}
}

// RecordClassify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClassify(duration time.Duration, err error) {
	b.ClassifyCount.Add(1)
	b.ClassifyTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ClassifyErrors.Add(1)
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(bytes int64, _ time.Duration, err error) {
	b.SnapshotCount.Add(1)
	b.SnapshotBytes.Add(bytes)
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// AverageProcessTime returns the mean encode latency.
func (b *BasicMetricsCollector) AverageProcessTime() time.Duration {
	count := b.ProcessCount.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(b.ProcessTotalNanos.Load() / count)
}

// AverageClassifyTime returns the mean classification latency.
func (b *BasicMetricsCollector) AverageClassifyTime() time.Duration {
	count := b.ClassifyCount.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(b.ClassifyTotalNanos.Load() / count)
}
