package spikego

import (
	"github.com/hupe1980/spikego/classify"
	"github.com/hupe1980/spikego/edge"
	"github.com/hupe1980/spikego/encoding"
	"github.com/hupe1980/spikego/learn"
	"github.com/hupe1980/spikego/neuron"
	"github.com/hupe1980/spikego/resource"
	"github.com/hupe1980/spikego/snapshot"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector

	edgeName       string
	edgeConfig     edge.Config
	encodingName   string
	encodingConfig encoding.Config
	neuronOptions  neuron.Options
	policyName     string
	policyConfig   learn.Config

	classifierName   string
	classifierConfig classify.Config

	snapshotOptions []func(o *snapshot.Options)
	controller      *resource.Controller
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		edgeName:         "sobel",
		edgeConfig:       edge.DefaultConfig,
		encodingName:     "rate",
		encodingConfig:   encoding.DefaultConfig,
		neuronOptions:    neuron.DefaultOptions,
		classifierName:   "majority",
		classifierConfig: classify.DefaultConfig,
	}
}

// Option configures retina and pipeline construction.
type Option func(*options)

// WithLogger configures structured logging. Pass nil to keep logging
// disabled.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithEdgeOperator selects the edge extraction operator by name
// ("sobel", "gabor", "dog").
func WithEdgeOperator(name string, cfg edge.Config) Option {
	return func(o *options) {
		o.edgeName = name
		o.edgeConfig = cfg
	}
}

// WithEncoding selects the spike encoding strategy by name
// ("rate", "temporal", "population").
func WithEncoding(name string, cfg encoding.Config) Option {
	return func(o *options) {
		o.encodingName = name
		o.encodingConfig = cfg
	}
}

// WithNeuronOptions configures the lattice neurons (window size, firing
// threshold, pattern capacity, similarity metric).
func WithNeuronOptions(opts neuron.Options) Option {
	return func(o *options) {
		o.neuronOptions = opts
	}
}

// WithLearningPolicy selects the pattern update policy by name
// ("append", "replace_worst", "merge_similar", "hybrid").
func WithLearningPolicy(name string, cfg learn.Config) Option {
	return func(o *options) {
		o.policyName = name
		o.policyConfig = cfg
	}
}

// WithClassifier selects the classification strategy by name
// ("majority", "weighted_distance", "weighted_similarity").
func WithClassifier(name string, cfg classify.Config) Option {
	return func(o *options) {
		o.classifierName = name
		o.classifierConfig = cfg
	}
}

// WithSnapshotOptions configures snapshot persistence (codec, compression).
func WithSnapshotOptions(optFns ...func(o *snapshot.Options)) Option {
	return func(o *options) {
		o.snapshotOptions = optFns
	}
}

// WithResourceController bounds snapshot IO and background work through the
// given controller.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}
