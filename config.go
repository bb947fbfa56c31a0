package spikego

import (
	"fmt"
	"os"

	"github.com/hupe1980/spikego/classify"
	"github.com/hupe1980/spikego/codec"
	"github.com/hupe1980/spikego/edge"
	"github.com/hupe1980/spikego/encoding"
	"github.com/hupe1980/spikego/learn"
	"github.com/hupe1980/spikego/neuron"
)

// Component selects a named component implementation.
type Component[T any] struct {
	Name   string `json:"name"`
	Config T      `json:"config"`
}

// Config is a declarative pipeline configuration, loadable from JSON.
// Zero-valued components keep their defaults.
type Config struct {
	GridSize   int                        `json:"grid_size"`
	Edge       Component[edge.Config]     `json:"edge"`
	Encoding   Component[encoding.Config] `json:"encoding"`
	Neuron     neuron.Options             `json:"neuron"`
	Policy     Component[learn.Config]    `json:"policy"`
	Classifier Component[classify.Config] `json:"classifier"`
}

// LoadConfig reads a JSON pipeline configuration from a file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is configurable
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := (codec.JSON{}).Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.GridSize < 1 {
		return nil, fmt.Errorf("config: grid size must be positive, got %d", cfg.GridSize)
	}

	return &cfg, nil
}

// Options converts the configuration into constructor options.
func (c *Config) Options() []Option {
	var opts []Option

	if c.Edge.Name != "" {
		opts = append(opts, WithEdgeOperator(c.Edge.Name, c.Edge.Config))
	}
	if c.Encoding.Name != "" {
		opts = append(opts, WithEncoding(c.Encoding.Name, c.Encoding.Config))
	}
	if c.Neuron != (neuron.Options{}) {
		opts = append(opts, WithNeuronOptions(c.Neuron))
	}
	if c.Policy.Name != "" {
		opts = append(opts, WithLearningPolicy(c.Policy.Name, c.Policy.Config))
	}
	if c.Classifier.Name != "" {
		opts = append(opts, WithClassifier(c.Classifier.Name, c.Classifier.Config))
	}

	return opts
}

// NewFromConfig creates a pipeline from a declarative configuration.
func NewFromConfig(cfg *Config, extra ...Option) (*Pipeline, error) {
	return New(cfg.GridSize, append(cfg.Options(), extra...)...)
}
