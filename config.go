package cart

import (
	"fmt"
	"runtime"

	"github.com/pbanos/cart/feature"
)

// LossFunction names the impurity measure used to score splits.
type LossFunction string

// GiniLoss scores splits by their weighted Gini impurity.
const GiniLoss LossFunction = "gini"

// CandidateStrategy names when candidate splits are generated.
type CandidateStrategy string

const (
	// GlobalCandidates generates candidates once from the whole
	// training matrix and evaluates all of them at every node.
	GlobalCandidates CandidateStrategy = "global"
	// PerNodeCandidates generates candidates from the rows that
	// reach each node.
	PerNodeCandidates CandidateStrategy = "per-node"
)

/*
Config holds the hyperparameters of a Classifier.

MaxDepth and MinSamplesPerNode bound the growth of the tree when
greater than 0: a node at depth MaxDepth or reached by fewer than
MinSamplesPerNode rows becomes a leaf.
Concurrency bounds the goroutines used to score candidates and to
classify rows, 1 meaning everything runs on the calling goroutine.
*/
type Config struct {
	Loss              LossFunction      `yaml:"loss"`
	MaxDepth          int               `yaml:"max_depth"`
	MinSamplesPerNode int               `yaml:"min_samples_per_node"`
	ExcludeLastColumn bool              `yaml:"exclude_last_column"`
	Candidates        CandidateStrategy `yaml:"candidates"`
	Concurrency       int               `yaml:"concurrency"`
}

// DefaultConfig returns the Config used when none is given.
func DefaultConfig() Config {
	return Config{
		Loss:        GiniLoss,
		Candidates:  GlobalCandidates,
		Concurrency: runtime.NumCPU(),
	}
}

// WithDefaults returns a copy of the config with unset fields
// taking their default values.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Loss == "" {
		c.Loss = d.Loss
	}
	if c.Candidates == "" {
		c.Candidates = d.Candidates
	}
	if c.Concurrency == 0 {
		c.Concurrency = d.Concurrency
	}
	return c
}

// Validate returns an error if the config holds negative bounds or
// unknown variants.
func (c Config) Validate() error {
	switch c.Loss {
	case GiniLoss:
	default:
		return fmt.Errorf("loss function %q: %w", c.Loss, ErrUnsupportedVariant)
	}
	switch c.Candidates {
	case GlobalCandidates, PerNodeCandidates:
	default:
		return fmt.Errorf("candidate strategy %q: %w", c.Candidates, ErrUnsupportedVariant)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth %d: %w", c.MaxDepth, ErrInvalidInput)
	}
	if c.MinSamplesPerNode < 0 {
		return fmt.Errorf("min samples per node %d: %w", c.MinSamplesPerNode, ErrInvalidInput)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency %d: %w", c.Concurrency, ErrInvalidInput)
	}
	return nil
}

func (c Config) candidateOptions() feature.CandidateOptions {
	return feature.CandidateOptions{ExcludeLastColumn: c.ExcludeLastColumn}
}
