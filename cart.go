/*
Package cart provides a binary decision tree classifier grown with
the CART algorithm over numeric features and integer class labels.

A Classifier is fitted on a matrix of feature values and the label
of each row, and then used to predict the labels of new rows:

	c, err := cart.New(cart.DefaultConfig())
	...
	err = c.Fit(ctx, rows, targets)
	...
	predictions, err := c.Predict(ctx, rows)
*/
package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pbanos/cart/feature"
	"github.com/pbanos/cart/metric"
	"github.com/pbanos/cart/queue"
	"github.com/pbanos/cart/tree"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

/*
Classifier is a binary decision tree classifier.

Fit may not be called concurrently with any other method of the
same Classifier; it holds the classifier's write lock while growing
its tree. Predict and Score may be called concurrently.
*/
type Classifier struct {
	cfg      Config
	logger   *zap.Logger
	newStore func() tree.NodeStore
	lock     sync.RWMutex
	tree     *tree.Tree
}

// Option configures a Classifier
type Option func(*Classifier)

// WithLogger makes the classifier log on the given logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNodeStoreFactory makes the classifier grow every tree on a
// node store returned by the given function, which must be empty.
func WithNodeStoreFactory(f func() tree.NodeStore) Option {
	return func(c *Classifier) {
		if f != nil {
			c.newStore = f
		}
	}
}

// New takes a Config and options and returns an untrained
// Classifier, or an error if the config is not valid. Unset
// fields of the config take their default values.
func New(cfg Config, opts ...Option) (*Classifier, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Classifier{
		cfg:      cfg,
		logger:   zap.NewNop(),
		newStore: tree.NewMemoryNodeStore,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Config returns the config of the classifier.
func (c *Classifier) Config() Config {
	return c.cfg
}

/*
Fit takes a context, a matrix of feature values and the label of each
row, and grows a new tree for the classifier on an empty node store.

An error wrapping ErrInvalidInput is returned, before anything is
grown, if the matrix is empty, its rows have different lengths or
hold NaN values, or there is not one label per row. An error wrapping
ErrInsufficientData is returned when a node has no split to grow.
After an error the classifier is left untrained.
*/
func (c *Classifier) Fit(ctx context.Context, rows [][]float64, targets []int) (err error) {
	ctx, span := tracer.Start(ctx, "cart.Fit",
		trace.WithAttributes(
			attribute.Int("rows", len(rows)),
			attribute.String("candidates", string(c.cfg.Candidates)),
		))
	defer span.End()
	start := time.Now()
	c.lock.Lock()
	defer c.lock.Unlock()
	defer func() {
		fitDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			c.tree = nil
			fitTotal.WithLabelValues("error").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return
		}
		fitTotal.WithLabelValues("ok").Inc()
		span.SetStatus(codes.Ok, "")
	}()
	if err = validateInput(rows, targets); err != nil {
		return err
	}
	var candidates []feature.Candidate
	if c.cfg.Candidates == GlobalCandidates {
		candidates, err = feature.Candidates(rows, c.cfg.candidateOptions())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	c.logger.Info("growing tree",
		zap.Int("rows", len(rows)),
		zap.Int("columns", len(rows[0])),
		zap.String("candidates", string(c.cfg.Candidates)),
		zap.Int("globalCandidates", len(candidates)))
	ns := c.newStore()
	t := tree.New(ns)
	g := &grower{
		cfg:        c.cfg,
		rows:       rows,
		targets:    targets,
		candidates: candidates,
		stopper:    c.cfg.stopper(),
		t:          t,
		logger:     c.logger,
	}
	q := queue.New()
	err = g.seed(ctx, q)
	if err == nil {
		err = g.work(ctx, q)
	}
	if err != nil {
		if cerr := ns.Close(ctx); cerr != nil {
			c.logger.Warn("closing node store of failed fit", zap.Error(cerr))
		}
		c.logger.Info("growing tree failed", zap.Error(err))
		return err
	}
	nodes, err := ns.Len(ctx)
	if err != nil {
		if cerr := ns.Close(ctx); cerr != nil {
			c.logger.Warn("closing node store of failed fit", zap.Error(cerr))
		}
		return fmt.Errorf("counting grown nodes: %w", err)
	}
	span.SetAttributes(attribute.Int("nodes", nodes))
	c.logger.Info("grown tree", zap.Int("nodes", nodes), zap.Duration("took", time.Since(start)))
	c.tree = t
	return nil
}

/*
Predict takes a context and a matrix of feature values and returns
the class predicted for each row, in the same order as the rows.
It returns an error wrapping ErrNotFitted if the classifier has no
tree.
*/
func (c *Classifier) Predict(ctx context.Context, rows [][]float64) ([]int, error) {
	ctx, span := tracer.Start(ctx, "cart.Predict", trace.WithAttributes(attribute.Int("rows", len(rows))))
	defer span.End()
	c.lock.RLock()
	defer c.lock.RUnlock()
	if c.tree == nil {
		span.SetStatus(codes.Error, ErrNotFitted.Error())
		return nil, ErrNotFitted
	}
	predictions, err := c.tree.ClassifyAll(ctx, rows, c.cfg.Concurrency)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("predicting: %w", err)
	}
	predictionsTotal.Add(float64(len(rows)))
	return predictions, nil
}

// PredictProba always returns ErrNotImplemented: class probabilities
// are not provided by the classifier.
func (c *Classifier) PredictProba(ctx context.Context, rows [][]float64) ([][2]float64, error) {
	return nil, fmt.Errorf("predicting class probabilities: %w", ErrNotImplemented)
}

/*
Score takes a context, a matrix of feature values, the expected
label of each row and a metric, predicts the rows and returns the
metric computed on the predictions and the expected labels.
An error wrapping ErrInvalidInput is returned if there is not one
label per row.
*/
func (c *Classifier) Score(ctx context.Context, rows [][]float64, targets []int, m metric.Metric) (float64, error) {
	ctx, span := tracer.Start(ctx, "cart.Score", trace.WithAttributes(attribute.String("metric", m.String())))
	defer span.End()
	if len(rows) != len(targets) {
		err := fmt.Errorf("%w: %d rows for %d targets: %w", ErrInvalidInput, len(rows), len(targets), metric.ErrLengthMismatch)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	predictions, err := c.Predict(ctx, rows)
	if err != nil {
		return 0, err
	}
	result, err := m.Apply(predictions, targets)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	span.SetAttributes(attribute.Float64("score", result))
	return result, nil
}

// Tree returns the tree of the classifier, nil if it is not fitted.
func (c *Classifier) Tree() *tree.Tree {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.tree
}

// SetTree makes the classifier predict with the given tree, such
// as one grown elsewhere and loaded from a node store.
func (c *Classifier) SetTree(t *tree.Tree) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.tree = t
}

func validateInput(rows [][]float64, targets []int) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: empty feature matrix", ErrInvalidInput)
	}
	if len(rows) != len(targets) {
		return fmt.Errorf("%w: %d rows for %d targets", ErrInvalidInput, len(rows), len(targets))
	}
	numColumns := len(rows[0])
	if numColumns == 0 {
		return fmt.Errorf("%w: rows have no columns", ErrInvalidInput)
	}
	for i, row := range rows {
		if len(row) != numColumns {
			return fmt.Errorf("%w: row %d has %d values, expected %d: %w", ErrInvalidInput, i, len(row), numColumns, feature.ErrRaggedRows)
		}
		if floats.HasNaN(row) {
			return fmt.Errorf("%w: row %d: %w", ErrInvalidInput, i, feature.ErrUnorderableValue)
		}
	}
	return nil
}
