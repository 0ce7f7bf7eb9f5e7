package tree

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrRowTooShort is the error returned when a row does not have a value
for the column a node on its path splits on.
*/
const ErrRowTooShort = PredictionError("row has no value for the split column")

/*
ErrEmptyTree is the error returned when classifying with a tree whose
store holds no root node.
*/
const ErrEmptyTree = PredictionError("tree has no root node")

func (pe PredictionError) Error() string {
	return string(pe)
}

/*
Classify takes a context and a row of feature values and returns the
class predicted for it. Starting at the root, it follows the true
child of a node when row[column] > threshold and the false child
otherwise. When the slot to follow is empty, which is always the case
on leaves, the majority class of the current node is returned.
*/
func (t *Tree) Classify(ctx context.Context, row []float64) (int, error) {
	if t == nil {
		return 0, fmt.Errorf("nil tree cannot classify rows")
	}
	l, err := t.Len(ctx)
	if err != nil {
		return 0, fmt.Errorf("classifying row: %w", err)
	}
	if l == 0 {
		return 0, ErrEmptyTree
	}
	n, err := t.Get(ctx, RootID)
	if err != nil {
		return 0, fmt.Errorf("classifying row: %w", err)
	}
	for {
		if n.IsLeaf() {
			return n.Data.MajorityClass, nil
		}
		if n.Data.Column < 0 || n.Data.Column >= len(row) {
			return 0, fmt.Errorf("classifying row of %d values at node %d (column %d): %w", len(row), n.ID, n.Data.Column, ErrRowTooShort)
		}
		next := n.FalseChild
		if row[n.Data.Column] > n.Data.Threshold {
			next = n.TrueChild
		}
		if next == nil {
			return n.Data.MajorityClass, nil
		}
		n, err = t.Get(ctx, *next)
		if err != nil {
			return 0, fmt.Errorf("classifying row: %w", err)
		}
	}
}

/*
ClassifyAll takes a context, a slice of rows and a concurrency limit
and classifies every row, running up to concurrency classifications
at a time (no limit if concurrency is below 1). The returned slice
holds the class of each row at the row's position. The first error
found aborts the remaining classifications and is returned.
*/
func (t *Tree) ClassifyAll(ctx context.Context, rows [][]float64, concurrency int) ([]int, error) {
	result := make([]int, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			c, err := t.Classify(gctx, row)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			result[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
