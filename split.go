package cart

import (
	"context"
	"fmt"

	"github.com/pbanos/cart/feature"
	"golang.org/x/sync/errgroup"
)

// minParallelCandidates is the number of candidates below which
// scoring is not worth spreading over goroutines.
const minParallelCandidates = 64

/*
EvaluatedSplit is a candidate split scored against a set of rows:
the weighted impurity of the split, the positions of the rows on
each branch and the majority class of all of them.
*/
type EvaluatedSplit struct {
	feature.Candidate
	Impurity      float64
	TrueRows      []int
	FalseRows     []int
	MajorityClass int
}

// Degenerate returns whether the split leaves a branch without rows.
func (es *EvaluatedSplit) Degenerate() bool {
	return len(es.TrueRows) == 0 || len(es.FalseRows) == 0
}

func (es *EvaluatedSplit) String() string {
	return fmt.Sprintf("{%v impurity=%.4f true=%d false=%d class=%d}", es.Candidate, es.Impurity, len(es.TrueRows), len(es.FalseRows), es.MajorityClass)
}

/*
Gini takes a set of labels and returns its Gini impurity, that is
1 minus the sum of the squared frequencies of each label. The
impurity of an empty set is 1.0.
*/
func Gini(labels []int) float64 {
	if len(labels) == 0 {
		return 1.0
	}
	counts := make(map[int]int)
	for _, l := range labels {
		counts[l]++
	}
	total := float64(len(labels))
	result := 1.0
	for _, c := range counts {
		p := float64(c) / total
		result -= p * p
	}
	return result
}

// Impurity returns the impurity of the labels according to the
// loss function. It panics for loss functions that Config.Validate
// rejects.
func (lf LossFunction) Impurity(labels []int) float64 {
	switch lf {
	case GiniLoss:
		return Gini(labels)
	default:
		panic(fmt.Sprintf("impurity of loss function %q: %v", string(lf), ErrUnsupportedVariant))
	}
}

/*
WeightedImpurity takes the labels on each branch of a split and a
loss function and returns the impurity of each branch weighted by
the fraction of labels it holds.
*/
func WeightedImpurity(trueLabels, falseLabels []int, loss LossFunction) float64 {
	total := float64(len(trueLabels) + len(falseLabels))
	if total == 0 {
		return 1.0
	}
	wTrue := float64(len(trueLabels)) / total
	wFalse := float64(len(falseLabels)) / total
	return wTrue*loss.Impurity(trueLabels) + wFalse*loss.Impurity(falseLabels)
}

/*
MajorityClass takes sets of labels and returns the label with the
highest count among all of them. Ties are broken in favour of the
smallest label. It returns 0 when no labels are given.
*/
func MajorityClass(labelSets ...[]int) int {
	counts := make(map[int]int)
	for _, labels := range labelSets {
		for _, l := range labels {
			counts[l]++
		}
	}
	var class, max int
	first := true
	for l, c := range counts {
		if first || c > max || (c == max && l < class) {
			class, max, first = l, c, false
		}
	}
	return class
}

/*
Evaluate takes a candidate split, the training matrix and its
targets, the positions of the rows to consider (nil for all) and a
loss function, and returns the candidate scored against those rows.
*/
func Evaluate(c feature.Candidate, rows [][]float64, targets []int, filter []int, loss LossFunction) *EvaluatedSplit {
	trueRows, falseRows := c.Partition(rows, filter)
	trueLabels := labelsAt(targets, trueRows)
	falseLabels := labelsAt(targets, falseRows)
	return &EvaluatedSplit{
		Candidate:     c,
		Impurity:      WeightedImpurity(trueLabels, falseLabels, loss),
		TrueRows:      trueRows,
		FalseRows:     falseRows,
		MajorityClass: MajorityClass(trueLabels, falseLabels),
	}
}

/*
PickBest takes a context, the candidate splits, the training matrix
and its targets, the positions of the rows to consider (nil for all),
a loss function and a concurrency limit, and returns the candidate
with the lowest weighted impurity on the rows. Only impurities
strictly below 1.0 are considered and the first candidate wins on
ties, so nil is returned if no candidate improves on 1.0.

Candidates are scored on up to concurrency goroutines; the winner
is then chosen following the order of the candidates, so the result
does not depend on the concurrency.
*/
func PickBest(ctx context.Context, candidates []feature.Candidate, rows [][]float64, targets []int, filter []int, loss LossFunction, concurrency int) (*EvaluatedSplit, error) {
	impurities, err := scoreCandidates(ctx, candidates, rows, targets, filter, loss, concurrency)
	if err != nil {
		return nil, err
	}
	best := -1
	lowest := 1.0
	for i, imp := range impurities {
		if imp < lowest {
			best, lowest = i, imp
		}
	}
	if best < 0 {
		return nil, nil
	}
	return Evaluate(candidates[best], rows, targets, filter, loss), nil
}

func scoreCandidates(ctx context.Context, candidates []feature.Candidate, rows [][]float64, targets []int, filter []int, loss LossFunction, concurrency int) ([]float64, error) {
	impurities := make([]float64, len(candidates))
	if concurrency <= 1 || len(candidates) < minParallelCandidates {
		for i, c := range candidates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			impurities[i] = score(c, rows, targets, filter, loss)
		}
		return impurities, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	chunk := (len(candidates) + concurrency - 1) / concurrency
	for start := 0; start < len(candidates); start += chunk {
		start, end := start, start+chunk
		if end > len(candidates) {
			end = len(candidates)
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				impurities[i] = score(candidates[i], rows, targets, filter, loss)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return impurities, nil
}

func score(c feature.Candidate, rows [][]float64, targets []int, filter []int, loss LossFunction) float64 {
	trueRows, falseRows := c.Partition(rows, filter)
	return WeightedImpurity(labelsAt(targets, trueRows), labelsAt(targets, falseRows), loss)
}

func labelsAt(targets []int, positions []int) []int {
	labels := make([]int, 0, len(positions))
	for _, i := range positions {
		labels = append(labels, targets[i])
	}
	return labels
}

// subset returns the positions in filter, or all positions up to n
// when filter is nil.
func subset(filter []int, n int) []int {
	if filter != nil {
		return filter
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	return all
}
