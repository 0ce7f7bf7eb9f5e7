package cart

import (
	"context"
	"testing"

	"github.com/pbanos/cart/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGini(t *testing.T) {
	testCases := []struct {
		name     string
		labels   []int
		expected float64
	}{
		{"empty", nil, 1.0},
		{"pure", []int{3, 3, 3}, 0.0},
		{"even", []int{0, 1}, 0.5},
		{"three classes", []int{0, 1, 2}, 1.0 - 3.0*(1.0/9.0)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, Gini(tc.labels), 1e-12)
		})
	}
	assert.Equal(t, 1.0, Gini([]int{}))
	assert.Equal(t, 0.0, Gini([]int{7}))
}

func TestWeightedImpurity(t *testing.T) {
	assert.InDelta(t, 0.0, WeightedImpurity([]int{1}, []int{0, 0}, GiniLoss), 1e-12)
	assert.InDelta(t, 2.0/3.0*0.5, WeightedImpurity([]int{0, 1}, []int{0}, GiniLoss), 1e-12)
	// an empty branch weighs nothing
	assert.InDelta(t, 4.0/9.0, WeightedImpurity(nil, []int{0, 0, 1}, GiniLoss), 1e-12)
	assert.Equal(t, 1.0, WeightedImpurity(nil, nil, GiniLoss))
}

func TestImpurityPanicsOnUnsupportedLoss(t *testing.T) {
	assert.Equal(t, Gini([]int{0, 1}), GiniLoss.Impurity([]int{0, 1}))
	assert.Panics(t, func() { LossFunction("entropy").Impurity([]int{0, 1}) })
}

func TestMajorityClassTieBreak(t *testing.T) {
	assert.Equal(t, 2, MajorityClass([]int{5, 2}, []int{2, 5, 9}))
	assert.Equal(t, 5, MajorityClass([]int{5, 5, 2}))
	assert.Equal(t, -1, MajorityClass([]int{3, -1}))
	assert.Equal(t, 0, MajorityClass())
}

func TestEvaluate(t *testing.T) {
	rows := [][]float64{{1, 5}, {2, 5}, {3, 5}}
	targets := []int{0, 0, 1}
	es := Evaluate(feature.Candidate{Column: 0, Threshold: 2}, rows, targets, nil, GiniLoss)
	assert.Equal(t, 0.0, es.Impurity)
	assert.Equal(t, []int{2}, es.TrueRows)
	assert.Equal(t, []int{0, 1}, es.FalseRows)
	assert.Equal(t, 0, es.MajorityClass)
	assert.False(t, es.Degenerate())

	es = Evaluate(feature.Candidate{Column: 0, Threshold: 2}, rows, targets, []int{0, 1}, GiniLoss)
	assert.Empty(t, es.TrueRows)
	assert.True(t, es.Degenerate())
}

func TestPickBest(t *testing.T) {
	ctx := context.Background()
	rows := [][]float64{{1, 5}, {2, 5}, {3, 5}}
	targets := []int{0, 0, 1}
	candidates, err := feature.Candidates(rows, feature.CandidateOptions{ExcludeLastColumn: true})
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	best, err := PickBest(ctx, candidates, rows, targets, nil, GiniLoss, 1)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, feature.Candidate{Column: 0, Threshold: 2}, best.Candidate)
	assert.Equal(t, 0.0, best.Impurity)

	best, err = PickBest(ctx, nil, rows, targets, nil, GiniLoss, 1)
	require.NoError(t, err)
	assert.Nil(t, best)
}

func TestPickBestFirstCandidateWinsTies(t *testing.T) {
	rows := [][]float64{{1, 1}, {2, 2}}
	targets := []int{0, 1}
	candidates := []feature.Candidate{{Column: 1, Threshold: 1}, {Column: 0, Threshold: 1}}
	best, err := PickBest(context.Background(), candidates, rows, targets, nil, GiniLoss, 1)
	require.NoError(t, err)
	assert.Equal(t, candidates[0], best.Candidate)
}

func TestPickBestConcurrencyDoesNotChangeResult(t *testing.T) {
	ctx := context.Background()
	var rows [][]float64
	var targets []int
	for i := 0; i < 200; i++ {
		rows = append(rows, []float64{float64(i % 97), float64(i % 13), float64(i % 7)})
		targets = append(targets, (i%97+i%7)%3)
	}
	candidates, err := feature.Candidates(rows, feature.CandidateOptions{})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(candidates), minParallelCandidates)
	sequential, err := PickBest(ctx, candidates, rows, targets, nil, GiniLoss, 1)
	require.NoError(t, err)
	parallel, err := PickBest(ctx, candidates, rows, targets, nil, GiniLoss, 8)
	require.NoError(t, err)
	assert.Equal(t, sequential, parallel)
}

func TestStoppers(t *testing.T) {
	assert.True(t, PureStopper().Stop(0, []int{1, 1}))
	assert.True(t, PureStopper().Stop(0, nil))
	assert.False(t, PureStopper().Stop(0, []int{1, 0}))
	assert.True(t, MaxDepthStopper(2).Stop(2, []int{1, 0}))
	assert.False(t, MaxDepthStopper(0).Stop(50, []int{1, 0}))
	assert.True(t, MinSamplesStopper(3).Stop(0, []int{1, 0}))
	assert.False(t, MinSamplesStopper(0).Stop(0, []int{1}))
	assert.True(t, AnyStopper(MaxDepthStopper(0), MinSamplesStopper(5)).Stop(1, []int{0, 1}))
}
