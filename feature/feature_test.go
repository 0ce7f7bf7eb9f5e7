package feature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidatesOrdering(t *testing.T) {
	rows := [][]float64{
		{3, 1, 9},
		{1, 1, 8},
		{2, 0, 8},
		{3, 2, 7},
	}
	candidates, err := Candidates(rows, CandidateOptions{})
	require.NoError(t, err)
	expected := []Candidate{
		{0, 1}, {0, 2}, {0, 3},
		{1, 0}, {1, 1}, {1, 2},
		{2, 7}, {2, 8}, {2, 9},
	}
	assert.Equal(t, expected, candidates)
}

func TestCandidatesCountDistinctValues(t *testing.T) {
	// column 0 has 2 distinct values, column 1 has 4, column 2 has 1
	rows := [][]float64{
		{0, 1, 5},
		{0, 2, 5},
		{1, 3, 5},
		{1, 4, 5},
		{1, 4, 5},
	}
	testCases := []struct {
		name     string
		opts     CandidateOptions
		expected int
	}{
		{"all columns", CandidateOptions{}, 7},
		{"excluding last column", CandidateOptions{ExcludeLastColumn: true}, 6},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			candidates, err := Candidates(rows, tc.opts)
			require.NoError(t, err)
			assert.Len(t, candidates, tc.expected)
		})
	}
}

func TestCandidatesExcludeLastColumn(t *testing.T) {
	rows := [][]float64{{1, 5}, {2, 5}, {3, 5}}
	candidates, err := Candidates(rows, CandidateOptions{ExcludeLastColumn: true})
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{0, 1}, {0, 2}, {0, 3}}, candidates)
}

func TestCandidatesFor(t *testing.T) {
	rows := [][]float64{{1}, {2}, {3}, {2}}
	candidates, err := CandidatesFor(rows, []int{1, 3, 2}, CandidateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{0, 2}, {0, 3}}, candidates)
}

func TestCandidatesErrors(t *testing.T) {
	_, err := Candidates([][]float64{{1, 2}, {math.NaN(), 1}}, CandidateOptions{})
	assert.ErrorIs(t, err, ErrUnorderableValue)

	_, err = Candidates([][]float64{{1, 2}, {1}}, CandidateOptions{})
	assert.ErrorIs(t, err, ErrRaggedRows)

	candidates, err := Candidates(nil, CandidateOptions{})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestPartition(t *testing.T) {
	rows := [][]float64{{1}, {2}, {3}, {4}}
	c := Candidate{Column: 0, Threshold: 2}
	trueRows, falseRows := c.Partition(rows, nil)
	assert.Equal(t, []int{2, 3}, trueRows)
	assert.Equal(t, []int{0, 1}, falseRows)

	trueRows, falseRows = c.Partition(rows, []int{0, 3})
	assert.Equal(t, []int{3}, trueRows)
	assert.Equal(t, []int{0}, falseRows)
	assert.Equal(t, "x[0] > 2", c.String())
}
