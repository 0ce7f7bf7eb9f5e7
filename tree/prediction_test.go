package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	ctx := context.Background()
	tr := buildTree(t)
	testCases := []struct {
		row      []float64
		expected int
	}{
		{[]float64{3, 11}, 2},
		// missing false child of node 1 falls back to its class
		{[]float64{3, 10}, 1},
		{[]float64{2, 100}, 3},
		{[]float64{-1}, 3},
	}
	for _, tc := range testCases {
		class, err := tr.Classify(ctx, tc.row)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, class, "row %v", tc.row)
	}

	_, err := tr.Classify(ctx, []float64{3})
	assert.ErrorIs(t, err, ErrRowTooShort)
}

func TestClassifyEmptyTree(t *testing.T) {
	_, err := New(NewMemoryNodeStore()).Classify(context.Background(), []float64{1})
	assert.ErrorIs(t, err, ErrEmptyTree)
}

func TestClassifyAllKeepsRowOrder(t *testing.T) {
	ctx := context.Background()
	tr := buildTree(t)
	var rows [][]float64
	var expected []int
	for i := 0; i < 100; i++ {
		switch i % 3 {
		case 0:
			rows = append(rows, []float64{3, 11})
			expected = append(expected, 2)
		case 1:
			rows = append(rows, []float64{3, 0})
			expected = append(expected, 1)
		default:
			rows = append(rows, []float64{0, 0})
			expected = append(expected, 3)
		}
	}
	for _, concurrency := range []int{0, 1, 7} {
		classes, err := tr.ClassifyAll(ctx, rows, concurrency)
		require.NoError(t, err)
		assert.Equal(t, expected, classes)
	}

	_, err := tr.ClassifyAll(ctx, append(rows, []float64{5}), 4)
	assert.ErrorIs(t, err, ErrRowTooShort)
}
