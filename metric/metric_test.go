package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuracy(t *testing.T) {
	acc, err := Accuracy.Apply([]int{0, 1, 1}, []int{0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, 2.0/3.0, acc)

	acc, err = AccuracyOf([]int{4, 4}, []int{4, 4})
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
}

func TestAccuracyErrors(t *testing.T) {
	_, err := AccuracyOf([]int{0, 1}, []int{0, 1, 0})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = AccuracyOf(nil, nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestParse(t *testing.T) {
	m, err := Parse(" Accuracy")
	require.NoError(t, err)
	assert.Equal(t, Accuracy, m)

	_, err = Parse("f1")
	assert.ErrorIs(t, err, ErrUnsupportedMetric)

	_, err = Metric("roc_auc").Apply([]int{1}, []int{1})
	assert.ErrorIs(t, err, ErrUnsupportedMetric)
}
