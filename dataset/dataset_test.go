package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFromDense(t *testing.T) {
	features := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	targets := mat.NewDense(3, 1, []float64{0, 1, 1})
	d, err := FromDense(nil, "y", features, targets)
	require.NoError(t, err)
	assert.Equal(t, []string{"x0", "x1"}, d.Columns)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}, d.Rows)
	assert.Equal(t, []int{0, 1, 1}, d.Targets)
	require.NoError(t, d.Validate())
	assert.True(t, mat.Equal(features, d.Dense()))

	_, err = FromDense(nil, "y", features, mat.NewDense(3, 1, []float64{0, 0.5, 1}))
	assert.Error(t, err)
	_, err = FromDense(nil, "y", features, mat.NewDense(2, 1, nil))
	assert.Error(t, err)
	_, err = FromDense([]string{"a"}, "y", features, nil)
	assert.Error(t, err)

	d, err = FromDense(nil, "", features, nil)
	require.NoError(t, err)
	assert.False(t, d.Labeled())
}

func TestSplit(t *testing.T) {
	d := &Dataset{Columns: []string{"a"}, Label: "y"}
	for i := 0; i < 10; i++ {
		d.Rows = append(d.Rows, []float64{float64(i)})
		d.Targets = append(d.Targets, i)
	}
	train, test, err := d.Split(0.7, 42)
	require.NoError(t, err)
	assert.Equal(t, 7, train.Len())
	assert.Equal(t, 3, test.Len())
	seen := make(map[int]bool)
	for _, s := range []*Dataset{train, test} {
		for i, row := range s.Rows {
			assert.Equal(t, float64(s.Targets[i]), row[0])
			seen[s.Targets[i]] = true
		}
	}
	assert.Len(t, seen, 10)

	_, _, err = d.Split(1.5, 1)
	assert.Error(t, err)
}

func TestLabelOf(t *testing.T) {
	l, err := LabelOf(-3)
	require.NoError(t, err)
	assert.Equal(t, -3, l)

	for _, v := range []float64{0.5, math.Inf(1), math.Inf(-1), math.NaN(), 1e19, -1e19, math.Ldexp(1, 63)} {
		_, err = LabelOf(v)
		assert.Error(t, err, "%v", v)
	}

	_, err = FromDense(nil, "y", mat.NewDense(1, 1, []float64{1}), mat.NewDense(1, 1, []float64{1e300}))
	assert.Error(t, err)
}
