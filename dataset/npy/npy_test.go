package npy

import (
	"bytes"
	"testing"

	"github.com/pbanos/cart/dataset"
	"github.com/sbinet/npyio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFeaturesRoundTrip(t *testing.T) {
	d := &dataset.Dataset{Columns: []string{"a", "b"}, Rows: [][]float64{{1, 2}, {3, 4}, {5, 6}}}
	buf := &bytes.Buffer{}
	require.NoError(t, WriteFeatures(buf, d))
	m, err := ReadFeatures(buf)
	require.NoError(t, err)
	assert.True(t, mat.Equal(d.Dense(), m))
}

func TestReadTargets(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WritePredictions(buf, []int{2, 0, 1}))
	targets, err := ReadTargets(buf)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, targets)

	buf.Reset()
	require.NoError(t, npyio.Write(buf, []float64{1, 0, 3}))
	targets, err = ReadTargets(buf)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 3}, targets)

	buf.Reset()
	require.NoError(t, npyio.Write(buf, []float64{1, 0.5}))
	_, err = ReadTargets(buf)
	assert.Error(t, err)
}
