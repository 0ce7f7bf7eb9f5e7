/*
Package npy reads datasets from NumPy .npy files and writes
predictions to them.

Feature values are read from a two dimensional array of float64
values with a row per sample. Labels are read from a separate file
holding a one dimensional array (or a single column matrix) of
integers or integral floats.
*/
package npy

import (
	"fmt"
	"io"
	"os"

	"github.com/pbanos/cart/dataset"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

/*
ReadFeatures takes an io.Reader on a .npy stream and returns the
matrix of feature values in it, or an error.
*/
func ReadFeatures(r io.Reader) (*mat.Dense, error) {
	nr, err := npyio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading npy header: %v", err)
	}
	if len(nr.Header.Descr.Shape) != 2 {
		return nil, fmt.Errorf("features array has shape %v, expected 2 dimensions", nr.Header.Descr.Shape)
	}
	m := &mat.Dense{}
	err = nr.Read(m)
	if err != nil {
		return nil, fmt.Errorf("reading npy features: %v", err)
	}
	return m, nil
}

/*
ReadTargets takes an io.Reader on a .npy stream and returns the
labels in it, or an error if the array is not a vector of integers.
*/
func ReadTargets(r io.Reader) ([]int, error) {
	nr, err := npyio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading npy header: %v", err)
	}
	shape := nr.Header.Descr.Shape
	if len(shape) != 1 && !(len(shape) == 2 && shape[1] == 1) {
		return nil, fmt.Errorf("targets array has shape %v, expected a vector", shape)
	}
	var targets []int
	switch nr.Header.Descr.Type {
	case "<i8":
		var values []int64
		if err = nr.Read(&values); err != nil {
			return nil, fmt.Errorf("reading npy targets: %v", err)
		}
		for _, v := range values {
			targets = append(targets, int(v))
		}
	case "<i4":
		var values []int32
		if err = nr.Read(&values); err != nil {
			return nil, fmt.Errorf("reading npy targets: %v", err)
		}
		for _, v := range values {
			targets = append(targets, int(v))
		}
	case "<f8":
		var values []float64
		if err = nr.Read(&values); err != nil {
			return nil, fmt.Errorf("reading npy targets: %v", err)
		}
		for i, v := range values {
			l, err := dataset.LabelOf(v)
			if err != nil {
				return nil, fmt.Errorf("target %d: %v", i, err)
			}
			targets = append(targets, l)
		}
	default:
		return nil, fmt.Errorf("unsupported targets dtype %s", nr.Header.Descr.Type)
	}
	return targets, nil
}

/*
ReadDataset takes the paths to a .npy file with feature values and
to another with labels (or "" for unlabeled data), the names of the
columns (nil for x0, x1...) and the name of the label, and returns
the dataset read from them.
*/
func ReadDataset(featuresPath, targetsPath string, columns []string, label string) (*dataset.Dataset, error) {
	f, err := os.Open(featuresPath)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %v", err)
	}
	defer f.Close()
	features, err := ReadFeatures(f)
	if err != nil {
		return nil, fmt.Errorf("parsing npy file %s: %v", featuresPath, err)
	}
	d, err := dataset.FromDense(columns, label, features, nil)
	if err != nil {
		return nil, err
	}
	if targetsPath == "" {
		return d, nil
	}
	tf, err := os.Open(targetsPath)
	if err != nil {
		return nil, fmt.Errorf("reading dataset targets: %v", err)
	}
	defer tf.Close()
	d.Targets, err = ReadTargets(tf)
	if err != nil {
		return nil, fmt.Errorf("parsing npy file %s: %v", targetsPath, err)
	}
	if len(d.Targets) != len(d.Rows) {
		return nil, fmt.Errorf("%d targets in %s for %d rows in %s", len(d.Targets), targetsPath, len(d.Rows), featuresPath)
	}
	return d, nil
}

// WriteFeatures writes the feature values of the dataset onto the
// writer as a two dimensional float64 array.
func WriteFeatures(w io.Writer, d *dataset.Dataset) error {
	m := d.Dense()
	if m == nil {
		return fmt.Errorf("cannot write an empty feature matrix")
	}
	return npyio.Write(w, m)
}

// WritePredictions writes the predictions onto the writer as a one
// dimensional int64 array.
func WritePredictions(w io.Writer, predictions []int) error {
	values := make([]int64, len(predictions))
	for i, p := range predictions {
		values[i] = int64(p)
	}
	return npyio.Write(w, values)
}
