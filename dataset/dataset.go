/*
Package dataset defines the in-memory representation of the data
trees are grown from and tested against: a matrix of numeric feature
values and, when known, the integer label of each row.

Its subpackages read and write datasets from and to CSV files, NumPy
files, SQL databases and MongoDB collections.
*/
package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

/*
Dataset holds the names of the feature columns, the name of the
label, a row of feature values per sample and the label of each
sample. Targets is nil for unlabeled data.
*/
type Dataset struct {
	Columns []string
	Label   string
	Rows    [][]float64
	Targets []int
}

// Len returns the number of rows in the dataset
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Labeled returns whether the dataset holds a label for each row
func (d *Dataset) Labeled() bool {
	return d.Targets != nil
}

/*
Validate returns an error if rows do not have one value per column
or hold NaN values, or if the dataset is labeled and there is not
one target per row.
*/
func (d *Dataset) Validate() error {
	for i, row := range d.Rows {
		if len(row) != len(d.Columns) {
			return fmt.Errorf("row %d has %d values for %d columns", i, len(row), len(d.Columns))
		}
		if floats.HasNaN(row) {
			return fmt.Errorf("row %d has NaN values", i)
		}
	}
	if d.Labeled() && len(d.Targets) != len(d.Rows) {
		return fmt.Errorf("%d targets for %d rows", len(d.Targets), len(d.Rows))
	}
	return nil
}

// LabelOf converts a float64 value read from storage into a label. It
// returns an error if the value is not an integer that fits an int.
func LabelOf(v float64) (int, error) {
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%v is not an integer", v)
	}
	if v < float64(math.MinInt) || v >= -float64(math.MinInt) {
		return 0, fmt.Errorf("%v is out of the range of labels", v)
	}
	return int(v), nil
}

/*
FromDense takes the names of the columns, the name of the label, a
matrix of feature values and a matrix with a single column of
labels (or nil for unlabeled data) and returns a Dataset. An error
is returned if the dimensions do not match or a label is not an
integer.
*/
func FromDense(columns []string, label string, features, targets *mat.Dense) (*Dataset, error) {
	r, c := features.Dims()
	if columns == nil {
		columns = DefaultColumns(c)
	}
	if len(columns) != c {
		return nil, fmt.Errorf("%d column names for %d columns", len(columns), c)
	}
	d := &Dataset{Columns: columns, Label: label, Rows: make([][]float64, r)}
	for i := range d.Rows {
		d.Rows[i] = mat.Row(nil, i, features)
	}
	if targets == nil {
		return d, nil
	}
	tr, tc := targets.Dims()
	if tc != 1 || tr != r {
		return nil, fmt.Errorf("targets matrix is %dx%d, expected %dx1", tr, tc, r)
	}
	d.Targets = make([]int, r)
	for i := range d.Targets {
		l, err := LabelOf(targets.At(i, 0))
		if err != nil {
			return nil, fmt.Errorf("target %d: %v", i, err)
		}
		d.Targets[i] = l
	}
	return d, nil
}

// Dense returns the feature values of the dataset as a matrix.
func (d *Dataset) Dense() *mat.Dense {
	if len(d.Rows) == 0 || len(d.Columns) == 0 {
		return nil
	}
	m := mat.NewDense(len(d.Rows), len(d.Columns), nil)
	for i, row := range d.Rows {
		m.SetRow(i, row)
	}
	return m
}

// DefaultColumns returns column names x0, x1... for n columns.
func DefaultColumns(n int) []string {
	columns := make([]string, n)
	for i := range columns {
		columns[i] = fmt.Sprintf("x%d", i)
	}
	return columns
}

/*
Split takes a ratio between 0 and 1 and a seed and shuffles the rows
of the dataset with the seed to return two datasets with the same
columns: the first one with the given ratio of rows and the second
with the rest.
*/
func (d *Dataset) Split(ratio float64, seed int64) (*Dataset, *Dataset, error) {
	if ratio < 0 || ratio > 1 {
		return nil, nil, fmt.Errorf("split ratio %v is not between 0 and 1", ratio)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(len(d.Rows))
	n := int(math.Round(ratio * float64(len(d.Rows))))
	return d.subset(perm[:n]), d.subset(perm[n:]), nil
}

func (d *Dataset) subset(positions []int) *Dataset {
	s := &Dataset{Columns: d.Columns, Label: d.Label, Rows: make([][]float64, 0, len(positions))}
	if d.Labeled() {
		s.Targets = make([]int, 0, len(positions))
	}
	for _, i := range positions {
		s.Rows = append(s.Rows, d.Rows[i])
		if d.Labeled() {
			s.Targets = append(s.Targets, d.Targets[i])
		}
	}
	return s
}
