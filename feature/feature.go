/*
Package feature generates the candidate splits a tree considers
when growing its nodes out of a matrix of numeric feature values.
*/
package feature

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Error represents an error on feature values
type Error string

const (
	// ErrUnorderableValue is returned when a column holds a value that
	// cannot be sorted, such as NaN.
	ErrUnorderableValue = Error("unorderable feature value")
	// ErrRaggedRows is returned when rows have different lengths.
	ErrRaggedRows = Error("rows have different number of columns")
)

func (e Error) Error() string {
	return string(e)
}

/*
CandidateOptions tune which columns take part in candidate
generation.

ExcludeLastColumn skips the last column of the matrix, for data
where the label was loaded as the final feature column.
*/
type CandidateOptions struct {
	ExcludeLastColumn bool
}

/*
Candidates takes a matrix of feature values and CandidateOptions and
returns a candidate for every distinct value on every eligible
column. Candidates are grouped by column in ascending order and
sorted by ascending threshold within a column.
An error is returned if rows do not have the same length or if any
value is NaN.
*/
func Candidates(rows [][]float64, opts CandidateOptions) ([]Candidate, error) {
	return CandidatesFor(rows, nil, opts)
}

/*
CandidatesFor works like Candidates but only takes values from the
rows at the positions in filter. A nil filter takes all rows.
*/
func CandidatesFor(rows [][]float64, filter []int, opts CandidateOptions) ([]Candidate, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	numColumns := len(rows[0])
	for i, row := range rows {
		if len(row) != numColumns {
			return nil, fmt.Errorf("row %d has %d values, expected %d: %w", i, len(row), numColumns, ErrRaggedRows)
		}
		if floats.HasNaN(row) {
			return nil, fmt.Errorf("row %d: %w", i, ErrUnorderableValue)
		}
	}
	eligible := numColumns
	if opts.ExcludeLastColumn {
		eligible--
	}
	var candidates []Candidate
	for col := 0; col < eligible; col++ {
		for _, v := range distinctValues(rows, filter, col) {
			candidates = append(candidates, Candidate{Column: col, Threshold: v})
		}
	}
	return candidates, nil
}

func distinctValues(rows [][]float64, filter []int, col int) []float64 {
	var values []float64
	if filter == nil {
		values = make([]float64, 0, len(rows))
		for _, row := range rows {
			values = append(values, row[col])
		}
	} else {
		values = make([]float64, 0, len(filter))
		for _, i := range filter {
			values = append(values, rows[i][col])
		}
	}
	sort.Float64s(values)
	distinct := values[:0]
	for i, v := range values {
		if i == 0 || v != distinct[len(distinct)-1] {
			distinct = append(distinct, v)
		}
	}
	return distinct
}
