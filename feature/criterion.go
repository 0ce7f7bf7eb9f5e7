package feature

import "fmt"

/*
Candidate represents a possible binary split rule on a column:
rows whose value on Column is greater than Threshold go to the
true branch and all other rows to the false branch.
*/
type Candidate struct {
	Column    int
	Threshold float64
}

// SatisfiedBy returns whether the row goes to the true branch of
// the candidate.
func (c Candidate) SatisfiedBy(row []float64) bool {
	return row[c.Column] > c.Threshold
}

/*
Partition takes the rows of a matrix and the positions of the rows
to consider (nil for all) and returns the positions of those that
satisfy the candidate and the positions of those that do not, both
keeping the order of the filter.
*/
func (c Candidate) Partition(rows [][]float64, filter []int) ([]int, []int) {
	var trueRows, falseRows []int
	add := func(i int) {
		if c.SatisfiedBy(rows[i]) {
			trueRows = append(trueRows, i)
		} else {
			falseRows = append(falseRows, i)
		}
	}
	if filter == nil {
		for i := range rows {
			add(i)
		}
	} else {
		for _, i := range filter {
			add(i)
		}
	}
	return trueRows, falseRows
}

func (c Candidate) String() string {
	return fmt.Sprintf("x[%d] > %g", c.Column, c.Threshold)
}
