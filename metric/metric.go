/*
Package metric provides the metrics available to score the
predictions of a classifier against the expected labels.
*/
package metric

import (
	"fmt"
	"strings"
)

// Error represents an error computing a metric
type Error string

const (
	// ErrUnsupportedMetric is returned for unknown metric names.
	ErrUnsupportedMetric = Error("unsupported metric")
	// ErrLengthMismatch is returned when predictions and targets do
	// not have the same non-zero length.
	ErrLengthMismatch = Error("predictions and targets lengths do not match")
)

func (e Error) Error() string {
	return string(e)
}

// Metric names a way of comparing predictions with targets.
type Metric string

// Accuracy is the fraction of predictions equal to their target.
const Accuracy Metric = "accuracy"

// Metrics returns every supported metric.
func Metrics() []Metric {
	return []Metric{Accuracy}
}

// Parse takes the name of a metric and returns it, or an error
// if it is not supported.
func Parse(name string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(name)))
	switch m {
	case Accuracy:
		return m, nil
	}
	return "", fmt.Errorf("metric %q: %w", name, ErrUnsupportedMetric)
}

// Apply computes the metric for the given predictions and targets.
func (m Metric) Apply(predictions, targets []int) (float64, error) {
	switch m {
	case Accuracy:
		return AccuracyOf(predictions, targets)
	}
	return 0, fmt.Errorf("metric %q: %w", string(m), ErrUnsupportedMetric)
}

func (m Metric) String() string {
	return string(m)
}

/*
AccuracyOf returns the fraction of predictions that are equal to the
target at the same position. An error is returned if both slices do
not have the same length or are empty.
*/
func AccuracyOf(predictions, targets []int) (float64, error) {
	if len(predictions) != len(targets) {
		return 0, fmt.Errorf("%d predictions for %d targets: %w", len(predictions), len(targets), ErrLengthMismatch)
	}
	if len(targets) == 0 {
		return 0, fmt.Errorf("no predictions: %w", ErrLengthMismatch)
	}
	var hits int
	for i, p := range predictions {
		if p == targets[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(targets)), nil
}
