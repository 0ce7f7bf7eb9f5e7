package cart

// Error represents an error returned by a Classifier
type Error string

const (
	// ErrInsufficientData is returned by Fit when no candidate split
	// achieves an impurity below the worst possible one.
	ErrInsufficientData = Error("no viable split")
	// ErrInvalidInput is returned when the feature matrix or the
	// targets cannot be used for training or scoring.
	ErrInvalidInput = Error("invalid input")
	// ErrNotImplemented is returned by operations the classifier
	// does not provide.
	ErrNotImplemented = Error("not implemented")
	// ErrNotFitted is returned when predicting or scoring with a
	// classifier that has not been successfully fitted.
	ErrNotFitted = Error("classifier is not fitted")
	// ErrUnsupportedVariant is returned for unknown loss functions
	// or candidate strategies.
	ErrUnsupportedVariant = Error("unsupported variant")
)

func (e Error) Error() string {
	return string(e)
}
