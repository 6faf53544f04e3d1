package render

import "errors"

var (
	// ErrInvalidConfiguration indicates a render config with impossible
	// values (non-positive dimensions, zero frame rate, inverted size
	// budgets). Never retryable.
	ErrInvalidConfiguration = errors.New("invalid render configuration")

	// ErrUnknownTemplate indicates a template kind the planner does not
	// recognize.
	ErrUnknownTemplate = errors.New("unknown render template")
)
