package extraction

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPayload marks input that is neither a string nor a JSON object.
	ErrInvalidPayload = errors.New("payload must be a string or a JSON object")

	// ErrMalformedExtraction marks a model response that does not parse as JSON.
	ErrMalformedExtraction = errors.New("extraction response is not valid JSON")
)

// ValidationError reports a model response that parsed as JSON but failed
// schema validation. Field is the dotted path of the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid extraction field %q: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
