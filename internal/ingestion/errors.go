package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized marks a request whose bearer token was rejected.
	ErrUnauthorized = errors.New("missing or rejected bearer token")

	// ErrExtractionEmpty marks a model invocation that returned no text.
	// The whole request may be retried by the caller.
	ErrExtractionEmpty = errors.New("extraction model returned no text")
)

// Retryable reports whether retrying the same ingestion could succeed.
// Empty model responses and store failures are transient; authorization,
// payload and validation failures are not.
func Retryable(err error) bool {
	if errors.Is(err, ErrExtractionEmpty) {
		return true
	}
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}

// StoreError wraps a persistence failure with the operation that hit it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
