package rest

import (
	"errors"
	"fmt"
)

// NetworkError reports a transport failure or a non-2xx response from a
// remote source. StatusCode is zero when no response was received.
type NetworkError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Source, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError reports a response body that does not have the expected shape.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsNetwork checks if err wraps a NetworkError.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsDecode checks if err wraps a DecodeError.
func IsDecode(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}

// Decodef builds a DecodeError with a formatted cause.
func Decodef(source, format string, args ...any) error {
	return &DecodeError{Source: source, Err: fmt.Errorf(format, args...)}
}
