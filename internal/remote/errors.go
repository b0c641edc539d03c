package remote

import (
	"errors"
	"fmt"
)

// Error wraps a remote operation failure with the operation, bucket, and
// object key it happened on.
type Error struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("remote.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("remote.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("remote.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	// ErrNotFound indicates the requested object does not exist.
	ErrNotFound = errors.New("remote: object not found")

	// ErrNotConfigured indicates no remote is set up. Expected on fresh
	// installs, reported as a plain message rather than a failure.
	ErrNotConfigured = errors.New("remote: not configured")
)

// IsNotFound reports whether err means the object does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNotConfigured reports whether err means no remote is configured
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}
