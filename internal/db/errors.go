package db

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable matches every failure talking to the document store.
var ErrStoreUnavailable = errors.New("store unavailable")

type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrStoreUnavailable, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Err}
}

// Unavailable wraps a driver error. It returns nil for a nil err and leaves an
// already wrapped error untouched.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
