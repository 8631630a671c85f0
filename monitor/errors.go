package monitor

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingHostKey is returned when a check-in carries no host key.
	ErrMissingHostKey = errors.New("missing host key")
	// ErrUnknownHost is returned when no host matches the key.
	ErrUnknownHost = errors.New("unknown host key")
)

// StoreError wraps a failed read or write against the host store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %s", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
