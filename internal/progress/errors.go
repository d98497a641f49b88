package progress

import "errors"

var (
	// ErrNotFound is returned when no record exists for a pair.
	ErrNotFound = errors.New("progress record not found")
	// ErrMissingIdentity is returned when a record lacks a base or react signature.
	ErrMissingIdentity = errors.New("progress record needs both base and react ids")
)
