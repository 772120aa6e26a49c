package model

import "errors"

var (
	// ErrNotFound is returned when an operation references an unknown memory id.
	ErrNotFound = errors.New("memory not found")
	// ErrInvalidInput is returned for arguments outside their documented range.
	ErrInvalidInput = errors.New("invalid input")
)
