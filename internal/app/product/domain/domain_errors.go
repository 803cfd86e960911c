package domain

import "errors"

// Domain errors as sentinel values
var (
	// Record errors
	ErrEmptyRecordID     = errors.New("record id cannot be empty")
	ErrDuplicateRecordID = errors.New("duplicate record id")
	ErrRecordNotFound    = errors.New("record not found")
	ErrIndexOutOfRange   = errors.New("record index out of range")

	// Variant errors
	ErrInvalidPrice = errors.New("invalid price")
)
