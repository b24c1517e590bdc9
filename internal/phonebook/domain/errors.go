package domain

import "errors"

var (
	// ErrNotFound indicates the requested contact does not exist.
	ErrNotFound = errors.New("contact not found")
	// ErrDuplicateEntry indicates another contact already uses the number or email.
	ErrDuplicateEntry = errors.New("duplicate contact entry")
	// ErrValidation indicates the input failed field validation.
	ErrValidation = errors.New("validation failed")
)
