package api

import "errors"

// Error taxonomy for remote calls. Handlers match with errors.Is; the
// service-supplied message, when present, is carried in the wrapping error.
var (
	// ErrValidation is a 400: malformed phone/email or missing required field.
	ErrValidation = errors.New("invalid contact data")
	// ErrNotFound is a 404: unknown contact id.
	ErrNotFound = errors.New("contact not found")
	// ErrConflict is a 409: duplicate phone or email.
	ErrConflict = errors.New("contact already exists")
	// ErrServer is any other non-2xx response.
	ErrServer = errors.New("phonebook service error")
)
