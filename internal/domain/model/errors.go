package model

import "errors"

// Sentinel errors for the domain. Handlers map these onto HTTP status codes;
// everything else surfaces as a generic server failure.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
