package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// document does not exist in the store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. unknown family member, unsupported field).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the acting family member is not allowed to
// perform the operation (e.g. a child editing the packing list).
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")
