package errors

import "errors"

// Centralized sentinel errors for the application. Services return these
// (usually wrapped with fmt.Errorf("%w: ...")) instead of HTTP status codes;
// the API layer maps them to responses with errors.Is.

var (
	// ErrNotFound signifies that a requested character or conversation
	// could not be located in the store.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data failed business rule
	// validation (empty message text, missing character name, ...).
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation conflicts with the current
	// state of a resource. The conversation in-flight guard returns this
	// when a second request targets a conversation that is already waiting
	// on the completion endpoint.
	ErrConflict = errors.New("resource conflict")

	// ErrParse signifies that an imported character document is not valid
	// JSON or has no usable root value.
	ErrParse = errors.New("parse failed")

	// ErrInternal signifies an unexpected server-side failure. Used to
	// avoid leaking implementation details to the client.
	ErrInternal = errors.New("internal error")
)
