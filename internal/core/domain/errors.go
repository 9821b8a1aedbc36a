package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDomainNotLoaded indicates the active domain version has no snapshot in the store.
	ErrDomainNotLoaded = errors.New("domain version not loaded")

	// ErrUnsupportedObject indicates an object type that cannot relate to techniques.
	// Only groups, software, mitigations and campaigns resolve related techniques.
	ErrUnsupportedObject = errors.New("unsupported object type")

	// ErrInvalidBundle indicates a STIX bundle could not be decoded.
	ErrInvalidBundle = errors.New("invalid STIX bundle")

	// ErrUnknownField indicates a search field name not in the field list.
	ErrUnknownField = errors.New("unknown search field")
)
