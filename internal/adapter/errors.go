package adapter

import "errors"

// Sentinel errors mapped from HTTP status codes.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
)

// ErrMissingID is returned when the server accepts a create request but
// does not echo the new record ID.
var ErrMissingID = errors.New("server response carries no record id")

// ErrKDFNotStored is returned when the server drops the key derivation
// parameters of a new vault. The vault is removed again since it could not
// be unlocked later.
var ErrKDFNotStored = errors.New("server did not store the vault kdf parameters")
