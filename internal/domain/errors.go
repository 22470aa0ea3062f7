package domain

import "errors"

// Sentinel errors for the application.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidAction       = errors.New("invalid action")
	ErrInvalidTarget       = errors.New("message must target exactly one of receiver_id or group_id")
	ErrConstraintViolation = errors.New("constraint violation")
)
