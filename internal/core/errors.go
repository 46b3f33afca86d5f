package core

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrSecretStore  = errors.New("secret store failure")
	ErrConflict     = errors.New("conflict")
)
