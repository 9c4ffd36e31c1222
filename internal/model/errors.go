package model

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrQuotaExceeded = errors.New("daily analysis quota exceeded")
)
