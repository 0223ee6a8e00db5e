package logic

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("amount must be greater than 0")
	ErrInvalidRequest      = errors.New("invalid request data")
	ErrServiceUnavailable  = errors.New("service unavailable")
)
