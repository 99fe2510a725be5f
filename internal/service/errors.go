package service

import "errors"

var (
	ErrInvalidID      = errors.New("invalid ID format")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrForbidden      = errors.New("forbidden access")

	ErrTokenMissing   = errors.New("authorization header required")
	ErrTokenMalformed = errors.New("invalid authorization format")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
)
