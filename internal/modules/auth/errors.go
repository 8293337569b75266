package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrCodeExpired        = errors.New("verification code expired or not found")
	ErrCodeInvalid        = errors.New("invalid verification code")
	ErrTooManyAttempts    = errors.New("too many verification attempts")
	ErrResendCooldown     = errors.New("verification code was sent recently")
)
