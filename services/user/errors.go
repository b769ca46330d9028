package user

import "errors"

var (
	// ErrEmailTaken signals a registration with an already-registered email.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials signals a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports malformed registration input.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}
