package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrBookingNotFound signals that the referenced booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrForbidden signals that the caller does not own the referenced entity.
	ErrForbidden = errors.New("access denied")
	// ErrAlreadyPaid signals an intent request for a booking whose payment is
	// already completed.
	ErrAlreadyPaid = errors.New("payment already completed")
)

// ValidationError reports malformed input such as an unknown payment method
// or a mismatched intent reference.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// PolicyError reports a business-rule rejection, such as refunding a payment
// that never completed.
type PolicyError struct {
	Message string
}

func (e PolicyError) Error() string {
	return e.Message
}

// ExternalError reports a payment processor call that failed or returned a
// non-success status. Financial state is never mutated silently around one.
type ExternalError struct {
	Op     string
	Status string
	Err    error
}

func (e ExternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment processor %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("payment processor %s returned status %q", e.Op, e.Status)
}

func (e ExternalError) Unwrap() error {
	return e.Err
}
