package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrStationNotFound signals that the referenced station does not exist.
	ErrStationNotFound = errors.New("charging station not found")
	// ErrBookingNotFound signals that the referenced booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrForbidden signals that the caller does not own the referenced entity
	// or lacks the required role.
	ErrForbidden = errors.New("access denied")
	// ErrSlotUnavailable signals that the slot is taken or blocked for the
	// requested window.
	ErrSlotUnavailable = errors.New("slot is not available during this time")
)

// ValidationError reports malformed input: bad IDs, out-of-range slot numbers,
// durations or ratings.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// PolicyError reports a business-rule rejection distinct from validation,
// such as cancelling past the cutoff or reviewing twice.
type PolicyError struct {
	Message string
}

func (e PolicyError) Error() string {
	return e.Message
}

// InvalidTransitionError reports a status change the lifecycle state machine
// does not permit.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking status transition from %q to %q", e.From, e.To)
}
