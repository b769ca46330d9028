package station

import "errors"

var (
	// ErrNotFound signals that the referenced station does not exist or is
	// invisible to the caller.
	ErrNotFound = errors.New("charging station not found")
	// ErrActiveBookings blocks deletion while active bookings reference the station.
	ErrActiveBookings = errors.New("cannot delete station with active bookings")
	// ErrSlotBooked blocks a slot block that conflicts with an active booking.
	ErrSlotBooked = errors.New("slot is already booked during this time")
)

// ValidationError reports malformed station input.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}
