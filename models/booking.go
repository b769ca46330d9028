package models

import "time"

// Booking status values. Transitions: booked -> in_progress -> completed,
// booked -> cancelled. Completed and cancelled are terminal.
const (
	BookingStatusBooked     = "booked"
	BookingStatusInProgress = "in_progress"
	BookingStatusCompleted  = "completed"
	BookingStatusCancelled  = "cancelled"
)

// Payment status values for a booking.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// ActiveBookingStatuses are the statuses that occupy a slot/time window.
var ActiveBookingStatuses = []string{BookingStatusBooked, BookingStatusInProgress}

// VehicleInfo is optional vehicle metadata supplied at booking time.
type VehicleInfo struct {
	Make         string `bson:"make,omitempty" json:"make,omitempty"`
	Model        string `bson:"model,omitempty" json:"model,omitempty"`
	LicensePlate string `bson:"licensePlate,omitempty" json:"licensePlate,omitempty"`
}

// Booking reserves one slot at a station for a half-open time window
// [StartTime, EndTime). TotalAmount is a snapshot of duration times the
// station's charging rate at creation; it is never recalculated.
type Booking struct {
	ID              string      `bson:"id" json:"id"`
	User            string      `bson:"user" json:"user"`
	Station         string      `bson:"station" json:"station"`
	SlotNumber      int         `bson:"slotNumber" json:"slotNumber"`
	StartTime       time.Time   `bson:"startTime" json:"startTime"`
	EndTime         time.Time   `bson:"endTime" json:"endTime"`
	Duration        float64     `bson:"duration" json:"duration"` // hours
	TotalAmount     float64     `bson:"totalAmount" json:"totalAmount"`
	PaymentStatus   string      `bson:"paymentStatus" json:"paymentStatus"`
	PaymentIntentID string      `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	Status          string      `bson:"status" json:"status"`
	VehicleInfo     VehicleInfo `bson:"vehicleInfo" json:"vehicleInfo"`
	SpecialRequests string      `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`
	Rating          int         `bson:"rating,omitempty" json:"rating,omitempty"` // 1..5, settable once
	Review          string      `bson:"review,omitempty" json:"review,omitempty"`
	CreatedAt       time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// IsActive reports whether the booking occupies its slot/time window.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusBooked || b.Status == BookingStatusInProgress
}

// Overlaps applies the half-open interval intersection test against the
// given window: existing.start < requested.end AND existing.end > requested.start.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}
