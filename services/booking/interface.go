package booking

import (
	"time"

	bookingRepo "chargebay/database/repository/booking"
	"chargebay/models"
)

// CreateBookingInput carries the fields an EV owner submits to reserve a slot.
type CreateBookingInput struct {
	StationID       string
	SlotNumber      int
	StartTime       time.Time
	Duration        float64 // hours
	VehicleInfo     models.VehicleInfo
	SpecialRequests string
}

// AvailabilityResult lists the free slot numbers for a station and window.
type AvailabilityResult struct {
	StationName    string    `json:"stationName"`
	TotalSlots     int       `json:"totalSlots"`
	ChargingRate   float64   `json:"chargingRate"`
	AvailableSlots []int     `json:"availableSlots"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
}

// BookingService manages the booking lifecycle: creation against the slot
// availability rules, the status state machine, cancellation, reviews, and
// ownership-scoped reads.
type BookingService interface {
	CreateBooking(userID, role string, in CreateBookingInput) (*models.Booking, error)
	UpdateStatus(bookingID, newStatus, callerID, callerRole string) (*models.Booking, error)
	Cancel(bookingID, callerID string) (*models.Booking, error)
	AddReview(bookingID, callerID string, rating int, review string) (*models.Booking, error)

	GetByID(bookingID, callerID, callerRole string) (*models.Booking, error)
	ListForUser(userID string, f bookingRepo.Filter) ([]models.Booking, int64, error)
	ListForOwner(ownerID string, f bookingRepo.Filter) ([]models.Booking, int64, error)
	ListForStation(ownerID, stationID string, f bookingRepo.Filter) ([]models.Booking, int64, error)

	IsSlotAvailable(stationID string, slotNumber int, start, end time.Time) (bool, error)
	ListAvailableSlots(stationID string, start, end time.Time) (*AvailabilityResult, error)
}
