package bookingRepo

import (
	"time"

	"chargebay/models"
)

// Filter narrows booking listings. Zero values mean "no filter".
// Page is 1-based; Limit defaults to 10 when unset.
type Filter struct {
	Station       string
	Status        string
	PaymentStatus string
	Page          int64
	Limit         int64
}

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)

	// FindActiveOverlap returns one active (booked/in_progress) booking on the
	// given station and slot whose window intersects [start, end), or nil.
	FindActiveOverlap(stationID string, slotNumber int, start, end time.Time) (*models.Booking, error)

	// ListActiveOverlapping returns all active bookings on the station, any
	// slot, intersecting [start, end).
	ListActiveOverlapping(stationID string, start, end time.Time) ([]models.Booking, error)

	CountActiveByStation(stationID string) (int64, error)
	CountActivePaidByStation(stationID string) (int64, error)

	ListByUser(userID string, f Filter) ([]models.Booking, int64, error)
	ListByStations(stationIDs []string, f Filter) ([]models.Booking, int64, error)

	SetStatus(id, status string) error
	SetPaymentStatus(id, status string) error
	SetPaymentIntent(id, intentID string) error
	SetReview(id string, rating int, review string) error

	StationStats(stationID string) (*models.StationStats, error)
	RevenueByStation(stationID string) (*models.RevenueStats, error)
}
