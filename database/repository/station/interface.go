package stationRepo

import "chargebay/models"

// StationUpdate carries the mutable station fields for a partial update.
// Nil pointers leave the stored value untouched.
type StationUpdate struct {
	Name           *string
	Description    *string
	Address        *string
	Location       *models.GeoPoint
	TotalSlots     *int
	AvailableSlots *int
	ChargingRate   *float64
	Amenities      []string
	OperatingHours *models.OperatingHours
	IsActive       *bool
	Images         []string
}

// GeoFilter narrows a station listing to a radius (km) around a point.
type GeoFilter struct {
	Longitude float64
	Latitude  float64
	RadiusKm  float64
}

// StationRepository defines persistence operations for charging stations.
type StationRepository interface {
	Create(station *models.ChargingStation) error
	GetByID(id string) (*models.ChargingStation, error)
	ListActive(geo *GeoFilter) ([]models.ChargingStation, error)
	ListByOwner(ownerID string) ([]models.ChargingStation, error)
	IDsByOwner(ownerID string) ([]string, error)
	Update(id string, upd StationUpdate) (*models.ChargingStation, error)
	Delete(id string) error
	AddBlockedSlot(id string, blocked models.BlockedSlot) error

	// Counter updates are atomic single-document writes. Decrement is a no-op
	// at 0; Increment is a no-op at totalSlots.
	DecrementAvailableSlots(id string) error
	IncrementAvailableSlots(id string) error
	SetAvailableSlots(id string, value int) error
}
