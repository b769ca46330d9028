package station

import (
	"time"

	stationRepo "chargebay/database/repository/station"
	"chargebay/models"
)

// CreateStationInput carries the fields a station owner submits on creation.
type CreateStationInput struct {
	Name           string
	Description    string
	Address        string
	Latitude       float64
	Longitude      float64
	TotalSlots     int
	ChargingRate   float64
	Amenities      []string
	OperatingHours models.OperatingHours
	Images         []string
}

// UpdateStationInput carries optional station mutations. Nil pointers leave
// the stored value untouched.
type UpdateStationInput struct {
	Name           *string
	Description    *string
	Address        *string
	Latitude       *float64
	Longitude      *float64
	TotalSlots     *int
	ChargingRate   *float64
	Amenities      []string
	OperatingHours *models.OperatingHours
	IsActive       *bool
	Images         []string
}

// BlockSlotInput declares an owner unavailability window for one slot.
type BlockSlotInput struct {
	SlotNumber int
	StartTime  time.Time
	EndTime    time.Time
	Reason     string
}

// StationService owns charging-station records and the owner-facing
// operations on them.
type StationService interface {
	Create(ownerID string, in CreateStationInput) (*models.ChargingStation, error)
	GetByID(id string) (*models.ChargingStation, error)
	ListActive(geo *stationRepo.GeoFilter) ([]models.ChargingStation, error)
	ListByOwner(ownerID string) ([]models.ChargingStation, error)
	Update(ownerID, stationID string, in UpdateStationInput) (*models.ChargingStation, error)
	Delete(ownerID, stationID string) error
	BlockSlot(ownerID, stationID string, in BlockSlotInput) (*models.ChargingStation, error)
	Stats(ownerID, stationID string) (*models.ChargingStation, *models.StationStats, error)
}
