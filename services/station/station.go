package station

import (
	"fmt"
	"regexp"
	"time"

	bookingRepo "chargebay/database/repository/booking"
	stationRepo "chargebay/database/repository/station"
	"chargebay/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// timeOfDayRe validates "HH:MM" operating-hours strings.
var timeOfDayRe = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// DefaultStationService is the standard implementation of StationService.
type DefaultStationService struct {
	Repo        stationRepo.StationRepository
	BookingRepo bookingRepo.BookingRepository
	Logger      *zap.Logger
}

// Create registers a new station. The availability counter starts at full
// capacity.
func (s *DefaultStationService) Create(ownerID string, in CreateStationInput) (*models.ChargingStation, error) {
	if in.TotalSlots < 1 {
		return nil, ValidationError{Message: "total slots must be at least 1"}
	}
	if in.ChargingRate < 0 {
		return nil, ValidationError{Message: "charging rate must be positive"}
	}
	if in.Latitude < -90 || in.Latitude > 90 || in.Longitude < -180 || in.Longitude > 180 {
		return nil, ValidationError{Message: "invalid coordinates"}
	}

	hours := in.OperatingHours
	if hours.Open == "" && hours.Close == "" {
		hours = models.OperatingHours{Open: "06:00", Close: "22:00"}
	}
	if !timeOfDayRe.MatchString(hours.Open) || !timeOfDayRe.MatchString(hours.Close) {
		return nil, ValidationError{Message: "operating hours must be HH:MM"}
	}

	now := time.Now()
	st := &models.ChargingStation{
		ID:          uuid.New().String(),
		Owner:       ownerID,
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		Location: models.GeoPoint{
			Type:        "Point",
			Coordinates: []float64{in.Longitude, in.Latitude},
		},
		TotalSlots:     in.TotalSlots,
		AvailableSlots: in.TotalSlots,
		ChargingRate:   in.ChargingRate,
		Amenities:      in.Amenities,
		OperatingHours: hours,
		IsActive:       true,
		BlockedSlots:   []models.BlockedSlot{},
		Images:         in.Images,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(st); err != nil {
		return nil, fmt.Errorf("failed to persist station: %w", err)
	}

	s.Logger.Info("station created",
		zap.String("station", st.ID),
		zap.String("owner", ownerID),
	)
	return st, nil
}

// GetByID fetches one station (public read).
func (s *DefaultStationService) GetByID(id string) (*models.ChargingStation, error) {
	st, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch station: %w", err)
	}
	if st == nil {
		return nil, ErrNotFound
	}
	return st, nil
}

// ListActive returns active stations, optionally narrowed by a radius filter.
func (s *DefaultStationService) ListActive(geo *stationRepo.GeoFilter) ([]models.ChargingStation, error) {
	return s.Repo.ListActive(geo)
}

// ListByOwner returns the caller's own stations.
func (s *DefaultStationService) ListByOwner(ownerID string) ([]models.ChargingStation, error) {
	return s.Repo.ListByOwner(ownerID)
}

func (s *DefaultStationService) getOwned(ownerID, stationID string) (*models.ChargingStation, error) {
	st, err := s.Repo.GetByID(stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch station: %w", err)
	}
	if st == nil || st.Owner != ownerID {
		// Missing and not-owned look the same to the caller.
		return nil, ErrNotFound
	}
	return st, nil
}

// Update mutates station fields. A totalSlots change shifts the availability
// counter by the same delta, floored at zero, so paid occupancy is preserved.
func (s *DefaultStationService) Update(ownerID, stationID string, in UpdateStationInput) (*models.ChargingStation, error) {
	st, err := s.getOwned(ownerID, stationID)
	if err != nil {
		return nil, err
	}

	upd := stationRepo.StationUpdate{
		Name:           in.Name,
		Description:    in.Description,
		Address:        in.Address,
		TotalSlots:     in.TotalSlots,
		ChargingRate:   in.ChargingRate,
		Amenities:      in.Amenities,
		OperatingHours: in.OperatingHours,
		IsActive:       in.IsActive,
		Images:         in.Images,
	}
	if in.TotalSlots != nil {
		if *in.TotalSlots < 1 {
			return nil, ValidationError{Message: "total slots must be at least 1"}
		}
		if *in.TotalSlots != st.TotalSlots {
			delta := *in.TotalSlots - st.TotalSlots
			available := st.AvailableSlots + delta
			if available < 0 {
				available = 0
			}
			upd.AvailableSlots = &available
		}
	}
	if in.ChargingRate != nil && *in.ChargingRate < 0 {
		return nil, ValidationError{Message: "charging rate must be positive"}
	}
	if in.OperatingHours != nil &&
		(!timeOfDayRe.MatchString(in.OperatingHours.Open) || !timeOfDayRe.MatchString(in.OperatingHours.Close)) {
		return nil, ValidationError{Message: "operating hours must be HH:MM"}
	}
	if in.Latitude != nil || in.Longitude != nil {
		lat, lng := st.Location.Coordinates[1], st.Location.Coordinates[0]
		if in.Latitude != nil {
			lat = *in.Latitude
		}
		if in.Longitude != nil {
			lng = *in.Longitude
		}
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return nil, ValidationError{Message: "invalid coordinates"}
		}
		upd.Location = &models.GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
	}

	updated, err := s.Repo.Update(stationID, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to update station: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete removes a station, refused while any active booking references it.
func (s *DefaultStationService) Delete(ownerID, stationID string) error {
	if _, err := s.getOwned(ownerID, stationID); err != nil {
		return err
	}

	active, err := s.BookingRepo.CountActiveByStation(stationID)
	if err != nil {
		return fmt.Errorf("failed to count active bookings: %w", err)
	}
	if active > 0 {
		return ErrActiveBookings
	}

	if err := s.Repo.Delete(stationID); err != nil {
		return fmt.Errorf("failed to delete station: %w", err)
	}
	s.Logger.Info("station deleted", zap.String("station", stationID))
	return nil
}

// BlockSlot adds an owner unavailability window for one slot, refused when an
// active booking overlaps it. Cancelled and completed bookings do not block.
func (s *DefaultStationService) BlockSlot(ownerID, stationID string, in BlockSlotInput) (*models.ChargingStation, error) {
	st, err := s.getOwned(ownerID, stationID)
	if err != nil {
		return nil, err
	}
	if in.SlotNumber < 1 || in.SlotNumber > st.TotalSlots {
		return nil, ValidationError{Message: fmt.Sprintf("slot number must be between 1 and %d", st.TotalSlots)}
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, ValidationError{Message: "end time must be after start time"}
	}

	conflict, err := s.BookingRepo.FindActiveOverlap(stationID, in.SlotNumber, in.StartTime, in.EndTime)
	if err != nil {
		return nil, fmt.Errorf("failed to check booking overlap: %w", err)
	}
	if conflict != nil {
		return nil, ErrSlotBooked
	}

	reason := in.Reason
	if reason == "" {
		reason = "Maintenance"
	}
	blocked := models.BlockedSlot{
		SlotNumber: in.SlotNumber,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Reason:     reason,
	}
	if err := s.Repo.AddBlockedSlot(stationID, blocked); err != nil {
		return nil, fmt.Errorf("failed to add blocked slot: %w", err)
	}

	st.BlockedSlots = append(st.BlockedSlots, blocked)
	s.Logger.Info("slot blocked",
		zap.String("station", stationID),
		zap.Int("slot", in.SlotNumber),
	)
	return st, nil
}

// Stats returns booking counts and revenue for one owned station.
func (s *DefaultStationService) Stats(ownerID, stationID string) (*models.ChargingStation, *models.StationStats, error) {
	st, err := s.getOwned(ownerID, stationID)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.BookingRepo.StationStats(stationID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate station stats: %w", err)
	}
	return st, stats, nil
}
