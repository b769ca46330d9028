package booking

import (
	"fmt"
	"time"

	bookingRepo "chargebay/database/repository/booking"
	stationRepo "chargebay/database/repository/station"
	"chargebay/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService is the standard implementation of BookingService.
type DefaultBookingService struct {
	BookingRepo bookingRepo.BookingRepository
	StationRepo stationRepo.StationRepository
	Logger      *zap.Logger
}

// CreateBooking validates the request, checks slot availability for the
// requested window and persists the booking with status "booked" and payment
// status "pending". The total amount snapshots duration times the station's
// current charging rate; later rate changes never touch existing bookings.
func (s *DefaultBookingService) CreateBooking(userID, role string, in CreateBookingInput) (*models.Booking, error) {
	if role != models.RoleEVOwner {
		return nil, ErrForbidden
	}
	if in.Duration < 0.5 {
		return nil, ValidationError{Message: "duration must be at least 0.5 hours"}
	}

	station, err := s.StationRepo.GetByID(in.StationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch station: %w", err)
	}
	if station == nil {
		return nil, ErrStationNotFound
	}
	if !station.IsActive {
		return nil, ValidationError{Message: "charging station is not active"}
	}

	endTime := in.StartTime.Add(time.Duration(in.Duration * float64(time.Hour)))

	free, err := s.isSlotFree(station, in.SlotNumber, in.StartTime, endTime)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, ErrSlotUnavailable
	}

	now := time.Now()
	b := &models.Booking{
		ID:              uuid.New().String(),
		User:            userID,
		Station:         station.ID,
		SlotNumber:      in.SlotNumber,
		StartTime:       in.StartTime,
		EndTime:         endTime,
		Duration:        in.Duration,
		TotalAmount:     in.Duration * station.ChargingRate,
		PaymentStatus:   models.PaymentStatusPending,
		Status:          models.BookingStatusBooked,
		VehicleInfo:     in.VehicleInfo,
		SpecialRequests: in.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.BookingRepo.Create(b); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	s.Logger.Info("booking created",
		zap.String("booking", b.ID),
		zap.String("station", b.Station),
		zap.Int("slot", b.SlotNumber),
	)
	return b, nil
}

// GetByID fetches one booking, visible only to its EV owner or to the owner
// of the station it was made at.
func (s *DefaultBookingService) GetByID(bookingID, callerID, callerRole string) (*models.Booking, error) {
	b, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}

	switch callerRole {
	case models.RoleEVOwner:
		if b.User != callerID {
			return nil, ErrForbidden
		}
	case models.RoleStationOwner:
		station, err := s.StationRepo.GetByID(b.Station)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch station: %w", err)
		}
		if station == nil || station.Owner != callerID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}
	return b, nil
}

// ListForUser returns a page of the caller's own bookings.
func (s *DefaultBookingService) ListForUser(userID string, f bookingRepo.Filter) ([]models.Booking, int64, error) {
	return s.BookingRepo.ListByUser(userID, f)
}

// ListForOwner returns a page of bookings across every station the caller
// owns. An empty station list short-circuits to an empty page.
func (s *DefaultBookingService) ListForOwner(ownerID string, f bookingRepo.Filter) ([]models.Booking, int64, error) {
	stationIDs, err := s.StationRepo.IDsByOwner(ownerID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list owner stations: %w", err)
	}
	if len(stationIDs) == 0 {
		return []models.Booking{}, 0, nil
	}
	if f.Station != "" && !contains(stationIDs, f.Station) {
		return nil, 0, ErrForbidden
	}
	return s.BookingRepo.ListByStations(stationIDs, f)
}

// ListForStation returns a page of bookings for one station the caller owns.
func (s *DefaultBookingService) ListForStation(ownerID, stationID string, f bookingRepo.Filter) ([]models.Booking, int64, error) {
	station, err := s.StationRepo.GetByID(stationID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch station: %w", err)
	}
	if station == nil || station.Owner != ownerID {
		return nil, 0, ErrStationNotFound
	}
	f.Station = ""
	return s.BookingRepo.ListByStations([]string{stationID}, f)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
