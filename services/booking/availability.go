package booking

import (
	"fmt"
	"time"

	"chargebay/models"
)

// blockedSlotOverlaps reports whether any owner-declared block on the given
// slot number intersects [start, end), using the same half-open interval test
// as bookings.
func blockedSlotOverlaps(station *models.ChargingStation, slotNumber int, start, end time.Time) bool {
	for _, blocked := range station.BlockedSlots {
		if blocked.SlotNumber != slotNumber {
			continue
		}
		if blocked.StartTime.Before(end) && blocked.EndTime.After(start) {
			return true
		}
	}
	return false
}

// IsSlotAvailable reports whether the slot is free for the requested window:
// no active booking on the same station/slot intersects it, and no blocked-slot
// entry for the slot intersects it. The check and any subsequent booking insert
// are separate writes; a single-node deployment with one Mongo primary is assumed.
func (s *DefaultBookingService) IsSlotAvailable(stationID string, slotNumber int, start, end time.Time) (bool, error) {
	station, err := s.StationRepo.GetByID(stationID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch station: %w", err)
	}
	if station == nil {
		return false, ErrStationNotFound
	}
	return s.isSlotFree(station, slotNumber, start, end)
}

func (s *DefaultBookingService) isSlotFree(station *models.ChargingStation, slotNumber int, start, end time.Time) (bool, error) {
	if slotNumber < 1 || slotNumber > station.TotalSlots {
		return false, ValidationError{Message: fmt.Sprintf("slot number must be between 1 and %d", station.TotalSlots)}
	}

	conflict, err := s.BookingRepo.FindActiveOverlap(station.ID, slotNumber, start, end)
	if err != nil {
		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}
	if conflict != nil {
		return false, nil
	}

	if blockedSlotOverlaps(station, slotNumber, start, end) {
		return false, nil
	}
	return true, nil
}

// ListAvailableSlots enumerates 1..totalSlots and removes every slot occupied
// by an active booking or blocked by the owner during the window, returning
// the complement.
func (s *DefaultBookingService) ListAvailableSlots(stationID string, start, end time.Time) (*AvailabilityResult, error) {
	station, err := s.StationRepo.GetByID(stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch station: %w", err)
	}
	if station == nil {
		return nil, ErrStationNotFound
	}
	if !end.After(start) {
		return nil, ValidationError{Message: "end time must be after start time"}
	}

	overlapping, err := s.BookingRepo.ListActiveOverlapping(station.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping bookings: %w", err)
	}

	occupied := make(map[int]bool, len(overlapping))
	for _, b := range overlapping {
		occupied[b.SlotNumber] = true
	}
	for _, blocked := range station.BlockedSlots {
		if blocked.StartTime.Before(end) && blocked.EndTime.After(start) {
			occupied[blocked.SlotNumber] = true
		}
	}

	available := make([]int, 0, station.TotalSlots)
	for n := 1; n <= station.TotalSlots; n++ {
		if !occupied[n] {
			available = append(available, n)
		}
	}

	return &AvailabilityResult{
		StationName:    station.Name,
		TotalSlots:     station.TotalSlots,
		ChargingRate:   station.ChargingRate,
		AvailableSlots: available,
		StartTime:      start,
		EndTime:        end,
	}, nil
}
