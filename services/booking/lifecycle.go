package booking

import (
	"fmt"
	"time"

	"chargebay/models"

	"go.uber.org/zap"
)

// cancelCutoff is how long before the start time a booking may still be cancelled.
const cancelCutoff = time.Hour

// UpdateStatus advances the booking lifecycle. Only two transitions exist and
// both belong to the owner of the booking's station: booked -> in_progress
// (charging started) and in_progress -> completed (charging finished).
// Cancellation goes through Cancel, not here.
func (s *DefaultBookingService) UpdateStatus(bookingID, newStatus, callerID, callerRole string) (*models.Booking, error) {
	b, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}

	valid := (b.Status == models.BookingStatusBooked && newStatus == models.BookingStatusInProgress) ||
		(b.Status == models.BookingStatusInProgress && newStatus == models.BookingStatusCompleted)
	if !valid {
		return nil, InvalidTransitionError{From: b.Status, To: newStatus}
	}

	if callerRole != models.RoleStationOwner {
		return nil, ErrForbidden
	}
	station, err := s.StationRepo.GetByID(b.Station)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch station: %w", err)
	}
	if station == nil || station.Owner != callerID {
		return nil, ErrForbidden
	}

	if err := s.BookingRepo.SetStatus(b.ID, newStatus); err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	b.Status = newStatus

	s.Logger.Info("booking status updated",
		zap.String("booking", b.ID),
		zap.String("status", newStatus),
	)
	return b, nil
}

// Cancel cancels a booked reservation. Only the booking's EV owner may cancel,
// and only while more than one hour remains before the start time.
// Cancellation alone triggers no refund; that is a separate station-owner action.
func (s *DefaultBookingService) Cancel(bookingID, callerID string) (*models.Booking, error) {
	b, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if b.User != callerID {
		return nil, ErrForbidden
	}
	if b.Status != models.BookingStatusBooked {
		return nil, InvalidTransitionError{From: b.Status, To: models.BookingStatusCancelled}
	}
	if !time.Now().Before(b.StartTime.Add(-cancelCutoff)) {
		return nil, PolicyError{Message: "booking cannot be cancelled less than 1 hour before start time"}
	}

	if err := s.BookingRepo.SetStatus(b.ID, models.BookingStatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	b.Status = models.BookingStatusCancelled

	s.Logger.Info("booking cancelled", zap.String("booking", b.ID))
	return b, nil
}

// AddReview sets the one-shot rating and optional review text on a completed
// booking. The absence of an existing rating is the gate: a booking that was
// rated once can never be re-rated or edited.
func (s *DefaultBookingService) AddReview(bookingID, callerID string, rating int, review string) (*models.Booking, error) {
	if rating < 1 || rating > 5 {
		return nil, ValidationError{Message: "rating must be between 1 and 5"}
	}

	b, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if b.User != callerID {
		return nil, ErrForbidden
	}
	if b.Status != models.BookingStatusCompleted {
		return nil, PolicyError{Message: "only completed bookings can be reviewed"}
	}
	if b.Rating != 0 {
		return nil, PolicyError{Message: "booking has already been reviewed"}
	}

	if err := s.BookingRepo.SetReview(b.ID, rating, review); err != nil {
		return nil, fmt.Errorf("failed to store review: %w", err)
	}
	b.Rating = rating
	b.Review = review
	return b, nil
}
