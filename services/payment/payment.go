package payment

import (
	"context"
	"fmt"
	"math"

	bookingRepo "chargebay/database/repository/booking"
	stationRepo "chargebay/database/repository/station"
	"chargebay/models"

	"go.uber.org/zap"
)

// PaymentService bridges bookings to the external payment processor and keeps
// the station availability counter in step with completed and refunded payments.
type PaymentService interface {
	CreateIntent(ctx context.Context, bookingID, callerID string) (*models.PaymentIntentResult, error)
	ConfirmPayment(ctx context.Context, bookingID, intentID, callerID string) (*models.Booking, error)
	SetCodStatus(bookingID, callerID, status, method string) (*models.Booking, error)
	Refund(ctx context.Context, bookingID, callerID, reason string) (*models.RefundResult, error)
	GetStatus(ctx context.Context, bookingID, callerID string) (*models.PaymentStatusResult, error)
	History(ownerID, stationID string, f bookingRepo.Filter) ([]models.Booking, int64, *models.RevenueStats, error)
}

// DefaultPaymentService is the standard implementation of PaymentService.
type DefaultPaymentService struct {
	BookingRepo bookingRepo.BookingRepository
	StationRepo stationRepo.StationRepository
	Gateway     Gateway
	Currency    string
	Logger      *zap.Logger
}

func (s *DefaultPaymentService) getOwnBooking(bookingID, callerID string) (*models.Booking, error) {
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
	return b, nil
}

// CreateIntent opens a processor-side payment intent for the booking's total
// amount and stores its reference on the booking. Neither the booking status
// nor the payment status changes here; the client drives the payment UI with
// the returned secret and then calls ConfirmPayment.
func (s *DefaultPaymentService) CreateIntent(ctx context.Context, bookingID, callerID string) (*models.PaymentIntentResult, error) {
	b, err := s.getOwnBooking(bookingID, callerID)
	if err != nil {
		return nil, err
	}
	if b.PaymentStatus == models.PaymentStatusCompleted {
		return nil, ErrAlreadyPaid
	}

	station, err := s.StationRepo.GetByID(b.Station)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch station: %w", err)
	}
	description := "EV charging"
	if station != nil {
		description = "EV charging at " + station.Name
	}

	intent, err := s.Gateway.CreateIntent(ctx, CreateIntentInput{
		Amount:      int64(math.Round(b.TotalAmount * 100)),
		Currency:    s.Currency,
		Description: description,
		Metadata: map[string]string{
			"bookingId": b.ID,
			"userId":    b.User,
			"stationId": b.Station,
		},
	})
	if err != nil {
		return nil, ExternalError{Op: "create intent", Err: err}
	}

	if err := s.BookingRepo.SetPaymentIntent(b.ID, intent.ID); err != nil {
		return nil, fmt.Errorf("failed to store payment intent reference: %w", err)
	}

	s.Logger.Info("payment intent created",
		zap.String("booking", b.ID),
		zap.String("intent", intent.ID),
	)
	return &models.PaymentIntentResult{
		ClientSecret: intent.ClientSecret,
		Amount:       b.TotalAmount,
		Currency:     s.Currency,
	}, nil
}

// ConfirmPayment checks the intent's processor-side status. A succeeded intent
// completes the payment and decrements the station's availability counter
// (floored at zero) — the single happy-path decrement. Any other status marks
// the payment failed so the caller can start over with a fresh intent.
func (s *DefaultPaymentService) ConfirmPayment(ctx context.Context, bookingID, intentID, callerID string) (*models.Booking, error) {
	b, err := s.getOwnBooking(bookingID, callerID)
	if err != nil {
		return nil, err
	}
	if b.PaymentIntentID == "" || b.PaymentIntentID != intentID {
		return nil, ValidationError{Message: "payment intent does not match this booking"}
	}

	intent, err := s.Gateway.RetrieveIntent(ctx, intentID)
	if err != nil {
		return nil, ExternalError{Op: "retrieve intent", Err: err}
	}

	if intent.Status != IntentSucceeded {
		if err := s.BookingRepo.SetPaymentStatus(b.ID, models.PaymentStatusFailed); err != nil {
			return nil, fmt.Errorf("failed to mark payment failed: %w", err)
		}
		b.PaymentStatus = models.PaymentStatusFailed
		return nil, ExternalError{Op: "confirm payment", Status: intent.Status}
	}

	if err := s.BookingRepo.SetPaymentStatus(b.ID, models.PaymentStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to mark payment completed: %w", err)
	}
	b.PaymentStatus = models.PaymentStatusCompleted

	if err := s.StationRepo.DecrementAvailableSlots(b.Station); err != nil {
		s.Logger.Error("failed to decrement available slots after payment",
			zap.String("station", b.Station), zap.Error(err))
	}

	s.Logger.Info("payment confirmed",
		zap.String("booking", b.ID),
		zap.String("intent", intentID),
	)
	return b, nil
}

// SetCodStatus records a cash-on-delivery payment status straight from the
// client. There is no independent verification that cash changed hands; this
// is a trust-the-client shortcut carried over from the product's COD flow.
// A completed status mirrors the online path's counter decrement.
func (s *DefaultPaymentService) SetCodStatus(bookingID, callerID, status, method string) (*models.Booking, error) {
	if method != "cod" {
		return nil, ValidationError{Message: "invalid payment method"}
	}
	switch status {
	case models.PaymentStatusPending, models.PaymentStatusCompleted, models.PaymentStatusFailed:
	default:
		return nil, ValidationError{Message: "invalid payment status"}
	}

	b, err := s.getOwnBooking(bookingID, callerID)
	if err != nil {
		return nil, err
	}

	if err := s.BookingRepo.SetPaymentStatus(b.ID, status); err != nil {
		return nil, fmt.Errorf("failed to set payment status: %w", err)
	}
	b.PaymentStatus = status

	if status == models.PaymentStatusCompleted {
		if err := s.StationRepo.DecrementAvailableSlots(b.Station); err != nil {
			s.Logger.Error("failed to decrement available slots after COD payment",
				zap.String("station", b.Station), zap.Error(err))
		}
	}

	s.Logger.Info("cod payment status set",
		zap.String("booking", b.ID),
		zap.String("status", status),
	)
	return b, nil
}

// Refund refunds a completed payment. Only the owner of the booking's station
// may refund. On processor success the payment becomes refunded, the booking
// cancelled, and the availability counter is incremented back (capped at
// totalSlots). A processor failure leaves the booking untouched.
func (s *DefaultPaymentService) Refund(ctx context.Context, bookingID, callerID, reason string) (*models.RefundResult, error) {
	b, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}

	station, err := s.StationRepo.GetByID(b.Station)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch station: %w", err)
	}
	if station == nil || station.Owner != callerID {
		return nil, ErrForbidden
	}
	if b.PaymentStatus != models.PaymentStatusCompleted {
		return nil, PolicyError{Message: "cannot refund incomplete payment"}
	}
	if b.PaymentIntentID == "" {
		return nil, ValidationError{Message: "no payment intent found for this booking"}
	}

	if reason == "" {
		reason = "Station owner refund"
	}
	ref, err := s.Gateway.CreateRefund(ctx, RefundInput{
		IntentID: b.PaymentIntentID,
		Reason:   reason,
		Metadata: map[string]string{"bookingId": b.ID},
	})
	if err != nil {
		return nil, ExternalError{Op: "refund", Err: err}
	}

	if err := s.BookingRepo.SetPaymentStatus(b.ID, models.PaymentStatusRefunded); err != nil {
		return nil, fmt.Errorf("failed to mark payment refunded: %w", err)
	}
	if err := s.BookingRepo.SetStatus(b.ID, models.BookingStatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel refunded booking: %w", err)
	}
	if err := s.StationRepo.IncrementAvailableSlots(b.Station); err != nil {
		s.Logger.Error("failed to increment available slots after refund",
			zap.String("station", b.Station), zap.Error(err))
	}

	s.Logger.Info("payment refunded",
		zap.String("booking", b.ID),
		zap.String("refund", ref.ID),
	)
	return &models.RefundResult{
		RefundID: ref.ID,
		Amount:   float64(ref.Amount) / 100,
		Currency: ref.Currency,
	}, nil
}

// GetStatus cross-checks the locally stored payment status against the
// processor's live status for diagnostics. It never mutates state; a
// processor error degrades the live status to "unknown".
func (s *DefaultPaymentService) GetStatus(ctx context.Context, bookingID, callerID string) (*models.PaymentStatusResult, error) {
	b, err := s.getOwnBooking(bookingID, callerID)
	if err != nil {
		return nil, err
	}

	result := &models.PaymentStatusResult{
		PaymentStatus:   b.PaymentStatus,
		ProcessorStatus: "none",
		Amount:          b.TotalAmount,
		Currency:        s.Currency,
	}
	if b.PaymentIntentID != "" {
		intent, err := s.Gateway.RetrieveIntent(ctx, b.PaymentIntentID)
		if err != nil {
			result.ProcessorStatus = "unknown"
		} else {
			result.ProcessorStatus = intent.Status
		}
	}
	return result, nil
}

// History returns a page of a station's bookings together with the
// completed-payment revenue aggregate. Only the station's owner may read it.
func (s *DefaultPaymentService) History(ownerID, stationID string, f bookingRepo.Filter) ([]models.Booking, int64, *models.RevenueStats, error) {
	station, err := s.StationRepo.GetByID(stationID)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to fetch station: %w", err)
	}
	if station == nil || station.Owner != ownerID {
		return nil, 0, nil, ErrForbidden
	}

	f.Station = ""
	bookings, total, err := s.BookingRepo.ListByStations([]string{stationID}, f)
	if err != nil {
		return nil, 0, nil, err
	}
	revenue, err := s.BookingRepo.RevenueByStation(stationID)
	if err != nil {
		return nil, 0, nil, err
	}
	return bookings, total, revenue, nil
}
