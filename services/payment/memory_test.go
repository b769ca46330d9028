package payment

import (
	"context"
	"fmt"
	"time"

	bookingRepo "chargebay/database/repository/booking"
	stationRepo "chargebay/database/repository/station"
	"chargebay/models"
)

// fakeGateway is an in-memory Gateway. Created intents start in
// "requires_payment_method"; tests flip them to succeeded to simulate the
// client-side payment step.
type fakeGateway struct {
	intents     map[string]*Intent
	refunds     []RefundInput
	nextID      int
	createErr   error
	retrieveErr error
	refundErr   error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{intents: make(map[string]*Intent)}
}

func (g *fakeGateway) CreateIntent(ctx context.Context, in CreateIntentInput) (*Intent, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.nextID++
	intent := &Intent{
		ID:           fmt.Sprintf("pi_%d", g.nextID),
		ClientSecret: fmt.Sprintf("pi_%d_secret", g.nextID),
		Status:       "requires_payment_method",
		Amount:       in.Amount,
		Currency:     in.Currency,
	}
	g.intents[intent.ID] = intent
	return intent, nil
}

func (g *fakeGateway) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	if g.retrieveErr != nil {
		return nil, g.retrieveErr
	}
	intent, ok := g.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("no such intent: %s", intentID)
	}
	cp := *intent
	return &cp, nil
}

func (g *fakeGateway) CreateRefund(ctx context.Context, in RefundInput) (*Refund, error) {
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	intent, ok := g.intents[in.IntentID]
	if !ok {
		return nil, fmt.Errorf("no such intent: %s", in.IntentID)
	}
	g.refunds = append(g.refunds, in)
	return &Refund{
		ID:       "re_" + in.IntentID,
		Amount:   intent.Amount,
		Currency: intent.Currency,
	}, nil
}

func (g *fakeGateway) succeed(intentID string) {
	if intent, ok := g.intents[intentID]; ok {
		intent.Status = IntentSucceeded
	}
}

// fakeBookingRepo is an in-memory BookingRepository.
type fakeBookingRepo struct {
	bookings map[string]*models.Booking
	order    []string
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) Create(b *models.Booking) error {
	cp := *b
	r.bookings[b.ID] = &cp
	r.order = append(r.order, b.ID)
	return nil
}

func (r *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) FindActiveOverlap(stationID string, slotNumber int, start, end time.Time) (*models.Booking, error) {
	for _, id := range r.order {
		b := r.bookings[id]
		if b.Station == stationID && b.SlotNumber == slotNumber && b.IsActive() && b.Overlaps(start, end) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) ListActiveOverlapping(stationID string, start, end time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, id := range r.order {
		b := r.bookings[id]
		if b.Station == stationID && b.IsActive() && b.Overlaps(start, end) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountActiveByStation(stationID string) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if b.Station == stationID && b.IsActive() {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) CountActivePaidByStation(stationID string) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if b.Station == stationID && b.IsActive() && b.PaymentStatus == models.PaymentStatusCompleted {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) ListByUser(userID string, f bookingRepo.Filter) ([]models.Booking, int64, error) {
	var out []models.Booking
	for _, id := range r.order {
		b := r.bookings[id]
		if b.User == userID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) ListByStations(stationIDs []string, f bookingRepo.Filter) ([]models.Booking, int64, error) {
	ids := make(map[string]bool, len(stationIDs))
	for _, id := range stationIDs {
		ids[id] = true
	}
	var out []models.Booking
	for _, id := range r.order {
		b := r.bookings[id]
		if !ids[b.Station] {
			continue
		}
		if f.PaymentStatus != "" && b.PaymentStatus != f.PaymentStatus {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) set(id string, fn func(*models.Booking)) error {
	b, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s not found", id)
	}
	fn(b)
	b.UpdatedAt = time.Now()
	return nil
}

func (r *fakeBookingRepo) SetStatus(id, status string) error {
	return r.set(id, func(b *models.Booking) { b.Status = status })
}

func (r *fakeBookingRepo) SetPaymentStatus(id, status string) error {
	return r.set(id, func(b *models.Booking) { b.PaymentStatus = status })
}

func (r *fakeBookingRepo) SetPaymentIntent(id, intentID string) error {
	return r.set(id, func(b *models.Booking) { b.PaymentIntentID = intentID })
}

func (r *fakeBookingRepo) SetReview(id string, rating int, review string) error {
	return r.set(id, func(b *models.Booking) {
		b.Rating = rating
		b.Review = review
	})
}

func (r *fakeBookingRepo) StationStats(stationID string) (*models.StationStats, error) {
	return &models.StationStats{}, nil
}

func (r *fakeBookingRepo) RevenueByStation(stationID string) (*models.RevenueStats, error) {
	stats := &models.RevenueStats{}
	for _, b := range r.bookings {
		if b.Station == stationID && b.PaymentStatus == models.PaymentStatusCompleted {
			stats.TotalRevenue += b.TotalAmount
			stats.TotalBookings++
		}
	}
	return stats, nil
}

// fakeStationRepo is an in-memory StationRepository.
type fakeStationRepo struct {
	stations map[string]*models.ChargingStation
}

func newFakeStationRepo() *fakeStationRepo {
	return &fakeStationRepo{stations: make(map[string]*models.ChargingStation)}
}

func (r *fakeStationRepo) add(st *models.ChargingStation) {
	cp := *st
	r.stations[st.ID] = &cp
}

func (r *fakeStationRepo) Create(st *models.ChargingStation) error {
	r.add(st)
	return nil
}

func (r *fakeStationRepo) GetByID(id string) (*models.ChargingStation, error) {
	st, ok := r.stations[id]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (r *fakeStationRepo) ListActive(geo *stationRepo.GeoFilter) ([]models.ChargingStation, error) {
	var out []models.ChargingStation
	for _, st := range r.stations {
		if st.IsActive {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (r *fakeStationRepo) ListByOwner(ownerID string) ([]models.ChargingStation, error) {
	var out []models.ChargingStation
	for _, st := range r.stations {
		if st.Owner == ownerID {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (r *fakeStationRepo) IDsByOwner(ownerID string) ([]string, error) {
	var out []string
	for id, st := range r.stations {
		if st.Owner == ownerID {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *fakeStationRepo) Update(id string, upd stationRepo.StationUpdate) (*models.ChargingStation, error) {
	st, ok := r.stations[id]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (r *fakeStationRepo) Delete(id string) error {
	delete(r.stations, id)
	return nil
}

func (r *fakeStationRepo) AddBlockedSlot(id string, blocked models.BlockedSlot) error {
	st, ok := r.stations[id]
	if !ok {
		return fmt.Errorf("station %s not found", id)
	}
	st.BlockedSlots = append(st.BlockedSlots, blocked)
	return nil
}

func (r *fakeStationRepo) DecrementAvailableSlots(id string) error {
	st, ok := r.stations[id]
	if !ok {
		return fmt.Errorf("station %s not found", id)
	}
	if st.AvailableSlots > 0 {
		st.AvailableSlots--
	}
	return nil
}

func (r *fakeStationRepo) IncrementAvailableSlots(id string) error {
	st, ok := r.stations[id]
	if !ok {
		return fmt.Errorf("station %s not found", id)
	}
	if st.AvailableSlots < st.TotalSlots {
		st.AvailableSlots++
	}
	return nil
}

func (r *fakeStationRepo) SetAvailableSlots(id string, value int) error {
	st, ok := r.stations[id]
	if !ok {
		return fmt.Errorf("station %s not found", id)
	}
	st.AvailableSlots = value
	return nil
}
