package booking

import (
	"fmt"
	"time"

	bookingRepo "chargebay/database/repository/booking"
	stationRepo "chargebay/database/repository/station"
	"chargebay/models"
)

// fakeBookingRepo is an in-memory BookingRepository for service tests.
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

func (r *fakeBookingRepo) matches(b *models.Booking, f bookingRepo.Filter) bool {
	if f.Station != "" && b.Station != f.Station {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.PaymentStatus != "" && b.PaymentStatus != f.PaymentStatus {
		return false
	}
	return true
}

func paginate(items []models.Booking, f bookingRepo.Filter) ([]models.Booking, int64) {
	total := int64(len(items))
	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	from := (page - 1) * limit
	if from >= total {
		return []models.Booking{}, total
	}
	to := from + limit
	if to > total {
		to = total
	}
	return items[from:to], total
}

func (r *fakeBookingRepo) ListByUser(userID string, f bookingRepo.Filter) ([]models.Booking, int64, error) {
	var out []models.Booking
	for _, id := range r.order {
		b := r.bookings[id]
		if b.User == userID && r.matches(b, f) {
			out = append(out, *b)
		}
	}
	page, total := paginate(out, f)
	return page, total, nil
}

func (r *fakeBookingRepo) ListByStations(stationIDs []string, f bookingRepo.Filter) ([]models.Booking, int64, error) {
	ids := make(map[string]bool, len(stationIDs))
	for _, id := range stationIDs {
		ids[id] = true
	}
	var out []models.Booking
	for _, id := range r.order {
		b := r.bookings[id]
		if ids[b.Station] && r.matches(b, f) {
			out = append(out, *b)
		}
	}
	page, total := paginate(out, f)
	return page, total, nil
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
	stats := &models.StationStats{}
	for _, b := range r.bookings {
		if b.Station != stationID {
			continue
		}
		stats.TotalBookings++
		if b.Status == models.BookingStatusCompleted {
			stats.CompletedBookings++
		}
		if b.IsActive() {
			stats.ActiveBookings++
		}
		if b.PaymentStatus == models.PaymentStatusCompleted {
			stats.TotalRevenue += b.TotalAmount
		}
	}
	return stats, nil
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

// fakeStationRepo is an in-memory StationRepository for service tests.
type fakeStationRepo struct {
	stations map[string]*models.ChargingStation
	order    []string
}

func newFakeStationRepo() *fakeStationRepo {
	return &fakeStationRepo{stations: make(map[string]*models.ChargingStation)}
}

func (r *fakeStationRepo) add(st *models.ChargingStation) {
	cp := *st
	r.stations[st.ID] = &cp
	r.order = append(r.order, st.ID)
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
	for _, id := range r.order {
		if st := r.stations[id]; st.IsActive {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (r *fakeStationRepo) ListByOwner(ownerID string) ([]models.ChargingStation, error) {
	var out []models.ChargingStation
	for _, id := range r.order {
		if st := r.stations[id]; st.Owner == ownerID {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (r *fakeStationRepo) IDsByOwner(ownerID string) ([]string, error) {
	var out []string
	for _, id := range r.order {
		if r.stations[id].Owner == ownerID {
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
	if upd.Name != nil {
		st.Name = *upd.Name
	}
	if upd.Description != nil {
		st.Description = *upd.Description
	}
	if upd.Address != nil {
		st.Address = *upd.Address
	}
	if upd.Location != nil {
		st.Location = *upd.Location
	}
	if upd.TotalSlots != nil {
		st.TotalSlots = *upd.TotalSlots
	}
	if upd.AvailableSlots != nil {
		st.AvailableSlots = *upd.AvailableSlots
	}
	if upd.ChargingRate != nil {
		st.ChargingRate = *upd.ChargingRate
	}
	if upd.Amenities != nil {
		st.Amenities = upd.Amenities
	}
	if upd.OperatingHours != nil {
		st.OperatingHours = *upd.OperatingHours
	}
	if upd.IsActive != nil {
		st.IsActive = *upd.IsActive
	}
	if upd.Images != nil {
		st.Images = upd.Images
	}
	st.UpdatedAt = time.Now()
	cp := *st
	return &cp, nil
}

func (r *fakeStationRepo) Delete(id string) error {
	delete(r.stations, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
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
