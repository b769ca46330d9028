package bookingRepo

import (
	"fmt"
	"time"

	"chargebay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// activeStatusFilter matches bookings that occupy their slot/time window.
func activeStatusFilter() bson.M {
	return bson.M{"$in": models.ActiveBookingStatuses}
}

// FindActiveOverlap returns one active booking on the given station and slot
// whose [startTime, endTime) window intersects [start, end), using the strict
// overlap test startTime < end AND endTime > start. Returns nil when the slot
// is free of bookings for the window.
func (r *MongoBookingRepo) FindActiveOverlap(stationID string, slotNumber int, start, end time.Time) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"station":    stationID,
		"slotNumber": slotNumber,
		"status":     activeStatusFilter(),
		"startTime":  bson.M{"$lt": end},
		"endTime":    bson.M{"$gt": start},
	}
	var booking models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query overlapping booking: %w", err)
	}
	return &booking, nil
}

// ListActiveOverlapping returns all active bookings on the station, any slot,
// intersecting [start, end).
func (r *MongoBookingRepo) ListActiveOverlapping(stationID string, start, end time.Time) ([]models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"station":   stationID,
		"status":    activeStatusFilter(),
		"startTime": bson.M{"$lt": end},
		"endTime":   bson.M{"$gt": start},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping bookings: %w", err)
	}
	return bookings, nil
}

// CountActiveByStation counts bookings currently occupying slots at a station.
func (r *MongoBookingRepo) CountActiveByStation(stationID string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"station": stationID, "status": activeStatusFilter()}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count active bookings: %w", err)
	}
	return count, nil
}

// CountActivePaidByStation counts active bookings with completed payment.
// The reconciliation worker derives the availableSlots counter from this.
func (r *MongoBookingRepo) CountActivePaidByStation(stationID string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"station":       stationID,
		"status":        activeStatusFilter(),
		"paymentStatus": models.PaymentStatusCompleted,
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count active paid bookings: %w", err)
	}
	return count, nil
}

func (r *MongoBookingRepo) listPaginated(filter bson.M, f Filter) ([]models.Booking, int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, total, nil
}

// ListByUser returns a page of the user's bookings, newest first.
func (r *MongoBookingRepo) ListByUser(userID string, f Filter) ([]models.Booking, int64, error) {
	filter := bson.M{"user": userID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.PaymentStatus != "" {
		filter["paymentStatus"] = f.PaymentStatus
	}
	return r.listPaginated(filter, f)
}

// ListByStations returns a page of bookings across the given stations,
// newest first. A Station filter narrows to one of them.
func (r *MongoBookingRepo) ListByStations(stationIDs []string, f Filter) ([]models.Booking, int64, error) {
	filter := bson.M{"station": bson.M{"$in": stationIDs}}
	if f.Station != "" {
		filter["station"] = f.Station
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.PaymentStatus != "" {
		filter["paymentStatus"] = f.PaymentStatus
	}
	return r.listPaginated(filter, f)
}

// StationStats aggregates booking counts and completed revenue for a station.
func (r *MongoBookingRepo) StationStats(stationID string) (*models.StationStats, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	stats := &models.StationStats{}
	var err error

	if stats.TotalBookings, err = r.coll.CountDocuments(ctx, bson.M{"station": stationID}); err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	if stats.CompletedBookings, err = r.coll.CountDocuments(ctx, bson.M{"station": stationID, "status": models.BookingStatusCompleted}); err != nil {
		return nil, fmt.Errorf("failed to count completed bookings: %w", err)
	}
	if stats.ActiveBookings, err = r.coll.CountDocuments(ctx, bson.M{"station": stationID, "status": activeStatusFilter()}); err != nil {
		return nil, fmt.Errorf("failed to count active bookings: %w", err)
	}

	stats.TotalRevenue, err = r.sumAmounts(bson.M{"station": stationID, "status": models.BookingStatusCompleted})
	if err != nil {
		return nil, err
	}
	monthAgo := time.Now().AddDate(0, -1, 0)
	stats.MonthlyRevenue, err = r.sumAmounts(bson.M{
		"station":   stationID,
		"status":    models.BookingStatusCompleted,
		"createdAt": bson.M{"$gte": monthAgo},
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// RevenueByStation sums completed payments for a station.
func (r *MongoBookingRepo) RevenueByStation(stationID string) (*models.RevenueStats, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"station":       stationID,
			"paymentStatus": models.PaymentStatusCompleted,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"totalRevenue":  bson.M{"$sum": "$totalAmount"},
			"totalBookings": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("revenue aggregation error: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.RevenueStats
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode revenue aggregation: %w", err)
	}
	if len(results) == 0 {
		return &models.RevenueStats{}, nil
	}
	return &results[0], nil
}

func (r *MongoBookingRepo) sumAmounts(match bson.M) (float64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$totalAmount"},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregation error: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed to decode aggregation result: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
