package stationRepo

import (
	"context"
	"fmt"
	"time"

	"chargebay/database"
	"chargebay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStationRepo implements StationRepository using MongoDB.
type MongoStationRepo struct {
	coll *mongo.Collection
}

// NewMongoStationRepo creates a new instance of StationRepository using MongoDB.
func NewMongoStationRepo() StationRepository {
	coll := database.DB().Collection("stations")
	repo := &MongoStationRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create station indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new station document.
func (r *MongoStationRepo) Create(station *models.ChargingStation) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, station); err != nil {
		return fmt.Errorf("failed to insert station: %w", err)
	}
	return nil
}

// GetByID retrieves a station by its ID. Returns nil when no station matches.
func (r *MongoStationRepo) GetByID(id string) (*models.ChargingStation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var station models.ChargingStation
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&station); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch station with id %s: %w", id, err)
	}
	return &station, nil
}

// ListActive returns all active stations, optionally narrowed to a radius
// around a point via a $near geo query.
func (r *MongoStationRepo) ListActive(geo *GeoFilter) ([]models.ChargingStation, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{"isActive": true}
	if geo != nil {
		filter["location"] = bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{geo.Longitude, geo.Latitude},
				},
				"$maxDistance": geo.RadiusKm * 1000, // km to meters
			},
		}
	}

	// Blocked-slot calendars are owner-facing; keep listings lean.
	opts := options.Find().SetProjection(bson.M{"blockedSlots": 0})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list active stations: %w", err)
	}
	defer cursor.Close(ctx)

	var stations []models.ChargingStation
	if err := cursor.All(ctx, &stations); err != nil {
		return nil, fmt.Errorf("failed to decode stations: %w", err)
	}
	return stations, nil
}

// ListByOwner returns all stations owned by the given user, newest first.
func (r *MongoStationRepo) ListByOwner(ownerID string) ([]models.ChargingStation, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"owner": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list stations for owner %s: %w", ownerID, err)
	}
	defer cursor.Close(ctx)

	var stations []models.ChargingStation
	if err := cursor.All(ctx, &stations); err != nil {
		return nil, fmt.Errorf("failed to decode stations: %w", err)
	}
	return stations, nil
}

// IDsByOwner returns only the IDs of the stations owned by the given user.
func (r *MongoStationRepo) IDsByOwner(ownerID string) ([]string, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"id": 1})
	cursor, err := r.coll.Find(ctx, bson.M{"owner": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list station ids for owner %s: %w", ownerID, err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode station ids: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// Update applies the non-nil fields of upd and returns the updated document.
func (r *MongoStationRepo) Update(id string, upd StationUpdate) (*models.ChargingStation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.TotalSlots != nil {
		set["totalSlots"] = *upd.TotalSlots
	}
	if upd.AvailableSlots != nil {
		set["availableSlots"] = *upd.AvailableSlots
	}
	if upd.ChargingRate != nil {
		set["chargingRate"] = *upd.ChargingRate
	}
	if upd.Amenities != nil {
		set["amenities"] = upd.Amenities
	}
	if upd.OperatingHours != nil {
		set["operatingHours"] = *upd.OperatingHours
	}
	if upd.IsActive != nil {
		set["isActive"] = *upd.IsActive
	}
	if upd.Images != nil {
		set["images"] = upd.Images
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var station models.ChargingStation
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&station)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update station %s: %w", id, err)
	}
	return &station, nil
}

// Delete removes a station document.
func (r *MongoStationRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete station %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("station %s not found", id)
	}
	return nil
}

// AddBlockedSlot appends an owner-declared unavailability window.
func (r *MongoStationRepo) AddBlockedSlot(id string, blocked models.BlockedSlot) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"blockedSlots": blocked},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to block slot on station %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("station %s not found", id)
	}
	return nil
}

// DecrementAvailableSlots atomically decrements the availability counter,
// floored at zero. A counter already at zero leaves the document unchanged.
func (r *MongoStationRepo) DecrementAvailableSlots(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "availableSlots": bson.M{"$gt": 0}}
	update := bson.M{"$inc": bson.M{"availableSlots": -1}}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to decrement available slots for station %s: %w", id, err)
	}
	return nil
}

// IncrementAvailableSlots atomically increments the availability counter,
// capped at totalSlots. A counter already at the cap leaves the document unchanged.
func (r *MongoStationRepo) IncrementAvailableSlots(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"id":    id,
		"$expr": bson.M{"$lt": bson.A{"$availableSlots", "$totalSlots"}},
	}
	update := bson.M{"$inc": bson.M{"availableSlots": 1}}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to increment available slots for station %s: %w", id, err)
	}
	return nil
}

// SetAvailableSlots overwrites the availability counter (reconciliation).
func (r *MongoStationRepo) SetAvailableSlots(id string, value int) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"availableSlots": value, "updatedAt": time.Now()}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to set available slots for station %s: %w", id, err)
	}
	return nil
}
