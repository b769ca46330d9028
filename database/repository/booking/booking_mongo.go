package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"chargebay/database"
	"chargebay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	coll := database.DB().Collection("bookings")
	repo := &MongoBookingRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create booking indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(booking *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its ID. Returns nil when no booking matches.
func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) setFields(id string, set bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set["updatedAt"] = time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", id)
	}
	return nil
}

// SetStatus updates the booking lifecycle status.
func (r *MongoBookingRepo) SetStatus(id, status string) error {
	return r.setFields(id, bson.M{"status": status})
}

// SetPaymentStatus updates the payment status.
func (r *MongoBookingRepo) SetPaymentStatus(id, status string) error {
	return r.setFields(id, bson.M{"paymentStatus": status})
}

// SetPaymentIntent stores the external payment intent reference.
func (r *MongoBookingRepo) SetPaymentIntent(id, intentID string) error {
	return r.setFields(id, bson.M{"paymentIntentId": intentID})
}

// SetReview stores the one-shot rating and optional review text.
func (r *MongoBookingRepo) SetReview(id string, rating int, review string) error {
	set := bson.M{"rating": rating}
	if review != "" {
		set["review"] = review
	}
	return r.setFields(id, set)
}
