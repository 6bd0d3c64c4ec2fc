package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetflow/fleet-api/internal/core/domain"
)

const tripCollection = "trips"

type MongoTripRepository struct {
	coll *mongo.Collection
}

func NewTripRepository(db *mongo.Database) *MongoTripRepository {
	return &MongoTripRepository{coll: db.Collection(tripCollection)}
}

func (r *MongoTripRepository) Create(ctx context.Context, t *domain.Trip) (*domain.Trip, error) {
	if _, err := r.coll.InsertOne(ctx, t); err != nil {
		return nil, fmt.Errorf("insert trip: %w", err)
	}
	return t, nil
}

func (r *MongoTripRepository) FindByID(ctx context.Context, id string) (*domain.Trip, error) {
	var t domain.Trip
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTripNotFound
		}
		return nil, fmt.Errorf("find trip: %w", err)
	}
	return &t, nil
}

func (r *MongoTripRepository) List(ctx context.Context) ([]*domain.Trip, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer cursor.Close(ctx)

	var trips []*domain.Trip
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, fmt.Errorf("decode trips: %w", err)
	}
	return trips, nil
}

// TransitionStatus applies the state change only when the trip is still in
// the expected source state. A concurrent transition that won the race
// leaves no matching document and surfaces as ErrInvalidTripState.
func (r *MongoTripRepository) TransitionStatus(ctx context.Context, id string, from, to domain.TripStatus) (*domain.Trip, error) {
	var updated domain.Trip
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("transition trip: %w", err)
	}

	// Either the trip is gone or its status moved under us.
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, domain.ErrInvalidTripState
}
