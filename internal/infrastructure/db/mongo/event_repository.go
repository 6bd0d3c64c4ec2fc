package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetflow/fleet-api/internal/core/domain"
)

const eventCollection = "fleet_events"

type MongoEventRepository struct {
	coll *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *MongoEventRepository {
	return &MongoEventRepository{coll: db.Collection(eventCollection)}
}

func (r *MongoEventRepository) Insert(ctx context.Context, e *domain.FleetEvent) error {
	if _, err := r.coll.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert fleet event: %w", err)
	}
	return nil
}

func (r *MongoEventRepository) ListRecent(ctx context.Context, limit int) ([]*domain.FleetEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list fleet events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*domain.FleetEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode fleet events: %w", err)
	}
	return events, nil
}
