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
	"github.com/fleetflow/fleet-api/internal/core/ports"
)

const driverCollection = "drivers"

type MongoDriverRepository struct {
	coll *mongo.Collection
}

func NewDriverRepository(db *mongo.Database) *MongoDriverRepository {
	return &MongoDriverRepository{coll: db.Collection(driverCollection)}
}

func (r *MongoDriverRepository) FindByID(ctx context.Context, id string) (*domain.Driver, error) {
	var d domain.Driver
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDriverNotFound
		}
		return nil, fmt.Errorf("find driver: %w", err)
	}
	return &d, nil
}

func (r *MongoDriverRepository) List(ctx context.Context) ([]*domain.Driver, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoDriverRepository) ListExpiringLicenses(ctx context.Context, deadline time.Time) ([]*domain.Driver, error) {
	return r.find(ctx, bson.M{"license_expires_at": bson.M{"$lte": deadline}})
}

func (r *MongoDriverRepository) find(ctx context.Context, filter bson.M) ([]*domain.Driver, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	defer cursor.Close(ctx)

	var drivers []*domain.Driver
	if err := cursor.All(ctx, &drivers); err != nil {
		return nil, fmt.Errorf("decode drivers: %w", err)
	}
	return drivers, nil
}

func (r *MongoDriverRepository) Update(ctx context.Context, id string, update ports.DriverUpdate) (*domain.Driver, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.LicenseExpiresAt != nil {
		set["license_expires_at"] = *update.LicenseExpiresAt
	}

	var updated domain.Driver
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDriverNotFound
		}
		return nil, fmt.Errorf("update driver: %w", err)
	}
	return &updated, nil
}
