package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fleetflow/fleet-api/internal/core/domain"
)

const vehicleCollection = "vehicles"

type MongoVehicleRepository struct {
	coll *mongo.Collection
}

func NewVehicleRepository(db *mongo.Database) *MongoVehicleRepository {
	return &MongoVehicleRepository{coll: db.Collection(vehicleCollection)}
}

func (r *MongoVehicleRepository) Create(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	if _, err := r.coll.InsertOne(ctx, v); err != nil {
		return nil, fmt.Errorf("insert vehicle: %w", err)
	}
	return v, nil
}

func (r *MongoVehicleRepository) FindByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	var v domain.Vehicle
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	return &v, nil
}

func (r *MongoVehicleRepository) List(ctx context.Context) ([]*domain.Vehicle, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoVehicleRepository) ListByStatus(ctx context.Context, status domain.VehicleStatus) ([]*domain.Vehicle, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *MongoVehicleRepository) find(ctx context.Context, filter bson.M) ([]*domain.Vehicle, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer cursor.Close(ctx)

	var vehicles []*domain.Vehicle
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, fmt.Errorf("decode vehicles: %w", err)
	}
	return vehicles, nil
}

// AddMaintenanceLog appends the log and forces in_shop in one atomic update.
func (r *MongoVehicleRepository) AddMaintenanceLog(ctx context.Context, vehicleID string, log domain.MaintenanceLog) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": vehicleID},
		bson.M{
			"$push": bson.M{"maintenance": log},
			"$set":  bson.M{"status": domain.VehicleInShop},
		},
	)
	if err != nil {
		return fmt.Errorf("add maintenance log: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

// CompleteMaintenanceLog matches only while the log is still open, so a
// concurrent completion of the same log cannot be applied twice.
func (r *MongoVehicleRepository) CompleteMaintenanceLog(ctx context.Context, vehicleID, logID string, completedAt time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id":         vehicleID,
			"maintenance": bson.M{"$elemMatch": bson.M{"id": logID, "completed_at": nil}},
		},
		bson.M{"$set": bson.M{
			"maintenance.$.completed_at": completedAt,
			"status":                     domain.VehicleActive,
			"last_service_at":            completedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("complete maintenance log: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// No open log matched; classify the failure precisely.
	vehicle, err := r.FindByID(ctx, vehicleID)
	if err != nil {
		return err
	}
	log, err := vehicle.FindLog(logID)
	if err != nil {
		return err
	}
	if !log.Open() {
		return domain.ErrMaintDone
	}
	return domain.ErrMaintNotFound
}
