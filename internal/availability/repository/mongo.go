package repository

import (
	"context"
	"fmt"
	"time"

	availerrors "bookable/internal/availability/errors"
	"bookable/pkg/config"
	"bookable/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "availability"

type mongoWindowRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoWindowRepository(cfg *config.Config) WindowRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoWindowRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoWindowRepository) Create(ctx context.Context, window *model.AvailabilityWindow) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	window.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, window); err != nil {
		return fmt.Errorf("failed to create availability window: %w", err)
	}
	return nil
}

func (r *mongoWindowRepository) FindByHost(ctx context.Context, hostID string) ([]*model.AvailabilityWindow, error) {
	return r.find(ctx, bson.M{"host_id": hostID})
}

func (r *mongoWindowRepository) FindActiveByHostAndDay(ctx context.Context, hostID string, dayOfWeek int) ([]*model.AvailabilityWindow, error) {
	return r.find(ctx, bson.M{
		"host_id":     hostID,
		"day_of_week": dayOfWeek,
		"active":      true,
	})
}

func (r *mongoWindowRepository) find(ctx context.Context, filter bson.M) ([]*model.AvailabilityWindow, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "day_of_week", Value: 1},
		{Key: "start_time", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find availability windows: %w", err)
	}
	defer cursor.Close(ctx)

	var windows []*model.AvailabilityWindow
	if err = cursor.All(ctx, &windows); err != nil {
		return nil, fmt.Errorf("failed to decode availability windows: %w", err)
	}

	return windows, nil
}

func (r *mongoWindowRepository) Delete(ctx context.Context, windowID, hostID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	// host_id in the filter enforces ownership at the storage layer
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": windowID, "host_id": hostID})
	if err != nil {
		return fmt.Errorf("failed to delete availability window: %w", err)
	}
	if result.DeletedCount == 0 {
		return availerrors.ErrNotFound
	}
	return nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}
	return context.WithTimeout(ctx, timeout)
}
