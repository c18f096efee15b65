package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	hostserrors "bookable/internal/hosts/errors"
	"bookable/pkg/config"
	"bookable/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "hosts"

type mongoHostRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHostRepository(cfg *config.Config) HostRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHostRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoHostRepository) FindByID(ctx context.Context, id string) (*model.Host, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var host model.Host
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&host)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, hostserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find host: %w", err)
	}

	return &host, nil
}

// withTimeout bounds the call without extending a deadline the caller
// already set tighter.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}
	return context.WithTimeout(ctx, timeout)
}
