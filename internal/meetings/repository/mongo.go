package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	meetingserrors "bookable/internal/meetings/errors"
	"bookable/pkg/config"
	"bookable/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "meetings"

type mongoMeetingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoMeetingRepository(cfg *config.Config) MeetingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMeetingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// EnsureIndexes creates the partial unique index that makes
// (host_id, start_time) uniqueness hold for confirmed meetings even
// across multiple server processes.
func (r *mongoMeetingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "host_id", Value: 1},
				{Key: "start_time", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": model.StatusConfirmed}),
		},
		{
			Keys: bson.D{
				{Key: "host_id", Value: 1},
				{Key: "status", Value: 1},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create meeting indexes: %w", err)
	}
	return nil
}

func (r *mongoMeetingRepository) Create(ctx context.Context, meeting *model.Meeting) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	meeting.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, meeting); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return meetingserrors.ErrDuplicateSlot
		}
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

func (r *mongoMeetingRepository) FindByID(ctx context.Context, id string) (*model.Meeting, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var meeting model.Meeting
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&meeting)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, meetingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}

	return &meeting, nil
}

func (r *mongoMeetingRepository) FindByHost(ctx context.Context, hostID string) ([]*model.Meeting, error) {
	return r.find(ctx, bson.M{"host_id": hostID})
}

func (r *mongoMeetingRepository) FindConfirmedInRange(ctx context.Context, hostID string, from, to time.Time) ([]*model.Meeting, error) {
	return r.find(ctx, bson.M{
		"host_id": hostID,
		"status":  model.StatusConfirmed,
		"start_time": bson.M{
			"$lt": to,
		},
		"end_time": bson.M{
			"$gt": from,
		},
	})
}

func (r *mongoMeetingRepository) find(ctx context.Context, filter bson.M) ([]*model.Meeting, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find meetings: %w", err)
	}
	defer cursor.Close(ctx)

	var meetings []*model.Meeting
	if err = cursor.All(ctx, &meetings); err != nil {
		return nil, fmt.Errorf("failed to decode meetings: %w", err)
	}

	return meetings, nil
}

func (r *mongoMeetingRepository) UpdateStatus(ctx context.Context, id, hostID, status string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "host_id": hostID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update meeting status: %w", err)
	}
	if result.MatchedCount == 0 {
		return meetingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoMeetingRepository) Delete(ctx context.Context, id, hostID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "host_id": hostID})
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	if result.DeletedCount == 0 {
		return meetingserrors.ErrNotFound
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
