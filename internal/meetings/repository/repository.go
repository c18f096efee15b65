package repository

import (
	"context"
	"fmt"
	"time"

	"bookable/pkg/config"
	"bookable/pkg/model"
)

// MeetingRepository stores meetings. Create must refuse a second
// confirmed meeting for the same (host, start time) tuple with
// ErrDuplicateSlot so a racing booker can be rejected cleanly.
type MeetingRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, meeting *model.Meeting) error
	FindByID(ctx context.Context, id string) (*model.Meeting, error)
	FindByHost(ctx context.Context, hostID string) ([]*model.Meeting, error)
	FindConfirmedInRange(ctx context.Context, hostID string, from, to time.Time) ([]*model.Meeting, error)
	UpdateStatus(ctx context.Context, id, hostID, status string) error
	Delete(ctx context.Context, id, hostID string) error
}

func New(cfg *config.Config) (MeetingRepository, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		return NewMongoMeetingRepository(cfg), nil
	case config.BackendFile:
		return NewFileMeetingRepository(cfg)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}
