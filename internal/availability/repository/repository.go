package repository

import (
	"context"
	"fmt"

	"bookable/pkg/config"
	"bookable/pkg/model"
)

// WindowRepository stores a host's recurring weekly availability.
// There is deliberately no update operation: windows are replaced by
// delete + recreate.
type WindowRepository interface {
	Create(ctx context.Context, window *model.AvailabilityWindow) error
	FindByHost(ctx context.Context, hostID string) ([]*model.AvailabilityWindow, error)
	FindActiveByHostAndDay(ctx context.Context, hostID string, dayOfWeek int) ([]*model.AvailabilityWindow, error)
	Delete(ctx context.Context, windowID, hostID string) error
}

func New(cfg *config.Config) (WindowRepository, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		return NewMongoWindowRepository(cfg), nil
	case config.BackendFile:
		return NewFileWindowRepository(cfg)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}
