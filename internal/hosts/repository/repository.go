package repository

import (
	"context"
	"fmt"

	"bookable/pkg/config"
	"bookable/pkg/model"
)

// HostRepository resolves hosts by identifier. Hosts are provisioned
// by the account system; this service never writes them.
type HostRepository interface {
	FindByID(ctx context.Context, id string) (*model.Host, error)
}

func New(cfg *config.Config) (HostRepository, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		return NewMongoHostRepository(cfg), nil
	case config.BackendFile:
		return NewFileHostRepository(cfg)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}
