package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	hostserrors "bookable/internal/hosts/errors"
	"bookable/pkg/config"
	"bookable/pkg/model"
)

const hostsFile = "hosts.json"

// fileHostRepository reads hosts from a JSON seed file in the data
// directory. The file is re-read on every lookup so an operator can
// edit it without restarting the service.
type fileHostRepository struct {
	path string
	mu   sync.RWMutex
}

func NewFileHostRepository(cfg *config.Config) (HostRepository, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	path := filepath.Join(cfg.DataDir, hostsFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]\n"), 0o644); err != nil {
			return nil, fmt.Errorf("failed to seed hosts file: %w", err)
		}
	}

	return &fileHostRepository{path: path}, nil
}

func (r *fileHostRepository) FindByID(ctx context.Context, id string) (*model.Host, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hosts file: %w", err)
	}

	var hosts []model.Host
	if err := json.Unmarshal(data, &hosts); err != nil {
		return nil, fmt.Errorf("failed to decode hosts file: %w", err)
	}

	for i := range hosts {
		if hosts[i].ID == id {
			return &hosts[i], nil
		}
	}

	return nil, hostserrors.ErrNotFound
}
