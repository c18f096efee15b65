package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	availerrors "bookable/internal/availability/errors"
	"bookable/pkg/config"
	"bookable/pkg/model"
)

const windowsFile = "availability.json"

type fileWindowRepository struct {
	path    string
	mu      sync.RWMutex
	windows []*model.AvailabilityWindow
}

func NewFileWindowRepository(cfg *config.Config) (WindowRepository, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	r := &fileWindowRepository{path: filepath.Join(cfg.DataDir, windowsFile)}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *fileWindowRepository) load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		r.windows = []*model.AvailabilityWindow{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read availability file: %w", err)
	}
	if err := json.Unmarshal(data, &r.windows); err != nil {
		return fmt.Errorf("failed to decode availability file: %w", err)
	}
	return nil
}

// save writes through a temp file so a crash mid-write never leaves a
// truncated store behind.
func (r *fileWindowRepository) save() error {
	data, err := json.MarshalIndent(r.windows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode availability file: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write availability file: %w", err)
	}
	return os.Rename(tmp, r.path)
}

func (r *fileWindowRepository) Create(ctx context.Context, window *model.AvailabilityWindow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	window.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	copied := *window
	r.windows = append(r.windows, &copied)

	if err := r.save(); err != nil {
		r.windows = r.windows[:len(r.windows)-1]
		return err
	}
	return nil
}

func (r *fileWindowRepository) FindByHost(ctx context.Context, hostID string) ([]*model.AvailabilityWindow, error) {
	return r.find(ctx, func(w *model.AvailabilityWindow) bool {
		return w.HostID == hostID
	})
}

func (r *fileWindowRepository) FindActiveByHostAndDay(ctx context.Context, hostID string, dayOfWeek int) ([]*model.AvailabilityWindow, error) {
	return r.find(ctx, func(w *model.AvailabilityWindow) bool {
		return w.HostID == hostID && w.DayOfWeek == dayOfWeek && w.Active
	})
}

func (r *fileWindowRepository) find(ctx context.Context, match func(*model.AvailabilityWindow) bool) ([]*model.AvailabilityWindow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.AvailabilityWindow
	for _, w := range r.windows {
		if match(w) {
			copied := *w
			out = append(out, &copied)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *fileWindowRepository) Delete(ctx context.Context, windowID, hostID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, w := range r.windows {
		if w.ID == windowID && w.HostID == hostID {
			removed := r.windows[i]
			r.windows = append(r.windows[:i], r.windows[i+1:]...)
			if err := r.save(); err != nil {
				r.windows = append(r.windows[:i], append([]*model.AvailabilityWindow{removed}, r.windows[i:]...)...)
				return err
			}
			return nil
		}
	}

	return availerrors.ErrNotFound
}
