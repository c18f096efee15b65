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

	meetingserrors "bookable/internal/meetings/errors"
	"bookable/pkg/config"
	"bookable/pkg/model"
)

const meetingsFile = "meetings.json"

type fileMeetingRepository struct {
	path     string
	mu       sync.Mutex
	meetings []*model.Meeting
}

func NewFileMeetingRepository(cfg *config.Config) (MeetingRepository, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	r := &fileMeetingRepository{path: filepath.Join(cfg.DataDir, meetingsFile)}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *fileMeetingRepository) load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		r.meetings = []*model.Meeting{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read meetings file: %w", err)
	}
	if err := json.Unmarshal(data, &r.meetings); err != nil {
		return fmt.Errorf("failed to decode meetings file: %w", err)
	}
	return nil
}

func (r *fileMeetingRepository) save() error {
	data, err := json.MarshalIndent(r.meetings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode meetings file: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write meetings file: %w", err)
	}
	return os.Rename(tmp, r.path)
}

// EnsureIndexes is a no-op: uniqueness is checked inside Create under
// the repository mutex.
func (r *fileMeetingRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

func (r *fileMeetingRepository) Create(ctx context.Context, meeting *model.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if meeting.Status == model.StatusConfirmed {
		for _, m := range r.meetings {
			if m.HostID == meeting.HostID &&
				m.Status == model.StatusConfirmed &&
				m.StartTime.Equal(meeting.StartTime) {
				return meetingserrors.ErrDuplicateSlot
			}
		}
	}

	meeting.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	copied := *meeting
	r.meetings = append(r.meetings, &copied)

	if err := r.save(); err != nil {
		r.meetings = r.meetings[:len(r.meetings)-1]
		return err
	}
	return nil
}

func (r *fileMeetingRepository) FindByID(ctx context.Context, id string) (*model.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.meetings {
		if m.ID == id {
			copied := *m
			return &copied, nil
		}
	}
	return nil, meetingserrors.ErrNotFound
}

func (r *fileMeetingRepository) FindByHost(ctx context.Context, hostID string) ([]*model.Meeting, error) {
	return r.find(ctx, func(m *model.Meeting) bool {
		return m.HostID == hostID
	})
}

func (r *fileMeetingRepository) FindConfirmedInRange(ctx context.Context, hostID string, from, to time.Time) ([]*model.Meeting, error) {
	return r.find(ctx, func(m *model.Meeting) bool {
		return m.HostID == hostID &&
			m.Status == model.StatusConfirmed &&
			m.StartTime.Before(to) &&
			m.EndTime.After(from)
	})
}

func (r *fileMeetingRepository) find(ctx context.Context, match func(*model.Meeting) bool) ([]*model.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Meeting
	for _, m := range r.meetings {
		if match(m) {
			copied := *m
			out = append(out, &copied)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func (r *fileMeetingRepository) UpdateStatus(ctx context.Context, id, hostID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.meetings {
		if m.ID == id && m.HostID == hostID {
			previous := m.Status
			m.Status = status
			if err := r.save(); err != nil {
				m.Status = previous
				return err
			}
			return nil
		}
	}
	return meetingserrors.ErrNotFound
}

func (r *fileMeetingRepository) Delete(ctx context.Context, id, hostID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.meetings {
		if m.ID == id && m.HostID == hostID {
			removed := r.meetings[i]
			r.meetings = append(r.meetings[:i], r.meetings[i+1:]...)
			if err := r.save(); err != nil {
				r.meetings = append(r.meetings[:i], append([]*model.Meeting{removed}, r.meetings[i:]...)...)
				return err
			}
			return nil
		}
	}
	return meetingserrors.ErrNotFound
}
