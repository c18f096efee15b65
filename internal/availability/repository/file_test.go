package repository

import (
	"context"
	"errors"
	"testing"

	availerrors "bookable/internal/availability/errors"
	"bookable/pkg/config"
	"bookable/pkg/model"
)

func newFileRepo(t *testing.T, dataDir string) WindowRepository {
	t.Helper()
	repo, err := NewFileWindowRepository(&config.Config{DataDir: dataDir})
	if err != nil {
		t.Fatalf("failed to create file repository: %v", err)
	}
	return repo
}

func testWindow(id, hostID string, day int, active bool) *model.AvailabilityWindow {
	return &model.AvailabilityWindow{
		ID:        id,
		HostID:    hostID,
		DayOfWeek: day,
		StartTime: "09:00",
		EndTime:   "17:00",
		Active:    active,
	}
}

func TestFileWindowRepo_FindActiveByHostAndDay(t *testing.T) {
	repo := newFileRepo(t, t.TempDir())
	ctx := context.Background()

	for _, w := range []*model.AvailabilityWindow{
		testWindow("w-1", "host-1", 1, true),
		testWindow("w-2", "host-1", 1, false),
		testWindow("w-3", "host-1", 2, true),
		testWindow("w-4", "host-2", 1, true),
	} {
		if err := repo.Create(ctx, w); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	found, err := repo.FindActiveByHostAndDay(ctx, "host-1", 1)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if len(found) != 1 {
		t.Fatalf("expected 1 active Monday window, got %d", len(found))
	}
	if found[0].ID != "w-1" {
		t.Errorf("expected w-1, got %s", found[0].ID)
	}
}

func TestFileWindowRepo_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo := newFileRepo(t, dir)
	if err := repo.Create(ctx, testWindow("w-1", "host-1", 1, true)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	reopened := newFileRepo(t, dir)
	found, err := reopened.FindByHost(ctx, "host-1")
	if err != nil {
		t.Fatalf("query after reopen failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != "w-1" {
		t.Errorf("expected window to survive reopen, got %+v", found)
	}
}

func TestFileWindowRepo_DeleteScopedToHost(t *testing.T) {
	repo := newFileRepo(t, t.TempDir())
	ctx := context.Background()

	if err := repo.Create(ctx, testWindow("w-1", "host-1", 1, true)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.Delete(ctx, "w-1", "other-host"); !errors.Is(err, availerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign host, got %v", err)
	}

	if err := repo.Delete(ctx, "w-1", "host-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	found, err := repo.FindByHost(ctx, "host-1")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("expected no windows after delete, got %d", len(found))
	}
}
