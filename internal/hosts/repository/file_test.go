package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	hostserrors "bookable/internal/hosts/errors"
	"bookable/pkg/config"
)

func TestFileHostRepo_FindByID(t *testing.T) {
	dir := t.TempDir()
	seed := `[
  {"id": "host-1", "name": "Dana Levy", "email": "dana@example.com", "scheduling_enabled": true},
  {"id": "host-2", "name": "Omer Katz", "email": "omer@example.com", "scheduling_enabled": false}
]`
	if err := os.WriteFile(filepath.Join(dir, "hosts.json"), []byte(seed), 0o644); err != nil {
		t.Fatalf("failed to seed hosts file: %v", err)
	}

	repo, err := NewFileHostRepository(&config.Config{DataDir: dir})
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}

	host, err := repo.FindByID(context.Background(), "host-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if host.Name != "Dana Levy" || !host.SchedulingEnabled {
		t.Errorf("unexpected host: %+v", host)
	}

	disabled, err := repo.FindByID(context.Background(), "host-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if disabled.SchedulingEnabled {
		t.Error("expected host-2 to have scheduling disabled")
	}

	if _, err := repo.FindByID(context.Background(), "missing"); !errors.Is(err, hostserrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileHostRepo_SeedsEmptyFile(t *testing.T) {
	dir := t.TempDir()

	repo, err := NewFileHostRepository(&config.Config{DataDir: dir})
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "hosts.json")); err != nil {
		t.Errorf("expected seeded hosts file: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), "anyone"); !errors.Is(err, hostserrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound from empty store, got %v", err)
	}
}

// Edits to the seed file are visible without recreating the repository.
func TestFileHostRepo_PicksUpFileEdits(t *testing.T) {
	dir := t.TempDir()

	repo, err := NewFileHostRepository(&config.Config{DataDir: dir})
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}

	if _, err := repo.FindByID(context.Background(), "host-1"); !errors.Is(err, hostserrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before edit, got %v", err)
	}

	seed := `[{"id": "host-1", "name": "Dana Levy", "email": "dana@example.com", "scheduling_enabled": true}]`
	if err := os.WriteFile(filepath.Join(dir, "hosts.json"), []byte(seed), 0o644); err != nil {
		t.Fatalf("failed to rewrite hosts file: %v", err)
	}

	host, err := repo.FindByID(context.Background(), "host-1")
	if err != nil {
		t.Fatalf("expected edited host to be visible: %v", err)
	}
	if host.Name != "Dana Levy" {
		t.Errorf("unexpected host: %+v", host)
	}
}
