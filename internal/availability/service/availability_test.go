package service

import (
	"context"
	"testing"

	availerrors "bookable/internal/availability/errors"
	"bookable/internal/availability/validator"
	hostserrors "bookable/internal/hosts/errors"
	"bookable/pkg/config"
	apperrors "bookable/pkg/errors"
	"bookable/pkg/logger"
	"bookable/pkg/model"
)

type mockWindowRepository struct {
	createFunc     func(ctx context.Context, window *model.AvailabilityWindow) error
	findByHostFunc func(ctx context.Context, hostID string) ([]*model.AvailabilityWindow, error)
	deleteFunc     func(ctx context.Context, windowID, hostID string) error
}

func (m *mockWindowRepository) Create(ctx context.Context, window *model.AvailabilityWindow) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, window)
	}
	return nil
}

func (m *mockWindowRepository) FindByHost(ctx context.Context, hostID string) ([]*model.AvailabilityWindow, error) {
	if m.findByHostFunc != nil {
		return m.findByHostFunc(ctx, hostID)
	}
	return []*model.AvailabilityWindow{}, nil
}

func (m *mockWindowRepository) FindActiveByHostAndDay(ctx context.Context, hostID string, dayOfWeek int) ([]*model.AvailabilityWindow, error) {
	return []*model.AvailabilityWindow{}, nil
}

func (m *mockWindowRepository) Delete(ctx context.Context, windowID, hostID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, windowID, hostID)
	}
	return nil
}

type mockHostRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Host, error)
}

func (m *mockHostRepository) FindByID(ctx context.Context, id string) (*model.Host, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, hostserrors.ErrNotFound
}

func newTestService(windows *mockWindowRepository, hosts *mockHostRepository) AvailabilityService {
	log := logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Service: "test",
	})
	cfg := &config.Config{Log: log}
	return NewAvailabilityService(windows, hosts, validator.NewWindowValidator(log), cfg)
}

func existingHost(id string) *model.Host {
	return &model.Host{ID: id, Name: "Dana Levy", Email: "dana@example.com", SchedulingEnabled: true}
}

func TestAddWindow_Success(t *testing.T) {
	var created *model.AvailabilityWindow
	windows := &mockWindowRepository{
		createFunc: func(ctx context.Context, window *model.AvailabilityWindow) error {
			created = window
			return nil
		},
	}
	hosts := &mockHostRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Host, error) {
			return existingHost(id), nil
		},
	}

	svc := newTestService(windows, hosts)

	window := &model.AvailabilityWindow{
		HostID:    "host-1",
		DayOfWeek: 1,
		StartTime: "09:00",
		EndTime:   "17:00",
		Active:    true,
	}

	result, err := svc.AddWindow(context.Background(), window)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID == "" {
		t.Error("expected generated window ID")
	}
	if created == nil {
		t.Fatal("expected window to reach the repository")
	}
	if created.ID != result.ID {
		t.Errorf("persisted ID %q does not match returned ID %q", created.ID, result.ID)
	}
}

func TestAddWindow_EndBeforeStart(t *testing.T) {
	windows := &mockWindowRepository{
		createFunc: func(ctx context.Context, window *model.AvailabilityWindow) error {
			t.Error("invalid window must not reach the repository")
			return nil
		},
	}
	hosts := &mockHostRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Host, error) {
			return existingHost(id), nil
		},
	}

	svc := newTestService(windows, hosts)

	window := &model.AvailabilityWindow{
		HostID:    "host-1",
		DayOfWeek: 1,
		StartTime: "10:00",
		EndTime:   "09:00",
		Active:    true,
	}

	_, err := svc.AddWindow(context.Background(), window)
	if err == nil {
		t.Fatal("expected validation error for inverted window")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
	if appErr.HTTPStatus != 422 {
		t.Errorf("expected HTTP 422, got %d", appErr.HTTPStatus)
	}
}

func TestAddWindow_MalformedTime(t *testing.T) {
	hosts := &mockHostRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Host, error) {
			return existingHost(id), nil
		},
	}

	svc := newTestService(&mockWindowRepository{}, hosts)

	window := &model.AvailabilityWindow{
		HostID:    "host-1",
		DayOfWeek: 1,
		StartTime: "9am",
		EndTime:   "17:00",
		Active:    true,
	}

	_, err := svc.AddWindow(context.Background(), window)
	if err == nil {
		t.Fatal("expected validation error for malformed time")
	}
}

func TestAddWindow_UnknownHost(t *testing.T) {
	svc := newTestService(&mockWindowRepository{}, &mockHostRepository{})

	window := &model.AvailabilityWindow{
		HostID:    "missing",
		DayOfWeek: 1,
		StartTime: "09:00",
		EndTime:   "17:00",
		Active:    true,
	}

	_, err := svc.AddWindow(context.Background(), window)
	if err == nil {
		t.Fatal("expected error for unknown host")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestRemoveWindow_ForeignWindowBehavesLikeMissing(t *testing.T) {
	windows := &mockWindowRepository{
		deleteFunc: func(ctx context.Context, windowID, hostID string) error {
			return availerrors.ErrNotFound
		},
	}
	hosts := &mockHostRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Host, error) {
			return existingHost(id), nil
		},
	}

	svc := newTestService(windows, hosts)

	err := svc.RemoveWindow(context.Background(), "w-1", "other-host")
	if err == nil {
		t.Fatal("expected not-found error")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}
