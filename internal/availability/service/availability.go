package service

import (
	"context"
	"errors"

	availerrors "bookable/internal/availability/errors"
	"bookable/internal/availability/repository"
	"bookable/internal/availability/validator"
	hostserrors "bookable/internal/hosts/errors"
	hostsrepo "bookable/internal/hosts/repository"
	"bookable/pkg/config"
	apperrors "bookable/pkg/errors"
	"bookable/pkg/model"

	"github.com/google/uuid"
)

type AvailabilityService interface {
	AddWindow(ctx context.Context, window *model.AvailabilityWindow) (*model.AvailabilityWindow, error)
	ListWindows(ctx context.Context, hostID string) ([]*model.AvailabilityWindow, error)
	RemoveWindow(ctx context.Context, windowID, hostID string) error
}

type availabilityService struct {
	windows   repository.WindowRepository
	hosts     hostsrepo.HostRepository
	validator *validator.WindowValidator
	cfg       *config.Config
}

func NewAvailabilityService(
	windows repository.WindowRepository,
	hosts hostsrepo.HostRepository,
	windowValidator *validator.WindowValidator,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		windows:   windows,
		hosts:     hosts,
		validator: windowValidator,
		cfg:       cfg,
	}
}

func (s *availabilityService) AddWindow(ctx context.Context, window *model.AvailabilityWindow) (*model.AvailabilityWindow, error) {
	if err := s.validator.Validate(window); err != nil {
		s.cfg.Log.Warn("Availability window validation failed", "host_id", window.HostID, "error", err)
		return nil, apperrors.Validation("Invalid availability window", map[string]any{"error": err.Error()})
	}

	if _, err := s.hosts.FindByID(ctx, window.HostID); err != nil {
		if errors.Is(err, hostserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Host", window.HostID)
		}
		return nil, apperrors.Internal("Failed to resolve host", err)
	}

	window.ID = uuid.NewString()
	if err := s.windows.Create(ctx, window); err != nil {
		s.cfg.Log.Error("Failed to create availability window", "host_id", window.HostID, "error", err)
		return nil, apperrors.Internal("Failed to create availability window", err)
	}

	s.cfg.Log.Info("Availability window created",
		"id", window.ID,
		"host_id", window.HostID,
		"day_of_week", window.DayOfWeek,
		"start_time", window.StartTime,
		"end_time", window.EndTime,
	)
	return window, nil
}

func (s *availabilityService) ListWindows(ctx context.Context, hostID string) ([]*model.AvailabilityWindow, error) {
	if hostID == "" {
		return nil, apperrors.InvalidInput("Host ID cannot be empty")
	}

	if _, err := s.hosts.FindByID(ctx, hostID); err != nil {
		if errors.Is(err, hostserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Host", hostID)
		}
		return nil, apperrors.Internal("Failed to resolve host", err)
	}

	windows, err := s.windows.FindByHost(ctx, hostID)
	if err != nil {
		s.cfg.Log.Error("Failed to list availability windows", "host_id", hostID, "error", err)
		return nil, apperrors.Internal("Failed to list availability windows", err)
	}
	return windows, nil
}

func (s *availabilityService) RemoveWindow(ctx context.Context, windowID, hostID string) error {
	if windowID == "" || hostID == "" {
		return apperrors.InvalidInput("Window ID and host ID are required")
	}

	// Delete is scoped to the owning host; a foreign window id behaves
	// exactly like a missing one.
	if err := s.windows.Delete(ctx, windowID, hostID); err != nil {
		if errors.Is(err, availerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Availability window", windowID)
		}
		s.cfg.Log.Error("Failed to delete availability window", "id", windowID, "host_id", hostID, "error", err)
		return apperrors.Internal("Failed to delete availability window", err)
	}

	s.cfg.Log.Info("Availability window deleted", "id", windowID, "host_id", hostID)
	return nil
}
