package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	hostserrors "bookable/internal/hosts/errors"
	hostsrepo "bookable/internal/hosts/repository"
	meetingserrors "bookable/internal/meetings/errors"
	"bookable/internal/meetings/repository"
	"bookable/internal/meetings/validator"
	"bookable/pkg/config"
	apperrors "bookable/pkg/errors"
	"bookable/pkg/model"
	"bookable/pkg/sanitizer"
)

// CalendarExporter renders and caches iCalendar documents for meetings.
type CalendarExporter interface {
	Invite(meeting *model.Meeting, host *model.Host) string
	HostCalendar(host *model.Host, meetings []*model.Meeting) string
	Evict(meetingID string)
}

// EventPublisher announces meeting lifecycle changes downstream.
type EventPublisher interface {
	MeetingBooked(ctx context.Context, meeting *model.Meeting)
	MeetingCancelled(ctx context.Context, meeting *model.Meeting)
	MeetingDeleted(ctx context.Context, meeting *model.Meeting)
}

type MeetingService interface {
	Schedule(ctx context.Context, meeting *model.Meeting) (*model.Meeting, error)
	GetByID(ctx context.Context, id string) (*model.Meeting, error)
	ListByHost(ctx context.Context, hostID string) ([]*model.Meeting, error)
	Cancel(ctx context.Context, id string) (*model.Meeting, error)
	Delete(ctx context.Context, id, hostID string) error
	InviteICS(ctx context.Context, id string) (string, []byte, error)
	HostCalendarICS(ctx context.Context, hostID string) (string, []byte, error)
}

type meetingService struct {
	hosts     hostsrepo.HostRepository
	meetings  repository.MeetingRepository
	validator *validator.MeetingValidator
	exporter  CalendarExporter
	publisher EventPublisher
	cfg       *config.Config
}

func NewMeetingService(
	hosts hostsrepo.HostRepository,
	meetings repository.MeetingRepository,
	meetingValidator *validator.MeetingValidator,
	exporter CalendarExporter,
	publisher EventPublisher,
	cfg *config.Config,
) MeetingService {
	return &meetingService{
		hosts:     hosts,
		meetings:  meetings,
		validator: meetingValidator,
		exporter:  exporter,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Schedule creates a host-initiated meeting directly from timestamps.
// It does not consult availability windows; hosts may place meetings
// anywhere on their own calendar. A missing end time defaults to one
// slot width after the start.
func (s *meetingService) Schedule(ctx context.Context, meeting *model.Meeting) (*model.Meeting, error) {
	host, err := s.resolveHost(ctx, meeting.HostID)
	if err != nil {
		return nil, err
	}

	meeting.Title = sanitizer.NormalizeTitle(meeting.Title)
	meeting.Description = sanitizer.TrimAndNormalize(meeting.Description)
	meeting.BookerName = sanitizer.NormalizeName(meeting.BookerName)
	meeting.BookerEmail = sanitizer.NormalizeEmail(meeting.BookerEmail)

	meeting.ID = uuid.NewString()
	meeting.StartTime = meeting.StartTime.UTC()
	if meeting.EndTime.IsZero() {
		meeting.EndTime = meeting.StartTime.Add(s.cfg.SlotDuration())
	} else {
		meeting.EndTime = meeting.EndTime.UTC()
	}
	if meeting.Status == "" {
		meeting.Status = model.StatusConfirmed
	}
	meeting.CreatedAt = time.Now().UTC()

	if err := s.validator.Validate(meeting); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			s.cfg.Log.Warn("Meeting failed validation",
				"host_id", meeting.HostID,
				"errors", validationErrs.Error(),
			)
			return nil, apperrors.Validation("Invalid meeting", map[string]any{
				"validation_errors": validationErrs,
			})
		}
		return nil, apperrors.Internal("Validation failed", err)
	}

	if err := s.meetings.Create(ctx, meeting); err != nil {
		if errors.Is(err, meetingserrors.ErrDuplicateSlot) {
			return nil, apperrors.SlotUnavailable("A confirmed meeting already starts at that time")
		}
		s.cfg.Log.Error("Failed to persist meeting",
			"host_id", meeting.HostID,
			"start_time", meeting.StartTime,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create meeting", err)
	}

	s.cfg.Log.Info("Meeting scheduled",
		"meeting_id", meeting.ID,
		"host_id", meeting.HostID,
		"start_time", meeting.StartTime,
	)

	s.exporter.Invite(meeting, host)
	s.publisher.MeetingBooked(ctx, meeting)

	return meeting, nil
}

func (s *meetingService) GetByID(ctx context.Context, id string) (*model.Meeting, error) {
	meeting, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, meetingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Meeting", id)
		}
		return nil, apperrors.Internal("Failed to load meeting", err)
	}
	return meeting, nil
}

func (s *meetingService) ListByHost(ctx context.Context, hostID string) ([]*model.Meeting, error) {
	if _, err := s.resolveHost(ctx, hostID); err != nil {
		return nil, err
	}

	meetings, err := s.meetings.FindByHost(ctx, hostID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load meetings", err)
	}
	return meetings, nil
}

// Cancel marks a meeting cancelled. The row is kept; its interval does
// not return to the bookable pool until the meeting is deleted.
func (s *meetingService) Cancel(ctx context.Context, id string) (*model.Meeting, error) {
	meeting, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch meeting.Status {
	case model.StatusCancelled:
		return nil, apperrors.InvalidInput("Meeting is already cancelled")
	case model.StatusCompleted:
		return nil, apperrors.InvalidInput("Completed meetings cannot be cancelled")
	}

	if err := s.meetings.UpdateStatus(ctx, id, meeting.HostID, model.StatusCancelled); err != nil {
		if errors.Is(err, meetingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Meeting", id)
		}
		return nil, apperrors.Internal("Failed to cancel meeting", err)
	}
	meeting.Status = model.StatusCancelled

	s.cfg.Log.Info("Meeting cancelled", "meeting_id", id, "host_id", meeting.HostID)

	s.exporter.Evict(id)
	s.publisher.MeetingCancelled(ctx, meeting)

	return meeting, nil
}

// Delete removes the meeting row entirely, which re-opens its interval
// for booking.
func (s *meetingService) Delete(ctx context.Context, id, hostID string) error {
	meeting, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if meeting.HostID != hostID {
		return apperrors.NotFoundWithID("Meeting", id)
	}

	if err := s.meetings.Delete(ctx, id, hostID); err != nil {
		if errors.Is(err, meetingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Meeting", id)
		}
		return apperrors.Internal("Failed to delete meeting", err)
	}

	s.cfg.Log.Info("Meeting deleted", "meeting_id", id, "host_id", hostID)

	s.exporter.Evict(id)
	s.publisher.MeetingDeleted(ctx, meeting)

	return nil
}

// InviteICS returns the download filename and iCalendar body for one
// meeting's invite.
func (s *meetingService) InviteICS(ctx context.Context, id string) (string, []byte, error) {
	meeting, err := s.GetByID(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if meeting.Status == model.StatusCancelled {
		return "", nil, apperrors.NotFoundWithID("Meeting", id)
	}

	host, err := s.resolveHost(ctx, meeting.HostID)
	if err != nil {
		return "", nil, err
	}

	filename := fmt.Sprintf("meeting-%s.ics", meeting.ID)
	return filename, []byte(s.exporter.Invite(meeting, host)), nil
}

// HostCalendarICS renders every non-cancelled meeting of a host into a
// single calendar document.
func (s *meetingService) HostCalendarICS(ctx context.Context, hostID string) (string, []byte, error) {
	host, err := s.resolveHost(ctx, hostID)
	if err != nil {
		return "", nil, err
	}

	all, err := s.meetings.FindByHost(ctx, hostID)
	if err != nil {
		return "", nil, apperrors.Internal("Failed to load meetings", err)
	}

	meetings := make([]*model.Meeting, 0, len(all))
	for _, m := range all {
		if m.Status == model.StatusCancelled {
			continue
		}
		meetings = append(meetings, m)
	}

	filename := fmt.Sprintf("calendar-%s.ics", hostID)
	return filename, []byte(s.exporter.HostCalendar(host, meetings)), nil
}

func (s *meetingService) resolveHost(ctx context.Context, hostID string) (*model.Host, error) {
	host, err := s.hosts.FindByID(ctx, hostID)
	if err != nil {
		if errors.Is(err, hostserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Host", hostID)
		}
		return nil, apperrors.Internal("Failed to resolve host", err)
	}
	return host, nil
}
