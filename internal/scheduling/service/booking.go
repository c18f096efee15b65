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
	meetingsrepo "bookable/internal/meetings/repository"
	"bookable/internal/scheduling/validator"
	"bookable/pkg/config"
	apperrors "bookable/pkg/errors"
	"bookable/pkg/model"
	"bookable/pkg/sanitizer"
)

// InviteRenderer produces the calendar invite for a freshly confirmed
// meeting. Rendering happens after the write commits, so a renderer
// failure can never lose a booking.
type InviteRenderer interface {
	Invite(meeting *model.Meeting, host *model.Host) string
}

// EventPublisher announces meeting lifecycle changes downstream.
type EventPublisher interface {
	MeetingBooked(ctx context.Context, meeting *model.Meeting)
}

type BookingService interface {
	Book(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error)
}

type bookingService struct {
	hosts     hostsrepo.HostRepository
	meetings  meetingsrepo.MeetingRepository
	slots     SlotService
	validator *validator.BookingValidator
	renderer  InviteRenderer
	publisher EventPublisher
	locks     *hostLocker
	cfg       *config.Config
}

func NewBookingService(
	hosts hostsrepo.HostRepository,
	meetings meetingsrepo.MeetingRepository,
	slots SlotService,
	bookingValidator *validator.BookingValidator,
	renderer InviteRenderer,
	publisher EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		hosts:     hosts,
		meetings:  meetings,
		slots:     slots,
		validator: bookingValidator,
		renderer:  renderer,
		publisher: publisher,
		locks:     newHostLocker(),
		cfg:       cfg,
	}
}

// ResolveLocation maps an optional IANA timezone name to a location,
// falling back to the configured default and then UTC. The schedule
// read path and the booking path must resolve a missing timezone the
// same way, or the instant a client books drifts from the instant it
// was shown.
func ResolveLocation(cfg *config.Config, name string) (*time.Location, error) {
	if name == "" {
		name = cfg.DefaultTimezone
	}
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// Book confirms a public booking. Precondition order is fixed: host
// existence, then the scheduling capability, then slot availability,
// then participant details. The per-host lock plus the storage
// uniqueness constraint together guarantee at most one confirmed
// meeting per (host, start time).
func (s *bookingService) Book(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error) {
	req.ParticipantName = sanitizer.NormalizeName(req.ParticipantName)
	req.ParticipantEmail = sanitizer.NormalizeEmail(req.ParticipantEmail)
	req.Title = sanitizer.NormalizeTitle(req.Title)
	req.Description = sanitizer.TrimAndNormalize(req.Description)

	loc, err := ResolveLocation(s.cfg, req.Timezone)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown timezone: %s", req.Timezone))
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, loc)
	if err != nil {
		return nil, apperrors.InvalidInput("date must be in YYYY-MM-DD format")
	}

	host, err := s.hosts.FindByID(ctx, req.HostID)
	if err != nil {
		if errors.Is(err, hostserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Host", req.HostID)
		}
		return nil, apperrors.Internal("Failed to resolve host", err)
	}
	if !host.SchedulingEnabled {
		return nil, apperrors.NotBookable(req.HostID)
	}

	unlock := s.locks.lock(host.ID)
	defer unlock()

	slot, err := s.findSlot(ctx, req, date, loc)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			s.cfg.Log.Warn("Booking request failed validation",
				"host_id", req.HostID,
				"errors", validationErrs.Error(),
			)
			return nil, apperrors.Validation("Invalid booking request", map[string]any{
				"validation_errors": validationErrs,
			})
		}
		return nil, apperrors.Internal("Validation failed", err)
	}

	meeting := &model.Meeting{
		ID:          uuid.NewString(),
		HostID:      host.ID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   slot.Datetime,
		EndTime:     slot.Datetime.Add(s.cfg.SlotDuration()),
		Status:      model.StatusConfirmed,
		BookerName:  req.ParticipantName,
		BookerEmail: req.ParticipantEmail,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.meetings.Create(ctx, meeting); err != nil {
		if errors.Is(err, meetingserrors.ErrDuplicateSlot) {
			return nil, apperrors.SlotUnavailable("Slot was just booked by someone else")
		}
		s.cfg.Log.Error("Failed to persist meeting",
			"host_id", host.ID,
			"start_time", meeting.StartTime,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create meeting", err)
	}

	s.cfg.Log.Info("Meeting booked",
		"meeting_id", meeting.ID,
		"host_id", host.ID,
		"start_time", meeting.StartTime,
		"participant_email", meeting.BookerEmail,
	)

	s.renderer.Invite(meeting, host)
	s.publisher.MeetingBooked(ctx, meeting)

	return &model.BookingResult{
		Meeting:        meeting,
		ICSDownloadURL: fmt.Sprintf("%s/api/v1/meetings/%s/ics", s.cfg.BaseURL, meeting.ID),
	}, nil
}

// findSlot checks the requested interval against the slots the host
// actually offers on that date. Anything not in the generated set is
// unavailable, whatever the reason.
func (s *bookingService) findSlot(ctx context.Context, req *model.BookingRequest, date time.Time, loc *time.Location) (*model.BookableSlot, error) {
	schedule, err := s.slots.DaySchedule(ctx, req.HostID, date, loc)
	if err != nil {
		return nil, err
	}

	for i := range schedule.AvailableSlots {
		slot := &schedule.AvailableSlots[i]
		if slot.StartTime == req.StartTime && slot.EndTime == req.EndTime {
			return slot, nil
		}
	}

	return nil, apperrors.SlotUnavailable("Requested slot is not available").WithDetails(map[string]any{
		"date":       req.Date,
		"start_time": req.StartTime,
		"end_time":   req.EndTime,
	})
}
