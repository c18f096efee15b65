package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	meetingserrors "bookable/internal/meetings/errors"
	"bookable/internal/scheduling/validator"
	apperrors "bookable/pkg/errors"
	"bookable/pkg/model"
)

type stubRenderer struct {
	mu       sync.Mutex
	rendered []string
}

func (s *stubRenderer) Invite(meeting *model.Meeting, host *model.Host) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rendered = append(s.rendered, meeting.ID)
	return "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"
}

type stubPublisher struct {
	mu     sync.Mutex
	booked []string
}

func (s *stubPublisher) MeetingBooked(ctx context.Context, meeting *model.Meeting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.booked = append(s.booked, meeting.ID)
}

// memMeetingStore simulates the storage uniqueness constraint on
// (host, start time) for confirmed meetings.
type memMeetingStore struct {
	mockMeetingRepository
	mu       sync.Mutex
	meetings []*model.Meeting
}

func (s *memMeetingStore) Create(ctx context.Context, meeting *model.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.meetings {
		if m.HostID == meeting.HostID && m.Status == model.StatusConfirmed && m.StartTime.Equal(meeting.StartTime) {
			return meetingserrors.ErrDuplicateSlot
		}
	}
	s.meetings = append(s.meetings, meeting)
	return nil
}

func (s *memMeetingStore) FindConfirmedInRange(ctx context.Context, hostID string, from, to time.Time) ([]*model.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Meeting
	for _, m := range s.meetings {
		if m.HostID == hostID && m.Status == model.StatusConfirmed && m.StartTime.Before(to) && m.EndTime.After(from) {
			out = append(out, m)
		}
	}
	return out, nil
}

func newTestBookingService(t *testing.T, hosts *mockHostRepository, windows *mockWindowRepository, store *memMeetingStore, now time.Time) (BookingService, *stubRenderer, *stubPublisher) {
	t.Helper()

	cfg := testConfig(t)
	slots := newTestSlotService(hosts, windows, store, now, cfg)
	renderer := &stubRenderer{}
	publisher := &stubPublisher{}

	svc := NewBookingService(
		hosts,
		store,
		slots,
		validator.NewBookingValidator(cfg.Log),
		renderer,
		publisher,
		cfg,
	)
	return svc, renderer, publisher
}

func validBookingRequest(date string) *model.BookingRequest {
	return &model.BookingRequest{
		HostID:           "host-1",
		Date:             date,
		StartTime:        "09:00",
		EndTime:          "09:30",
		ParticipantName:  "Noa Mizrahi",
		ParticipantEmail: "Noa@Example.com",
		Title:            "Intro call",
		Description:      "First conversation",
	}
}

func bookingFixtures() (*mockHostRepository, *mockWindowRepository, time.Time, string) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	hosts := &mockHostRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Host, error) {
			return bookableHost(id), nil
		},
	}
	windows := &mockWindowRepository{
		findActiveByHostAndDayFunc: func(ctx context.Context, hostID string, dayOfWeek int) ([]*model.AvailabilityWindow, error) {
			return []*model.AvailabilityWindow{window(dayOfWeek, "09:00", "10:00")}, nil
		},
	}
	return hosts, windows, date.Add(-24 * time.Hour), date.Format("2006-01-02")
}

func TestBook_Success(t *testing.T) {
	hosts, windows, now, date := bookingFixtures()
	store := &memMeetingStore{}
	svc, renderer, publisher := newTestBookingService(t, hosts, windows, store, now)

	result, err := svc.Book(context.Background(), validBookingRequest(date))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	meeting := result.Meeting
	if meeting.Status != model.StatusConfirmed {
		t.Errorf("expected confirmed status, got %s", meeting.Status)
	}
	if meeting.BookerEmail != "noa@example.com" {
		t.Errorf("expected normalized email, got %q", meeting.BookerEmail)
	}
	expectedStart := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	if !meeting.StartTime.Equal(expectedStart) {
		t.Errorf("expected start %v, got %v", expectedStart, meeting.StartTime)
	}
	if !meeting.EndTime.Equal(expectedStart.Add(30 * time.Minute)) {
		t.Errorf("expected 30-minute meeting, got end %v", meeting.EndTime)
	}

	wantURL := "http://localhost:8080/api/v1/meetings/" + meeting.ID + "/ics"
	if result.ICSDownloadURL != wantURL {
		t.Errorf("expected download URL %q, got %q", wantURL, result.ICSDownloadURL)
	}

	if len(renderer.rendered) != 1 || renderer.rendered[0] != meeting.ID {
		t.Errorf("expected one invite rendered for %s, got %v", meeting.ID, renderer.rendered)
	}
	if len(publisher.booked) != 1 {
		t.Errorf("expected one booked event, got %d", len(publisher.booked))
	}
}

func TestBook_SlotAlreadyTaken(t *testing.T) {
	hosts, windows, now, date := bookingFixtures()
	store := &memMeetingStore{}
	svc, _, _ := newTestBookingService(t, hosts, windows, store, now)

	if _, err := svc.Book(context.Background(), validBookingRequest(date)); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := svc.Book(context.Background(), validBookingRequest(date))
	if err == nil {
		t.Fatal("expected second booking of the same slot to fail")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeSlotUnavailable {
		t.Errorf("expected code %s, got %s", apperrors.CodeSlotUnavailable, appErr.Code)
	}
	if appErr.HTTPStatus != 409 {
		t.Errorf("expected HTTP 409, got %d", appErr.HTTPStatus)
	}
}

func TestBook_StorageRace(t *testing.T) {
	hosts, windows, now, date := bookingFixtures()

	// Slot generation sees an empty day, but the insert loses the race.
	store := &memMeetingStore{}
	raceStore := &mockMeetingRepository{
		createFunc: func(ctx context.Context, meeting *model.Meeting) error {
			return meetingserrors.ErrDuplicateSlot
		},
	}

	cfg := testConfig(t)
	slots := newTestSlotService(hosts, windows, store, now, cfg)
	svc := NewBookingService(hosts, raceStore, slots, validator.NewBookingValidator(cfg.Log), &stubRenderer{}, &stubPublisher{}, cfg)

	_, err := svc.Book(context.Background(), validBookingRequest(date))
	if err == nil {
		t.Fatal("expected race loser to get an error")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeSlotUnavailable {
		t.Errorf("expected code %s, got %s", apperrors.CodeSlotUnavailable, appErr.Code)
	}
}

func TestBook_ConcurrentBookersSingleWinner(t *testing.T) {
	hosts, windows, now, date := bookingFixtures()
	store := &memMeetingStore{}
	svc, renderer, publisher := newTestBookingService(t, hosts, windows, store, now)

	const bookers = 8
	var wg sync.WaitGroup
	results := make(chan error, bookers)

	for i := 0; i < bookers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Book(context.Background(), validBookingRequest(date))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		appErr, ok := err.(*apperrors.AppError)
		if !ok || appErr.Code != apperrors.CodeSlotUnavailable {
			t.Errorf("unexpected error for losing booker: %v", err)
			continue
		}
		conflicts++
	}

	if wins != 1 {
		t.Errorf("expected exactly 1 winning booker, got %d", wins)
	}
	if conflicts != bookers-1 {
		t.Errorf("expected %d conflicts, got %d", bookers-1, conflicts)
	}
	if len(renderer.rendered) != 1 {
		t.Errorf("expected exactly 1 invite rendered, got %d", len(renderer.rendered))
	}
	if len(publisher.booked) != 1 {
		t.Errorf("expected exactly 1 booked event, got %d", len(publisher.booked))
	}
}

func TestBook_SlotOutsideWindows(t *testing.T) {
	hosts, windows, now, date := bookingFixtures()
	svc, _, _ := newTestBookingService(t, hosts, windows, &memMeetingStore{}, now)

	req := validBookingRequest(date)
	req.StartTime = "14:00"
	req.EndTime = "14:30"

	_, err := svc.Book(context.Background(), req)
	if err == nil {
		t.Fatal("expected booking outside availability to fail")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeSlotUnavailable {
		t.Errorf("expected code %s, got %s", apperrors.CodeSlotUnavailable, appErr.Code)
	}
}

func TestBook_InvalidParticipant(t *testing.T) {
	hosts, windows, now, date := bookingFixtures()
	svc, renderer, _ := newTestBookingService(t, hosts, windows, &memMeetingStore{}, now)

	req := validBookingRequest(date)
	req.ParticipantEmail = "not-an-email"

	_, err := svc.Book(context.Background(), req)
	if err == nil {
		t.Fatal("expected validation error")
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
	if len(renderer.rendered) != 0 {
		t.Error("no invite should be rendered for a rejected booking")
	}
}

func TestBook_UnknownTimezone(t *testing.T) {
	hosts, windows, now, date := bookingFixtures()
	svc, _, _ := newTestBookingService(t, hosts, windows, &memMeetingStore{}, now)

	req := validBookingRequest(date)
	req.Timezone = "Mars/Olympus_Mons"

	_, err := svc.Book(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for unknown timezone")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
	if !strings.Contains(appErr.Message, "Mars/Olympus_Mons") {
		t.Errorf("expected message to name the timezone, got %q", appErr.Message)
	}
}

func TestBook_DefaultTimezoneMatchesDisplayedSchedule(t *testing.T) {
	hosts, windows, _, date := bookingFixtures()

	cfg := testConfig(t)
	cfg.DefaultTimezone = "America/New_York"

	loc, err := ResolveLocation(cfg, "")
	if err != nil {
		t.Fatalf("failed to resolve default timezone: %v", err)
	}
	if loc.String() != "America/New_York" {
		t.Fatalf("expected default timezone fallback, got %v", loc)
	}

	now := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	store := &memMeetingStore{}
	slots := newTestSlotService(hosts, windows, store, now, cfg)
	svc := NewBookingService(hosts, store, slots, validator.NewBookingValidator(cfg.Log), &stubRenderer{}, &stubPublisher{}, cfg)

	// What a client omitting the timezone is shown for that day.
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, loc)
	schedule, err := slots.DaySchedule(context.Background(), "host-1", day, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schedule.AvailableSlots) == 0 {
		t.Fatal("expected slots for the day")
	}
	displayed := schedule.AvailableSlots[0]

	// The same client books that slot, also omitting the timezone.
	result, err := svc.Book(context.Background(), validBookingRequest(date))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Meeting.StartTime.Equal(displayed.Datetime) {
		t.Errorf("booked instant %v differs from displayed instant %v", result.Meeting.StartTime, displayed.Datetime)
	}
	// 09:00 in New York during DST is 13:00 UTC.
	want := time.Date(2026, 9, 7, 13, 0, 0, 0, time.UTC)
	if !result.Meeting.StartTime.Equal(want) {
		t.Errorf("expected booked instant %v, got %v", want, result.Meeting.StartTime)
	}
}

func TestBook_HostNotBookable(t *testing.T) {
	_, windows, now, date := bookingFixtures()
	hosts := &mockHostRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Host, error) {
			host := bookableHost(id)
			host.SchedulingEnabled = false
			return host, nil
		},
	}

	svc, _, _ := newTestBookingService(t, hosts, windows, &memMeetingStore{}, now)

	_, err := svc.Book(context.Background(), validBookingRequest(date))
	if err == nil {
		t.Fatal("expected error for non-bookable host")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeNotBookable {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotBookable, appErr.Code)
	}
}
