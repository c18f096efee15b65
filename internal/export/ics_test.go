package export

import (
	"strings"
	"testing"
	"time"

	"bookable/pkg/config"
	"bookable/pkg/logger"
	"bookable/pkg/model"

	ics "github.com/arran4/golang-ical"
)

func testHost() *model.Host {
	return &model.Host{
		ID:                "host-1",
		Name:              "Dana Levy",
		Email:             "dana@example.com",
		SchedulingEnabled: true,
	}
}

func testMeeting(id string, start time.Time) *model.Meeting {
	return &model.Meeting{
		ID:          id,
		HostID:      "host-1",
		Title:       "Intro call",
		Description: "First conversation",
		StartTime:   start,
		EndTime:     start.Add(30 * time.Minute),
		Status:      model.StatusConfirmed,
		BookerName:  "Noa Mizrahi",
		BookerEmail: "noa@example.com",
		CreatedAt:   start.Add(-48 * time.Hour),
	}
}

func newTestRenderer() *Renderer {
	return NewRenderer("bookable.local", "http://localhost:8080", 15*time.Minute)
}

func TestRenderInvite_RoundTrip(t *testing.T) {
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	meeting := testMeeting("6ba7b810-9dad-11d1-80b4-00c04fd430c8", start)

	doc := newTestRenderer().RenderInvite(meeting, testHost())

	cal, err := ics.ParseCalendar(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("rendered invite does not parse: %v", err)
	}

	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	event := events[0]

	wantUID := "6ba7b810-9dad-11d1-80b4-00c04fd430c8@bookable.local"
	if uid := event.GetProperty(ics.ComponentPropertyUniqueId); uid == nil || uid.Value != wantUID {
		t.Errorf("expected UID %q, got %v", wantUID, uid)
	}

	parsedStart, err := event.GetStartAt()
	if err != nil {
		t.Fatalf("failed to read DTSTART: %v", err)
	}
	if !parsedStart.Equal(start) {
		t.Errorf("expected start %v, got %v", start, parsedStart)
	}

	if summary := event.GetProperty(ics.ComponentPropertySummary); summary == nil || summary.Value != "Intro call" {
		t.Errorf("unexpected summary: %v", summary)
	}

	if !strings.Contains(doc, "METHOD:REQUEST") {
		t.Error("invite must carry METHOD:REQUEST")
	}
	if !strings.Contains(doc, "mailto:dana@example.com") {
		t.Error("organizer email missing from invite")
	}
	if !strings.Contains(doc, "noa@example.com") {
		t.Error("attendee email missing from invite")
	}
	if !strings.Contains(doc, "BEGIN:VALARM") || !strings.Contains(doc, "-PT15M") {
		t.Error("expected a 15-minute display reminder")
	}
	if !strings.Contains(doc, "/meet/6ba7b810-9dad-11d1-80b4-00c04fd430c8") {
		t.Error("expected join link in description")
	}
}

func TestRenderInvite_NoAttendeeWithoutBooker(t *testing.T) {
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	meeting := testMeeting("m-1", start)
	meeting.BookerName = ""
	meeting.BookerEmail = ""

	doc := newTestRenderer().RenderInvite(meeting, testHost())

	if strings.Contains(doc, "ATTENDEE") {
		t.Error("host-only meeting must not carry an attendee")
	}
}

func TestRenderHostCalendar_MultipleEvents(t *testing.T) {
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	meetings := []*model.Meeting{
		testMeeting("m-1", start),
		testMeeting("m-2", start.Add(time.Hour)),
	}

	doc := newTestRenderer().RenderHostCalendar(testHost(), meetings)

	cal, err := ics.ParseCalendar(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("rendered calendar does not parse: %v", err)
	}

	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	uids := map[string]bool{}
	for _, event := range events {
		uid := event.GetProperty(ics.ComponentPropertyUniqueId)
		if uid == nil {
			t.Fatal("event missing UID")
		}
		if uids[uid.Value] {
			t.Errorf("duplicate UID %q", uid.Value)
		}
		uids[uid.Value] = true
	}

	if !strings.Contains(doc, "METHOD:PUBLISH") {
		t.Error("host calendar must carry METHOD:PUBLISH")
	}
	if !strings.Contains(doc, "Dana Levy - meetings") {
		t.Error("expected calendar name with the host's name")
	}
}

func TestExporter_CacheServesAndEvicts(t *testing.T) {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Service: "test",
		}),
		BaseURL:         "http://localhost:8080",
		ICSUIDDomain:    "bookable.local",
		ReminderLeadMin: 15,
		ICSCacheDir:     t.TempDir(),
	}

	exporter, err := NewExporter(cfg)
	if err != nil {
		t.Fatalf("failed to build exporter: %v", err)
	}

	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	meeting := testMeeting("m-cache", start)
	host := testHost()

	first := exporter.Invite(meeting, host)

	// A cached invite is served even if the meeting has changed since.
	meeting.Title = "Renamed"
	second := exporter.Invite(meeting, host)
	if first != second {
		t.Error("expected second render to come from cache")
	}

	exporter.Evict(meeting.ID)
	third := exporter.Invite(meeting, host)
	if !strings.Contains(third, "Renamed") {
		t.Error("expected fresh render after eviction")
	}
}
