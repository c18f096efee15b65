package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	hostserrors "bookable/internal/hosts/errors"
	hostsrepo "bookable/internal/hosts/repository"
	meetingsrepo "bookable/internal/meetings/repository"
	windowsrepo "bookable/internal/availability/repository"
	"bookable/pkg/config"
	apperrors "bookable/pkg/errors"
	"bookable/pkg/model"
)

// SlotService derives the bookable slots of a host for one calendar
// date. The result is stateless: for a fixed clock, windows and
// meetings, repeated calls return identical output.
type SlotService interface {
	DaySchedule(ctx context.Context, hostID string, date time.Time, loc *time.Location) (*model.DaySchedule, error)
}

type slotService struct {
	hosts    hostsrepo.HostRepository
	windows  windowsrepo.WindowRepository
	meetings meetingsrepo.MeetingRepository
	cfg      *config.Config
	now      func() time.Time
}

func NewSlotService(
	hosts hostsrepo.HostRepository,
	windows windowsrepo.WindowRepository,
	meetings meetingsrepo.MeetingRepository,
	cfg *config.Config,
) SlotService {
	return &slotService{
		hosts:    hosts,
		windows:  windows,
		meetings: meetings,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *slotService) DaySchedule(ctx context.Context, hostID string, date time.Time, loc *time.Location) (*model.DaySchedule, error) {
	host, err := s.hosts.FindByID(ctx, hostID)
	if err != nil {
		if errors.Is(err, hostserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Host", hostID)
		}
		return nil, apperrors.Internal("Failed to resolve host", err)
	}
	if !host.SchedulingEnabled {
		return nil, apperrors.NotBookable(hostID)
	}

	dayOfWeek := int(date.Weekday())

	windows, err := s.windows.FindActiveByHostAndDay(ctx, hostID, dayOfWeek)
	if err != nil {
		s.cfg.Log.Error("Failed to load availability windows", "host_id", hostID, "error", err)
		return nil, apperrors.Internal("Failed to load availability", err)
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	booked, err := s.meetings.FindConfirmedInRange(ctx, hostID, dayStart.UTC(), dayEnd.UTC())
	if err != nil {
		s.cfg.Log.Error("Failed to load confirmed meetings", "host_id", hostID, "error", err)
		return nil, apperrors.Internal("Failed to load meetings", err)
	}

	return &model.DaySchedule{
		Date:           dayStart.Format("2006-01-02"),
		DayOfWeek:      dayOfWeek,
		HostName:       host.Name,
		AvailableSlots: generateSlots(windows, booked, dayStart, s.cfg.SlotDuration(), s.now()),
	}, nil
}

type minuteInterval struct {
	start, end int
}

// generateSlots walks the merged union of the day's windows at a fixed
// cadence. Merging first means overlapping windows can neither emit
// duplicate slots nor slots that overlap each other; partial trailing
// intervals that cannot hold a full slot are dropped. Already-booked
// intervals and anything not strictly in the future are excluded.
//
// A cancelled meeting does not re-open its interval here until the row
// is hard-deleted: only confirmed meetings block generation, and slot
// re-opening after cancellation is deliberately out of contract.
func generateSlots(windows []*model.AvailabilityWindow, booked []*model.Meeting, dayStart time.Time, width time.Duration, now time.Time) []model.BookableSlot {
	merged := mergeWindows(windows)
	if len(merged) == 0 {
		return []model.BookableSlot{}
	}

	widthMin := int(width / time.Minute)
	date := dayStart.Format("2006-01-02")

	slots := []model.BookableSlot{}
	for _, iv := range merged {
		for m := iv.start; m+widthMin <= iv.end; m += widthMin {
			slotStart := dayStart.Add(time.Duration(m) * time.Minute)
			slotEnd := slotStart.Add(width)

			if !slotStart.After(now) {
				continue
			}
			if overlapsAny(booked, slotStart, slotEnd) {
				continue
			}

			slots = append(slots, model.BookableSlot{
				Date:      date,
				StartTime: fmt.Sprintf("%02d:%02d", m/60, m%60),
				EndTime:   fmt.Sprintf("%02d:%02d", (m+widthMin)/60, (m+widthMin)%60),
				Datetime:  slotStart.UTC(),
			})
		}
	}

	return slots
}

func mergeWindows(windows []*model.AvailabilityWindow) []minuteInterval {
	intervals := make([]minuteInterval, 0, len(windows))
	for _, w := range windows {
		start, err := parseMinutes(w.StartTime)
		if err != nil {
			continue
		}
		end, err := parseMinutes(w.EndTime)
		if err != nil || start >= end {
			// malformed rows cannot reach storage; skip rather than fail the day
			continue
		}
		intervals = append(intervals, minuteInterval{start: start, end: end})
	}

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].start < intervals[j].start
	})

	merged := intervals[:0:0]
	for _, iv := range intervals {
		if n := len(merged); n > 0 && iv.start <= merged[n-1].end {
			if iv.end > merged[n-1].end {
				merged[n-1].end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

func parseMinutes(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func overlapsAny(meetings []*model.Meeting, start, end time.Time) bool {
	for _, m := range meetings {
		if m.StartTime.Before(end) && m.EndTime.After(start) {
			return true
		}
	}
	return false
}
