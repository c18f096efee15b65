// Package export renders meetings into iCalendar documents: a single
// invite for one meeting, or one aggregate calendar for everything a
// host owns.
package export

import (
	"fmt"
	"time"

	"bookable/pkg/model"

	ics "github.com/arran4/golang-ical"
)

const productID = "-//bookable//meeting scheduler//EN"

// Renderer is pure: output depends only on its configuration and the
// meetings passed in.
type Renderer struct {
	UIDDomain    string
	BaseURL      string
	ReminderLead time.Duration
}

func NewRenderer(uidDomain, baseURL string, reminderLead time.Duration) *Renderer {
	return &Renderer{
		UIDDomain:    uidDomain,
		BaseURL:      baseURL,
		ReminderLead: reminderLead,
	}
}

// RenderInvite produces a REQUEST-method calendar holding the single
// meeting, with the host as organizer and the booker (when present) as
// attendee.
func (r *Renderer) RenderInvite(meeting *model.Meeting, host *model.Host) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)
	cal.SetProductId(productID)

	r.addEvent(cal, meeting, host)

	return cal.Serialize()
}

// RenderHostCalendar produces one PUBLISH-method calendar with a VEVENT
// per meeting, used for "export my calendar".
func (r *Renderer) RenderHostCalendar(host *model.Host, meetings []*model.Meeting) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(fmt.Sprintf("%s - meetings", host.Name))

	for _, meeting := range meetings {
		r.addEvent(cal, meeting, host)
	}

	return cal.Serialize()
}

func (r *Renderer) addEvent(cal *ics.Calendar, meeting *model.Meeting, host *model.Host) {
	event := cal.AddEvent(fmt.Sprintf("%s@%s", meeting.ID, r.UIDDomain))

	now := time.Now().UTC()
	event.SetDtStampTime(now)
	event.SetCreatedTime(meeting.CreatedAt.UTC())
	event.SetStartAt(meeting.StartTime.UTC())
	event.SetEndAt(meeting.EndTime.UTC())
	event.SetSummary(meeting.Title)
	event.SetDescription(r.description(meeting))
	event.SetOrganizer("mailto:"+host.Email, ics.WithCN(host.Name))

	if meeting.BookerEmail != "" {
		event.AddAttendee(meeting.BookerEmail, ics.WithCN(meeting.BookerName), ics.WithRSVP(true))
	}

	if r.ReminderLead > 0 {
		alarm := event.AddAlarm()
		alarm.SetAction(ics.ActionDisplay)
		alarm.SetTrigger(fmt.Sprintf("-PT%dM", int(r.ReminderLead.Minutes())))
		alarm.SetProperty(ics.ComponentPropertyDescription, "Reminder")
	}
}

func (r *Renderer) description(meeting *model.Meeting) string {
	join := fmt.Sprintf("%s/meet/%s", r.BaseURL, meeting.ID)
	if meeting.Description == "" {
		return fmt.Sprintf("Join: %s", join)
	}
	return fmt.Sprintf("%s\n\nJoin: %s", meeting.Description, join)
}
