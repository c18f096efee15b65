package export

import (
	"bookable/pkg/config"
	"bookable/pkg/logger"
	"bookable/pkg/model"
)

// Exporter combines the pure renderer with the optional on-disk cache.
type Exporter struct {
	renderer *Renderer
	cache    *Cache // nil when caching is disabled
	log      *logger.Logger
}

func NewExporter(cfg *config.Config) (*Exporter, error) {
	e := &Exporter{
		renderer: NewRenderer(cfg.ICSUIDDomain, cfg.BaseURL, cfg.ReminderLead()),
		log:      cfg.Log,
	}

	if cfg.ICSCacheDir != "" {
		cache, err := NewCache(cfg.ICSCacheDir)
		if err != nil {
			return nil, err
		}
		e.cache = cache
	}

	return e, nil
}

// Invite returns the ICS invite for a meeting, from cache when
// possible. Cache write failures are logged and swallowed: the
// document itself is always produced.
func (e *Exporter) Invite(meeting *model.Meeting, host *model.Host) string {
	if e.cache != nil {
		if doc, ok := e.cache.Get(meeting.ID); ok {
			return doc
		}
	}

	doc := e.renderer.RenderInvite(meeting, host)

	if e.cache != nil {
		if err := e.cache.Put(meeting.ID, doc); err != nil {
			e.log.Warn("Failed to cache invite", "meeting_id", meeting.ID, "error", err)
		}
	}
	return doc
}

func (e *Exporter) HostCalendar(host *model.Host, meetings []*model.Meeting) string {
	return e.renderer.RenderHostCalendar(host, meetings)
}

// Evict drops a meeting's cached invite, used after cancel/delete so a
// stale document is never served again.
func (e *Exporter) Evict(meetingID string) {
	if e.cache != nil {
		e.cache.Delete(meetingID)
	}
}
