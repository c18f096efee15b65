// Package events publishes meeting lifecycle events to Kafka. When no
// brokers are configured the service runs with the no-op publisher and
// bookings proceed without an event stream.
package events

import (
	"context"
	"time"

	"bookable/pkg/config"
	"bookable/pkg/kafka"
	"bookable/pkg/logger"
	"bookable/pkg/model"
)

const (
	EventMeetingBooked    = "meeting.booked"
	EventMeetingCancelled = "meeting.cancelled"
	EventMeetingDeleted   = "meeting.deleted"

	source = "bookable"
)

type MeetingEvent struct {
	Event     string    `json:"event"`
	MeetingID string    `json:"meeting_id"`
	HostID    string    `json:"host_id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
}

type Publisher interface {
	MeetingBooked(ctx context.Context, meeting *model.Meeting)
	MeetingCancelled(ctx context.Context, meeting *model.Meeting)
	MeetingDeleted(ctx context.Context, meeting *model.Meeting)
	Close() error
}

// New selects the Kafka publisher when brokers are configured.
func New(cfg *config.Config) (Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, meeting events disabled")
		return NewNop(), nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		return nil, err
	}

	cfg.Log.Info("Meeting event publisher initialized", "topic", cfg.KafkaTopic)
	return &kafkaPublisher{producer: producer, log: cfg.Log}, nil
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func (p *kafkaPublisher) MeetingBooked(ctx context.Context, meeting *model.Meeting) {
	p.publish(ctx, EventMeetingBooked, meeting)
}

func (p *kafkaPublisher) MeetingCancelled(ctx context.Context, meeting *model.Meeting) {
	p.publish(ctx, EventMeetingCancelled, meeting)
}

func (p *kafkaPublisher) MeetingDeleted(ctx context.Context, meeting *model.Meeting) {
	p.publish(ctx, EventMeetingDeleted, meeting)
}

// publish is fire-and-forget: a broker outage must never fail a
// booking that is already committed.
func (p *kafkaPublisher) publish(ctx context.Context, event string, meeting *model.Meeting) {
	msg, err := kafka.NewMessage(meeting.HostID, event, source, MeetingEvent{
		Event:     event,
		MeetingID: meeting.ID,
		HostID:    meeting.HostID,
		Title:     meeting.Title,
		StartTime: meeting.StartTime,
		EndTime:   meeting.EndTime,
		Status:    meeting.Status,
	})
	if err != nil {
		p.log.Error("Failed to encode meeting event", "event", event, "meeting_id", meeting.ID, "error", err)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish meeting event", "event", event, "meeting_id", meeting.ID, "error", err)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NewNop returns a publisher that drops every event.
func NewNop() Publisher {
	return nopPublisher{}
}

type nopPublisher struct{}

func (nopPublisher) MeetingBooked(context.Context, *model.Meeting)    {}
func (nopPublisher) MeetingCancelled(context.Context, *model.Meeting) {}
func (nopPublisher) MeetingDeleted(context.Context, *model.Meeting)   {}
func (nopPublisher) Close() error                                     { return nil }
