package model

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Meeting is a scheduled session between a host and (optionally) a
// public participant. Timestamps are stored in UTC.
type Meeting struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	HostID      string    `json:"host_id" bson:"host_id" validate:"required"`
	Title       string    `json:"title" bson:"title" validate:"required,min=2,max=200"`
	Description string    `json:"description,omitempty" bson:"description" validate:"omitempty,max=2000"`
	StartTime   time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status      string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	BookerName  string    `json:"booker_name,omitempty" bson:"booker_name" validate:"omitempty,min=2,max=100"`
	BookerEmail string    `json:"booker_email,omitempty" bson:"booker_email" validate:"omitempty,email"`
	CreatedAt   time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

// BookingRequest is the public booking payload: a slot reference plus
// the participant's contact details.
type BookingRequest struct {
	HostID           string `json:"-" validate:"required"`
	Date             string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime        string `json:"start_time" validate:"required,hhmm"`
	EndTime          string `json:"end_time" validate:"required,hhmm"`
	ParticipantName  string `json:"participant_name" validate:"required,min=2,max=100"`
	ParticipantEmail string `json:"participant_email" validate:"required,email"`
	Title            string `json:"title" validate:"required,min=2,max=200"`
	Description      string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Timezone         string `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

// BookingResult pairs the confirmed meeting with the location of its
// generated calendar invite.
type BookingResult struct {
	Meeting        *Meeting `json:"meeting"`
	ICSDownloadURL string   `json:"ics_download_url"`
}
