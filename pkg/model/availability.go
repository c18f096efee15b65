package model

import "time"

// AvailabilityWindow is a recurring weekly interval during which a host
// can be booked. Times are wall-clock "HH:MM" strings interpreted in
// the caller's timezone at slot-generation time. Windows are never
// updated in place: changes are delete + recreate.
type AvailabilityWindow struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	HostID    string    `json:"host_id" bson:"host_id" validate:"required"`
	DayOfWeek int       `json:"day_of_week" bson:"day_of_week" validate:"gte=0,lte=6"`
	StartTime string    `json:"start_time" bson:"start_time" validate:"required,hhmm"`
	EndTime   string    `json:"end_time" bson:"end_time" validate:"required,hhmm"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}
