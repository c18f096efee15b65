package model

import "time"

// Host is a licensed user who publishes availability and receives
// bookings. Hosts are provisioned by the account system; this service
// only ever reads them.
type Host struct {
	ID                string    `json:"id" bson:"_id"`
	Name              string    `json:"name" bson:"name"`
	Email             string    `json:"email" bson:"email"`
	SchedulingEnabled bool      `json:"scheduling_enabled" bson:"scheduling_enabled"`
	CreatedAt         time.Time `json:"created_at,omitempty" bson:"created_at"`
}
