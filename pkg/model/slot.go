package model

import "time"

// BookableSlot is a fixed-width sub-interval of an availability window
// offered to the public for a specific date. Slots are derived on every
// query and never persisted.
type BookableSlot struct {
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Datetime  time.Time `json:"datetime"`
}

// DaySchedule is the public view of a host's bookable day.
type DaySchedule struct {
	Date           string         `json:"date"`
	DayOfWeek      int            `json:"day_of_week"`
	HostName       string         `json:"host_name"`
	AvailableSlots []BookableSlot `json:"available_slots"`
}
