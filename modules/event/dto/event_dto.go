package dto

import (
	"time"
)

type CreateEventRequest struct {
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// UpdateEventRequest carries the owner-editable fields; nil means "leave
// unchanged". Status may only toggle between BUSY and SWAPPABLE.
type UpdateEventRequest struct {
	Title     *string    `json:"title,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Status    *string    `json:"status,omitempty"`
}
