// Package appointments persists the booking lifecycle.
package appointments

import "time"

// Appointment statuses.
const (
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

// Appointment is one booked massage slot.
type Appointment struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Service   string    `json:"service"`
	When      string    `json:"scheduled_for"` // canonical "YYYY-MM-DD HH:MM"
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
