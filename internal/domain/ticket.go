package domain

import "time"

// Ticket is a unit of work owned by its creator. Assignment state lives in
// the append-only Assignment history, not on the ticket row itself.
type Ticket struct {
	ID              int64
	Name            string
	Description     string
	FileDescription string
	CreatorID       int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
