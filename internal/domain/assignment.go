package domain

import "time"

// AssignmentStatus enumerates the lifecycle of a single assignment record.
type AssignmentStatus string

const (
	AssignmentStatusAssigned  AssignmentStatus = "ASSIGNED"
	AssignmentStatusAccepted  AssignmentStatus = "ACCEPTED"
	AssignmentStatusCompleted AssignmentStatus = "COMPLETED"
	AssignmentStatusRejected  AssignmentStatus = "REJECTED"
)

// ValidAssignmentStatus reports whether s is a known status value.
func ValidAssignmentStatus(s AssignmentStatus) bool {
	switch s {
	case AssignmentStatusAssigned, AssignmentStatusAccepted, AssignmentStatusCompleted, AssignmentStatusRejected:
		return true
	}
	return false
}

// Assignment links a ticket, an assignee and an assigner at a point in time.
// Records are append-only: a reassignment creates a new record, and the
// "current" assignment for a ticket is the one with the latest UpdatedAt
// (ties broken by id).
type Assignment struct {
	ID         int64
	TicketID   int64
	AssigneeID int64
	AssignerID int64
	Status     AssignmentStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
