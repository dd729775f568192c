package events

import (
	"time"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated             EventType = "user_created"
	EventTicketCreated           EventType = "ticket_created"
	EventTicketAssigned          EventType = "ticket_assigned"
	EventAssignmentStatusChanged EventType = "assignment_status_changed"
	EventTicketsDeleted          EventType = "tickets_deleted"
)

// Event represents a domain event emitted by services. ActorID is the user
// who triggered the change.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID int64  `json:"ticket_id"`
	Name     string `json:"name"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssignmentID int64 `json:"assignment_id"`
	TicketID     int64 `json:"ticket_id"`
	AssigneeID   int64 `json:"assignee_id"`
	AssignerID   int64 `json:"assigner_id"`
}

// AssignmentStatusChangedPayload payload.
type AssignmentStatusChangedPayload struct {
	AssignmentID int64                   `json:"assignment_id"`
	TicketID     int64                   `json:"ticket_id"`
	OldStatus    domain.AssignmentStatus `json:"old_status"`
	NewStatus    domain.AssignmentStatus `json:"new_status"`
}

// TicketsDeletedPayload payload.
type TicketsDeletedPayload struct {
	TicketIDs []int64 `json:"ticket_ids"`
}
