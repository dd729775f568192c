package dto

import (
	"time"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID int64 `json:"assignee_id"`
}

// UpdateAssignmentStatusRequest payload.
type UpdateAssignmentStatusRequest struct {
	Status domain.AssignmentStatus `json:"status"`
}

// AssignmentResponse is the raw assignment record view.
type AssignmentResponse struct {
	ID         int64                   `json:"id"`
	TicketID   int64                   `json:"ticket_id"`
	AssigneeID int64                   `json:"assignee_id"`
	AssignerID int64                   `json:"assigner_id"`
	Status     domain.AssignmentStatus `json:"status"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}
