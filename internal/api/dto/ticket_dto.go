package dto

import (
	"time"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	FileDescription string `json:"file_description"`
}

// UpdateTicketRequest payload.
type UpdateTicketRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	FileDescription string `json:"file_description"`
}

// DeleteTicketsRequest payload for bulk deletion.
type DeleteTicketsRequest struct {
	IDs []int64 `json:"ids"`
}

// CheckTicketsExistRequest payload for bulk existence checks.
type CheckTicketsExistRequest struct {
	IDs []int64 `json:"ids"`
}

// TicketResponse is the plain ticket view.
type TicketResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	FileDescription string    `json:"file_description"`
	CreatorID       int64     `json:"creator_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AssignedTicketDetailResponse is the creator's view of a ticket with its
// latest and first assignment identities.
type AssignedTicketDetailResponse struct {
	ID              int64                   `json:"id"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	FileDescription string                  `json:"file_description"`
	CreatorID       int64                   `json:"creator_id"`
	AssigneeID      int64                   `json:"assignee_id"`
	AssigneeName    string                  `json:"assignee_name"`
	AssignerID      int64                   `json:"assigner_id"`
	AssignerName    string                  `json:"assigner_name"`
	FirstAssignID   int64                   `json:"first_assign_id"`
	FirstAssignName string                  `json:"first_assign_name"`
	Status          domain.AssignmentStatus `json:"status"`
	AssignedAt      *time.Time              `json:"assigned_at"`
}

// ReceivedAssignmentResponse is one assignment row for the assignee view.
type ReceivedAssignmentResponse struct {
	AssignmentID    int64                   `json:"assignment_id"`
	TicketID        int64                   `json:"ticket_id"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	FileDescription string                  `json:"file_description"`
	AssignerID      int64                   `json:"assigner_id"`
	AssignerName    string                  `json:"assigner_name"`
	Status          domain.AssignmentStatus `json:"status"`
	AssignedAt      time.Time               `json:"assigned_at"`
}

// IssuedAssignmentResponse is one assignment row for the assigner view.
type IssuedAssignmentResponse struct {
	AssignmentID    int64                   `json:"assignment_id"`
	TicketID        int64                   `json:"ticket_id"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	FileDescription string                  `json:"file_description"`
	AssigneeID      int64                   `json:"assignee_id"`
	AssigneeName    string                  `json:"assignee_name"`
	Status          domain.AssignmentStatus `json:"status"`
	CreatedAt       time.Time               `json:"created_at"`
}

// TicketSearchResultResponse extends the detail view with aggregated name
// lists.
type TicketSearchResultResponse struct {
	AssignedTicketDetailResponse
	AssigneeNames string `json:"assignee_names"`
	AssignerNames string `json:"assigner_names"`
}
