package domain

import "time"

// AssignedTicketDetail is a read-only view of a ticket together with the
// identities on its most recent and first assignment records. Tickets with
// no assignments keep the zero values and a nil AssignedAt.
type AssignedTicketDetail struct {
	ID              int64
	Name            string
	Description     string
	FileDescription string
	CreatorID       int64

	AssigneeID      int64
	AssigneeName    string
	AssignerID      int64
	AssignerName    string
	FirstAssignID   int64
	FirstAssignName string

	Status     AssignmentStatus
	AssignedAt *time.Time
}

// ReceivedAssignment is one assignment record where the caller is the
// assignee, joined with ticket content and the assigner's name. A ticket
// assigned to the same user twice yields two rows.
type ReceivedAssignment struct {
	AssignmentID    int64
	TicketID        int64
	Name            string
	Description     string
	FileDescription string
	AssignerID      int64
	AssignerName    string
	Status          AssignmentStatus
	AssignedAt      time.Time
}

// IssuedAssignment is one assignment record where the caller is the
// assigner, joined with ticket content and the assignee's name.
type IssuedAssignment struct {
	AssignmentID    int64
	TicketID        int64
	Name            string
	Description     string
	FileDescription string
	AssigneeID      int64
	AssigneeName    string
	Status          AssignmentStatus
	CreatedAt       time.Time
}

// TicketSearchResult extends AssignedTicketDetail with the comma-joined
// distinct assignee and assigner name lists across the whole assignment
// history of the ticket.
type TicketSearchResult struct {
	AssignedTicketDetail
	AssigneeNames string
	AssignerNames string
}
