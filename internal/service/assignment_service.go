package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/events"
	"github.com/spec-kit/ticket-tracker/internal/repository"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util"
)

// AssignmentService handles ticket assignment operations. Assignments are
// append-only: each (re)assignment creates a fresh record, and only a
// record's status may change afterwards.
type AssignmentService struct {
	assignments repository.AssignmentRepository
	tickets     repository.TicketRepository
	users       repository.UserRepository
	dispatcher  events.Dispatcher
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	AssignmentRepo repository.AssignmentRepository
	TicketRepo     repository.TicketRepository
	UserRepo       repository.UserRepository
	Dispatcher     events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		assignments: deps.AssignmentRepo,
		tickets:     deps.TicketRepo,
		users:       deps.UserRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// AssignTicket appends a new assignment record linking the ticket, the
// assignee and the acting assigner. Ticket and assignee must exist.
func (s *AssignmentService) AssignTicket(ctx context.Context, assignerID, ticketID, assigneeID int64) (*domain.Assignment, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if _, err := s.users.GetByID(ctx, assigneeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}

	assignment := &domain.Assignment{
		TicketID:   ticketID,
		AssigneeID: assigneeID,
		AssignerID: assignerID,
		Status:     domain.AssignmentStatusAssigned,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTicketAssigned,
		ActorID: assignerID,
		Payload: events.TicketAssignedPayload{
			AssignmentID: assignment.ID,
			TicketID:     ticketID,
			AssigneeID:   assigneeID,
			AssignerID:   assignerID,
		},
	})
	return assignment, nil
}

// UpdateStatus moves an assignment record to a new status. Only the
// assignee of the record may change it.
func (s *AssignmentService) UpdateStatus(ctx context.Context, callerID, assignmentID int64, status domain.AssignmentStatus) (*domain.Assignment, error) {
	if !domain.ValidAssignmentStatus(status) {
		return nil, apperrors.NewValidationError("unknown assignment status", map[string]any{"status": status})
	}
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("assignment", map[string]any{"assignment_id": assignmentID})
		}
		return nil, apperrors.MapError(err)
	}
	if assignment.AssigneeID != callerID {
		return nil, apperrors.NewForbidden("only the assignee may update assignment status")
	}

	oldStatus := assignment.Status
	if err := s.assignments.UpdateStatus(ctx, assignmentID, status); err != nil {
		return nil, apperrors.MapError(err)
	}
	assignment.Status = status

	s.publish(ctx, events.Event{
		Type:    events.EventAssignmentStatusChanged,
		ActorID: callerID,
		Payload: events.AssignmentStatusChangedPayload{
			AssignmentID: assignment.ID,
			TicketID:     assignment.TicketID,
			OldStatus:    oldStatus,
			NewStatus:    status,
		},
	})
	return assignment, nil
}

// ListByTicket returns the full assignment history of a ticket, oldest
// first.
func (s *AssignmentService) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Assignment, error) {
	rows, err := s.assignments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rows, nil
}

func (s *AssignmentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
