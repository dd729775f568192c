package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/events"
	"github.com/spec-kit/ticket-tracker/internal/repository"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util"
)

// TicketService coordinates ticket commands and queries.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Name            string
	Description     string
	FileDescription string
}

// TicketUpdateInput describes ticket update payload.
type TicketUpdateInput struct {
	Name            string
	Description     string
	FileDescription string
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher}
}

// CreateTicket creates a ticket owned by creatorID.
func (s *TicketService) CreateTicket(ctx context.Context, creatorID int64, input TicketCreateInput) (int64, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return 0, apperrors.NewValidationError("name required", nil)
	}

	ticket := &domain.Ticket{
		Name:            name,
		Description:     strings.TrimSpace(input.Description),
		FileDescription: strings.TrimSpace(input.FileDescription),
		CreatorID:       creatorID,
	}
	id, err := s.tickets.Add(ctx, ticket)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:    events.EventTicketCreated,
		ActorID: creatorID,
		Payload: events.TicketCreatedPayload{TicketID: id, Name: ticket.Name},
	})
	return id, nil
}

// GetTicket fetches a ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// UpdateTicket replaces the mutable fields of a ticket. Only the creator
// may update.
func (s *TicketService) UpdateTicket(ctx context.Context, callerID, ticketID int64, input TicketUpdateInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	existing, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	if existing.CreatorID != callerID {
		return apperrors.NewForbidden("only the creator may update a ticket")
	}

	existing.Name = name
	existing.Description = strings.TrimSpace(input.Description)
	existing.FileDescription = strings.TrimSpace(input.FileDescription)
	if err := s.tickets.Update(ctx, existing); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// DeleteTickets bulk-deletes tickets. The caller must be the creator of
// every requested id, otherwise the whole request is rejected and nothing
// is deleted.
func (s *TicketService) DeleteTickets(ctx context.Context, callerID int64, ids []int64) error {
	if len(ids) == 0 {
		return apperrors.NewValidationError("ids required", nil)
	}
	ok, err := s.tickets.IsCreatorOfAll(ctx, callerID, ids)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !ok {
		return apperrors.NewForbidden("caller is not the creator of every ticket")
	}
	if err := s.tickets.DeleteByIDs(ctx, ids); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:    events.EventTicketsDeleted,
		ActorID: callerID,
		Payload: events.TicketsDeletedPayload{TicketIDs: ids},
	})
	return nil
}

// TicketsExist reports whether every distinct id in the set refers to a
// stored ticket. The empty set is vacuously false.
func (s *TicketService) TicketsExist(ctx context.Context, ids []int64) (bool, error) {
	ok, err := s.tickets.ExistAll(ctx, ids)
	if err != nil {
		return false, apperrors.MapError(err)
	}
	return ok, nil
}

// ListCreated returns the assignment detail view for every ticket the
// caller created.
func (s *TicketService) ListCreated(ctx context.Context, callerID int64) ([]domain.AssignedTicketDetail, error) {
	details, err := s.tickets.ListByCreator(ctx, callerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return details, nil
}

// ListAssignedToMe returns every assignment record naming the caller as
// assignee.
func (s *TicketService) ListAssignedToMe(ctx context.Context, callerID int64) ([]domain.ReceivedAssignment, error) {
	rows, err := s.tickets.ListAssignedTo(ctx, callerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rows, nil
}

// ListAssignedByMe returns every assignment record naming the caller as
// assigner.
func (s *TicketService) ListAssignedByMe(ctx context.Context, callerID int64) ([]domain.IssuedAssignment, error) {
	rows, err := s.tickets.ListAssignedBy(ctx, callerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rows, nil
}

// Search finds tickets visible to the caller whose name contains the
// pattern, case insensitively. An empty pattern matches all visible
// tickets.
func (s *TicketService) Search(ctx context.Context, callerID int64, namePattern string) ([]domain.TicketSearchResult, error) {
	rows, err := s.tickets.Search(ctx, callerID, strings.TrimSpace(namePattern))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rows, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
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
