package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/events"
	"github.com/spec-kit/ticket-tracker/internal/repository"
)

// In-memory fakes implementing the repository contracts. They model the
// store closely enough that the documented query semantics (latest/first
// assignment, dedupe on bulk checks, idempotent delete) can be asserted
// without a database.

type mockUserRepo struct {
	users  map[int64]*domain.User
	nextID int64

	createErr error
	lookupErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.users {
		if existing.Name == user.Name {
			return pgxUniqueViolation("uq_users_name")
		}
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetByName(_ context.Context, name string) (*domain.User, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	for _, user := range m.users {
		if user.Name == name {
			result := *user
			return &result, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	user, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = hash
	return nil
}

type mockTicketRepo struct {
	tickets     map[int64]*domain.Ticket
	assignments []*domain.Assignment
	users       *mockUserRepo
	nextID      int64
}

func newMockTicketRepo(users *mockUserRepo) *mockTicketRepo {
	return &mockTicketRepo{tickets: make(map[int64]*domain.Ticket), users: users}
}

func (m *mockTicketRepo) Add(_ context.Context, ticket *domain.Ticket) (int64, error) {
	m.nextID++
	ticket.ID = m.nextID
	now := time.Now()
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = now
	}
	if ticket.UpdatedAt.IsZero() {
		ticket.UpdatedAt = now
	}
	stored := *ticket
	m.tickets[ticket.ID] = &stored
	return ticket.ID, nil
}

func (m *mockTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := m.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *ticket
	m.tickets[ticket.ID] = &stored
	return nil
}

func (m *mockTicketRepo) DeleteByIDs(_ context.Context, ids []int64) error {
	for _, id := range ids {
		delete(m.tickets, id)
		kept := m.assignments[:0]
		for _, a := range m.assignments {
			if a.TicketID != id {
				kept = append(kept, a)
			}
		}
		m.assignments = kept
	}
	return nil
}

func (m *mockTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	ticket, ok := m.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	result := *ticket
	return &result, nil
}

func (m *mockTicketRepo) ExistAll(_ context.Context, ids []int64) (bool, error) {
	distinct := distinctIDs(ids)
	if len(distinct) == 0 {
		return false, nil
	}
	for _, id := range distinct {
		if _, ok := m.tickets[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func (m *mockTicketRepo) IsCreatorOfAll(_ context.Context, creatorID int64, ids []int64) (bool, error) {
	distinct := distinctIDs(ids)
	if len(distinct) == 0 {
		return false, nil
	}
	for _, id := range distinct {
		ticket, ok := m.tickets[id]
		if !ok || ticket.CreatorID != creatorID {
			return false, nil
		}
	}
	return true, nil
}

func (m *mockTicketRepo) ListByCreator(_ context.Context, creatorID int64) ([]domain.AssignedTicketDetail, error) {
	var result []domain.AssignedTicketDetail
	var ids []int64
	for id, ticket := range m.tickets {
		if ticket.CreatorID == creatorID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		result = append(result, m.detailOf(m.tickets[id]))
	}
	return result, nil
}

func (m *mockTicketRepo) detailOf(ticket *domain.Ticket) domain.AssignedTicketDetail {
	detail := domain.AssignedTicketDetail{
		ID:              ticket.ID,
		Name:            ticket.Name,
		Description:     ticket.Description,
		FileDescription: ticket.FileDescription,
		CreatorID:       ticket.CreatorID,
	}
	history := m.historyOf(ticket.ID)
	if len(history) > 0 {
		last := history[len(history)-1]
		first := history[0]
		detail.AssigneeID = last.AssigneeID
		detail.AssigneeName = m.userName(last.AssigneeID)
		detail.AssignerID = last.AssignerID
		detail.AssignerName = m.userName(last.AssignerID)
		detail.FirstAssignID = first.AssigneeID
		detail.FirstAssignName = m.userName(first.AssigneeID)
		detail.Status = last.Status
		at := last.UpdatedAt
		detail.AssignedAt = &at
	}
	return detail
}

func (m *mockTicketRepo) ListAssignedTo(_ context.Context, userID int64) ([]domain.ReceivedAssignment, error) {
	var result []domain.ReceivedAssignment
	for _, a := range m.assignments {
		if a.AssigneeID != userID {
			continue
		}
		ticket := m.tickets[a.TicketID]
		result = append(result, domain.ReceivedAssignment{
			AssignmentID:    a.ID,
			TicketID:        ticket.ID,
			Name:            ticket.Name,
			Description:     ticket.Description,
			FileDescription: ticket.FileDescription,
			AssignerID:      a.AssignerID,
			AssignerName:    m.userName(a.AssignerID),
			Status:          a.Status,
			AssignedAt:      a.UpdatedAt,
		})
	}
	return result, nil
}

func (m *mockTicketRepo) ListAssignedBy(_ context.Context, userID int64) ([]domain.IssuedAssignment, error) {
	var result []domain.IssuedAssignment
	for _, a := range m.assignments {
		if a.AssignerID != userID {
			continue
		}
		ticket := m.tickets[a.TicketID]
		result = append(result, domain.IssuedAssignment{
			AssignmentID:    a.ID,
			TicketID:        ticket.ID,
			Name:            ticket.Name,
			Description:     ticket.Description,
			FileDescription: ticket.FileDescription,
			AssigneeID:      a.AssigneeID,
			AssigneeName:    m.userName(a.AssigneeID),
			Status:          a.Status,
			CreatedAt:       ticket.CreatedAt,
		})
	}
	return result, nil
}

// Search mirrors the SQL visibility rule: a ticket is visible to its
// creator and to anyone appearing on any of its assignment records.
func (m *mockTicketRepo) Search(_ context.Context, userID int64, namePattern string) ([]domain.TicketSearchResult, error) {
	var ids []int64
	for id, ticket := range m.tickets {
		if !strings.Contains(strings.ToLower(ticket.Name), strings.ToLower(namePattern)) {
			continue
		}
		if !m.visibleTo(userID, ticket) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var result []domain.TicketSearchResult
	for _, id := range ids {
		ticket := m.tickets[id]
		assignees := make(map[string]struct{})
		assigners := make(map[string]struct{})
		for _, a := range m.historyOf(id) {
			assignees[m.userName(a.AssigneeID)] = struct{}{}
			assigners[m.userName(a.AssignerID)] = struct{}{}
		}
		result = append(result, domain.TicketSearchResult{
			AssignedTicketDetail: m.detailOf(ticket),
			AssigneeNames:        joinSortedNames(assignees),
			AssignerNames:        joinSortedNames(assigners),
		})
	}
	return result, nil
}

func (m *mockTicketRepo) visibleTo(userID int64, ticket *domain.Ticket) bool {
	if ticket.CreatorID == userID {
		return true
	}
	for _, a := range m.assignments {
		if a.TicketID == ticket.ID && (a.AssigneeID == userID || a.AssignerID == userID) {
			return true
		}
	}
	return false
}

// joinSortedNames matches string_agg(DISTINCT name, ', '), which emits
// distinct values in ascending order.
func joinSortedNames(set map[string]struct{}) string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// historyOf returns assignments of a ticket ordered by (UpdatedAt, ID),
// mirroring the tie-break used by the SQL projections.
func (m *mockTicketRepo) historyOf(ticketID int64) []*domain.Assignment {
	var history []*domain.Assignment
	for _, a := range m.assignments {
		if a.TicketID == ticketID {
			history = append(history, a)
		}
	}
	sort.Slice(history, func(i, j int) bool {
		if history[i].UpdatedAt.Equal(history[j].UpdatedAt) {
			return history[i].ID < history[j].ID
		}
		return history[i].UpdatedAt.Before(history[j].UpdatedAt)
	})
	return history
}

func (m *mockTicketRepo) userName(id int64) string {
	if m.users == nil {
		return ""
	}
	user, ok := m.users.users[id]
	if !ok {
		return ""
	}
	return user.Name
}

type mockAssignmentRepo struct {
	tickets *mockTicketRepo
	nextID  int64
}

func newMockAssignmentRepo(tickets *mockTicketRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{tickets: tickets}
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *domain.Assignment) error {
	m.nextID++
	assignment.ID = m.nextID
	stored := *assignment
	m.tickets.assignments = append(m.tickets.assignments, &stored)
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id int64) (*domain.Assignment, error) {
	for _, a := range m.tickets.assignments {
		if a.ID == id {
			result := *a
			return &result, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockAssignmentRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.Assignment, error) {
	var result []domain.Assignment
	for _, a := range m.tickets.historyOf(ticketID) {
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAssignmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AssignmentStatus) error {
	for _, a := range m.tickets.assignments {
		if a.ID == id {
			a.Status = status
			return nil
		}
	}
	return pgx.ErrNoRows
}

type mockResetRepo struct {
	tokens map[string]*repository.PasswordResetToken
	nextID int64
}

func newMockResetRepo() *mockResetRepo {
	return &mockResetRepo{tokens: make(map[string]*repository.PasswordResetToken)}
}

func (m *mockResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	m.nextID++
	token.ID = m.nextID
	stored := *token
	m.tokens[token.Token] = &stored
	return nil
}

func (m *mockResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	token, ok := m.tokens[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	result := *token
	return &result, nil
}

func (m *mockResetRepo) MarkUsed(_ context.Context, id int64) error {
	for _, token := range m.tokens {
		if token.ID == id {
			now := time.Now()
			token.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var matched []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func pgxUniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func distinctIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
