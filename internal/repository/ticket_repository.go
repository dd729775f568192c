package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

// TicketRepository encapsulates ticket persistence, including the derived
// assignment projections. It performs no validation; callers interpret
// pgx.ErrNoRows and constraint errors.
type TicketRepository interface {
	Add(ctx context.Context, ticket *domain.Ticket) (int64, error)
	Update(ctx context.Context, ticket *domain.Ticket) error
	DeleteByIDs(ctx context.Context, ids []int64) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ExistAll(ctx context.Context, ids []int64) (bool, error)
	IsCreatorOfAll(ctx context.Context, creatorID int64, ids []int64) (bool, error)
	ListByCreator(ctx context.Context, creatorID int64) ([]domain.AssignedTicketDetail, error)
	ListAssignedTo(ctx context.Context, userID int64) ([]domain.ReceivedAssignment, error)
	ListAssignedBy(ctx context.Context, userID int64) ([]domain.IssuedAssignment, error)
	Search(ctx context.Context, userID int64, namePattern string) ([]domain.TicketSearchResult, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Add(ctx context.Context, ticket *domain.Ticket) (int64, error) {
	const query = `
        INSERT INTO tickets (name, description, file_description, creator_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	if err := r.pool.QueryRow(ctx, query,
		ticket.Name,
		ticket.Description,
		ticket.FileDescription,
		ticket.CreatorID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return 0, err
	}
	return ticket.ID, nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET name=$1, description=$2, file_description=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Name,
		ticket.Description,
		ticket.FileDescription,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteByIDs removes the tickets in one statement; assignment records go
// with them through the ON DELETE CASCADE on assigned_tickets. Missing ids
// are ignored, so the operation is idempotent.
func (r *ticketRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	const query = `DELETE FROM tickets WHERE id = ANY($1)`
	_, err := r.pool.Exec(ctx, query, dedupeIDs(ids))
	return err
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, name, description, file_description, creator_id, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Name,
		&ticket.Description,
		&ticket.FileDescription,
		&ticket.CreatorID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ExistAll(ctx context.Context, ids []int64) (bool, error) {
	distinct := dedupeIDs(ids)
	if len(distinct) == 0 {
		return false, nil
	}
	const query = `SELECT COUNT(*) FROM tickets WHERE id = ANY($1)`
	var count int
	if err := r.pool.QueryRow(ctx, query, distinct).Scan(&count); err != nil {
		return false, err
	}
	return count == len(distinct), nil
}

func (r *ticketRepository) IsCreatorOfAll(ctx context.Context, creatorID int64, ids []int64) (bool, error) {
	distinct := dedupeIDs(ids)
	if len(distinct) == 0 {
		return false, nil
	}
	const query = `SELECT COUNT(*) FROM tickets WHERE creator_id=$1 AND id = ANY($2)`
	var count int
	if err := r.pool.QueryRow(ctx, query, creatorID, distinct).Scan(&count); err != nil {
		return false, err
	}
	return count == len(distinct), nil
}

// ListByCreator returns one row per ticket created by creatorID, annotated
// with the latest and first assignment identities. Lateral subqueries order
// by (updated_at, id) so ties resolve deterministically; tickets with no
// assignments keep zero values and a NULL assigned_at.
func (r *ticketRepository) ListByCreator(ctx context.Context, creatorID int64) ([]domain.AssignedTicketDetail, error) {
	const query = `
        SELECT t.id, t.name, t.description, t.file_description, t.creator_id,
               COALESCE(last.assignee_id, 0), COALESCE(ua.name, ''),
               COALESCE(last.assigner_id, 0), COALESCE(ug.name, ''),
               COALESCE(first.assignee_id, 0), COALESCE(uf.name, ''),
               COALESCE(last.status, ''), last.updated_at
        FROM tickets t
        LEFT JOIN LATERAL (
            SELECT assignee_id, assigner_id, status, updated_at
            FROM assigned_tickets WHERE ticket_id = t.id
            ORDER BY updated_at DESC, id DESC LIMIT 1
        ) last ON TRUE
        LEFT JOIN LATERAL (
            SELECT assignee_id
            FROM assigned_tickets WHERE ticket_id = t.id
            ORDER BY updated_at ASC, id ASC LIMIT 1
        ) first ON TRUE
        LEFT JOIN users ua ON ua.id = last.assignee_id
        LEFT JOIN users ug ON ug.id = last.assigner_id
        LEFT JOIN users uf ON uf.id = first.assignee_id
        WHERE t.creator_id = $1
        ORDER BY t.id`

	rows, err := r.pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignedTicketDetails(rows)
}

// ListAssignedTo returns one row per assignment record where userID is the
// assignee; a ticket assigned twice to the same user yields two rows.
func (r *ticketRepository) ListAssignedTo(ctx context.Context, userID int64) ([]domain.ReceivedAssignment, error) {
	const query = `
        SELECT a.id, t.id, t.name, t.description, t.file_description,
               a.assigner_id, u.name, a.status, a.updated_at
        FROM assigned_tickets a
        JOIN tickets t ON t.id = a.ticket_id
        JOIN users u ON u.id = a.assigner_id
        WHERE a.assignee_id = $1
        ORDER BY a.updated_at DESC, a.id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ReceivedAssignment
	for rows.Next() {
		var row domain.ReceivedAssignment
		if err := rows.Scan(
			&row.AssignmentID,
			&row.TicketID,
			&row.Name,
			&row.Description,
			&row.FileDescription,
			&row.AssignerID,
			&row.AssignerName,
			&row.Status,
			&row.AssignedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListAssignedBy is the assigner-side counterpart of ListAssignedTo. The
// timestamp column is the ticket's creation time, not the assignment's.
func (r *ticketRepository) ListAssignedBy(ctx context.Context, userID int64) ([]domain.IssuedAssignment, error) {
	const query = `
        SELECT a.id, t.id, t.name, t.description, t.file_description,
               a.assignee_id, u.name, a.status, t.created_at
        FROM assigned_tickets a
        JOIN tickets t ON t.id = a.ticket_id
        JOIN users u ON u.id = a.assignee_id
        WHERE a.assigner_id = $1
        ORDER BY a.updated_at DESC, a.id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.IssuedAssignment
	for rows.Next() {
		var row domain.IssuedAssignment
		if err := rows.Scan(
			&row.AssignmentID,
			&row.TicketID,
			&row.Name,
			&row.Description,
			&row.FileDescription,
			&row.AssigneeID,
			&row.AssigneeName,
			&row.Status,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Search matches tickets visible to userID (creator, or party to any
// assignment on the ticket) whose name contains namePattern, case
// insensitively. First assignee is ordered by assignment creation time;
// the name lists aggregate distinct names across the whole history.
func (r *ticketRepository) Search(ctx context.Context, userID int64, namePattern string) ([]domain.TicketSearchResult, error) {
	const query = `
        SELECT t.id, t.name, t.description, t.file_description, t.creator_id,
               COALESCE(last.assignee_id, 0), COALESCE(ua.name, ''),
               COALESCE(last.assigner_id, 0), COALESCE(ug.name, ''),
               COALESCE(first.assignee_id, 0), COALESCE(uf.name, ''),
               COALESCE(last.status, ''), last.updated_at,
               COALESCE(names.assignee_names, ''), COALESCE(names.assigner_names, '')
        FROM tickets t
        LEFT JOIN LATERAL (
            SELECT assignee_id, assigner_id, status, updated_at
            FROM assigned_tickets WHERE ticket_id = t.id
            ORDER BY updated_at DESC, id DESC LIMIT 1
        ) last ON TRUE
        LEFT JOIN LATERAL (
            SELECT assignee_id
            FROM assigned_tickets WHERE ticket_id = t.id
            ORDER BY created_at ASC, id ASC LIMIT 1
        ) first ON TRUE
        LEFT JOIN LATERAL (
            SELECT string_agg(DISTINCT ue.name, ', ') AS assignee_names,
                   string_agg(DISTINCT ur.name, ', ') AS assigner_names
            FROM assigned_tickets a
            JOIN users ue ON ue.id = a.assignee_id
            JOIN users ur ON ur.id = a.assigner_id
            WHERE a.ticket_id = t.id
        ) names ON TRUE
        LEFT JOIN users ua ON ua.id = last.assignee_id
        LEFT JOIN users ug ON ug.id = last.assigner_id
        LEFT JOIN users uf ON uf.id = first.assignee_id
        WHERE (t.creator_id = $1 OR EXISTS (
                  SELECT 1 FROM assigned_tickets a
                  WHERE a.ticket_id = t.id AND (a.assignee_id = $1 OR a.assigner_id = $1)))
          AND LOWER(t.name) LIKE $2
        ORDER BY t.id`

	pattern := "%" + strings.ToLower(namePattern) + "%"
	rows, err := r.pool.Query(ctx, query, userID, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketSearchResult
	for rows.Next() {
		var row domain.TicketSearchResult
		if err := rows.Scan(
			&row.ID,
			&row.Name,
			&row.Description,
			&row.FileDescription,
			&row.CreatorID,
			&row.AssigneeID,
			&row.AssigneeName,
			&row.AssignerID,
			&row.AssignerName,
			&row.FirstAssignID,
			&row.FirstAssignName,
			&row.Status,
			&row.AssignedAt,
			&row.AssigneeNames,
			&row.AssignerNames,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanAssignedTicketDetails(rows pgx.Rows) ([]domain.AssignedTicketDetail, error) {
	var result []domain.AssignedTicketDetail
	for rows.Next() {
		var detail domain.AssignedTicketDetail
		if err := rows.Scan(
			&detail.ID,
			&detail.Name,
			&detail.Description,
			&detail.FileDescription,
			&detail.CreatorID,
			&detail.AssigneeID,
			&detail.AssigneeName,
			&detail.AssignerID,
			&detail.AssignerName,
			&detail.FirstAssignID,
			&detail.FirstAssignName,
			&detail.Status,
			&detail.AssignedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, detail)
	}
	return result, rows.Err()
}
