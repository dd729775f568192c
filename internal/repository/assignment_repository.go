package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

// AssignmentRepository stores the append-only assignment history.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) error
	GetByID(ctx context.Context, id int64) (*domain.Assignment, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Assignment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AssignmentStatus) error
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository builds repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	const query = `
        INSERT INTO assigned_tickets (ticket_id, assignee_id, assigner_id, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		assignment.TicketID,
		assignment.AssigneeID,
		assignment.AssignerID,
		assignment.Status,
	).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
}

func (r *assignmentRepository) GetByID(ctx context.Context, id int64) (*domain.Assignment, error) {
	const query = `
        SELECT id, ticket_id, assignee_id, assigner_id, status, created_at, updated_at
        FROM assigned_tickets WHERE id=$1`
	var assignment domain.Assignment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&assignment.ID,
		&assignment.TicketID,
		&assignment.AssigneeID,
		&assignment.AssignerID,
		&assignment.Status,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Assignment, error) {
	const query = `
        SELECT id, ticket_id, assignee_id, assigner_id, status, created_at, updated_at
        FROM assigned_tickets WHERE ticket_id=$1
        ORDER BY updated_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Assignment
	for rows.Next() {
		var assignment domain.Assignment
		if err := rows.Scan(
			&assignment.ID,
			&assignment.TicketID,
			&assignment.AssigneeID,
			&assignment.AssignerID,
			&assignment.Status,
			&assignment.CreatedAt,
			&assignment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, assignment)
	}
	return result, rows.Err()
}

// UpdateStatus mutates only status and updated_at; assignment records are
// otherwise immutable.
func (r *assignmentRepository) UpdateStatus(ctx context.Context, id int64, status domain.AssignmentStatus) error {
	const query = `
        UPDATE assigned_tickets SET status=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
