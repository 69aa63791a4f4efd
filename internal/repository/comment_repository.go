package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-api/internal/domain"
)

// CommentRepository manages ticket comment persistence. Absent rows surface
// as pgx.ErrNoRows.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.TicketComment) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketComment, error)
	UpdateMessage(ctx context.Context, id int64, message string) (*domain.TicketComment, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.TicketComment) error {
	const query = `
        INSERT INTO ticket_comments (ticket_id, author, message)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.Author,
		comment.Message,
	).Scan(&comment.ID, &comment.CreatedAt)
}

// ListByTicket returns the thread newest first.
func (r *commentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketComment, error) {
	const query = `
        SELECT id, ticket_id, author, message, created_at
        FROM ticket_comments WHERE ticket_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketComment
	for rows.Next() {
		var comment domain.TicketComment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.Author,
			&comment.Message,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}

func (r *commentRepository) UpdateMessage(ctx context.Context, id int64, message string) (*domain.TicketComment, error) {
	const query = `
        UPDATE ticket_comments SET message=$1 WHERE id=$2
        RETURNING id, ticket_id, author, message, created_at`
	var comment domain.TicketComment
	if err := r.pool.QueryRow(ctx, query, message, id).Scan(
		&comment.ID,
		&comment.TicketID,
		&comment.Author,
		&comment.Message,
		&comment.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes one comment and returns the parent ticket id.
func (r *commentRepository) Delete(ctx context.Context, id int64) (int64, error) {
	const query = `DELETE FROM ticket_comments WHERE id=$1 RETURNING ticket_id`
	var ticketID int64
	if err := r.pool.QueryRow(ctx, query, id).Scan(&ticketID); err != nil {
		return 0, err
	}
	return ticketID, nil
}
