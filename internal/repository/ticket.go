package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Fibuc/litrevu/internal/model"
)

type ticketRepository struct {
	db *sqlx.DB
}

func NewTicketRepository(db *sqlx.DB) TicketRepository {
	return &ticketRepository{db: db}
}

// Create inserts a new ticket.
func (r *ticketRepository) Create(ctx context.Context, userID int64, req model.CreateTicketRequest) (*model.Ticket, error) {
	query := `
		INSERT INTO tickets (user_id, title, description, image_url, image_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, title, description, image_url, image_key, time_created
	`

	var ticket model.Ticket
	err := r.db.GetContext(ctx, &ticket, query, userID, req.Title, req.Description, req.ImageURL, req.ImageKey)
	if err != nil {
		return nil, fmt.Errorf("insert ticket: %w", err)
	}

	return &ticket, nil
}

// CreateWithReview inserts a ticket and its first review in one transaction:
// both rows are committed or neither is.
func (r *ticketRepository) CreateWithReview(ctx context.Context, userID int64, t model.CreateTicketRequest, rating int, headline, body string) (*model.Ticket, *model.Review, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	ticketQuery := `
		INSERT INTO tickets (user_id, title, description, image_url, image_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, title, description, image_url, image_key, time_created
	`
	var ticket model.Ticket
	err = tx.GetContext(ctx, &ticket, ticketQuery, userID, t.Title, t.Description, t.ImageURL, t.ImageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("insert ticket: %w", err)
	}

	reviewQuery := `
		INSERT INTO reviews (ticket_id, user_id, rating, headline, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, ticket_id, user_id, rating, headline, body, time_created
	`
	var review model.Review
	err = tx.GetContext(ctx, &review, reviewQuery, ticket.ID, userID, rating, headline, body)
	if err != nil {
		return nil, nil, fmt.Errorf("insert review: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}

	return &ticket, &review, nil
}

// GetByID retrieves a single ticket.
func (r *ticketRepository) GetByID(ctx context.Context, ticketID int64) (*model.Ticket, error) {
	query := `
		SELECT id, user_id, title, description, image_url, image_key, time_created
		FROM tickets
		WHERE id = $1
	`
	var ticket model.Ticket
	err := r.db.GetContext(ctx, &ticket, query, ticketID)
	if err == sql.ErrNoRows {
		return nil, model.ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}

	return &ticket, nil
}

// Update mutates the ticket's owner-held fields. The WHERE clause carries the
// ownership check; zero rows affected is disambiguated into not-found vs not-owner.
func (r *ticketRepository) Update(ctx context.Context, ticketID, userID int64, req model.UpdateTicketRequest) (*model.Ticket, error) {
	query := `
		UPDATE tickets
		SET title = $1, description = $2, image_url = $3, image_key = $4
		WHERE id = $5 AND user_id = $6
		RETURNING id, user_id, title, description, image_url, image_key, time_created
	`

	var ticket model.Ticket
	err := r.db.GetContext(ctx, &ticket, query, req.Title, req.Description, req.ImageURL, req.ImageKey, ticketID, userID)
	if err == sql.ErrNoRows {
		var exists bool
		r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM tickets WHERE id = $1)`, ticketID)
		if exists {
			return nil, model.ErrNotTicketOwner
		}
		return nil, model.ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update ticket: %w", err)
	}

	return &ticket, nil
}

// Delete removes a ticket. Reviews referencing it cascade via the foreign key.
func (r *ticketRepository) Delete(ctx context.Context, ticketID, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = $1 AND user_id = $2`, ticketID, userID)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM tickets WHERE id = $1)`, ticketID)
		if exists {
			return model.ErrNotTicketOwner
		}
		return model.ErrTicketNotFound
	}

	return nil
}

// ListByOwner returns all tickets created by a single user, newest first.
func (r *ticketRepository) ListByOwner(ctx context.Context, userID int64) ([]model.Ticket, error) {
	query := `
		SELECT id, user_id, title, description, image_url, image_key, time_created
		FROM tickets
		WHERE user_id = $1
		ORDER BY time_created DESC
	`
	var tickets []model.Ticket
	err := r.db.SelectContext(ctx, &tickets, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list tickets by owner: %w", err)
	}
	return tickets, nil
}

// ListByOwners returns all tickets created by any of the given users, newest first.
func (r *ticketRepository) ListByOwners(ctx context.Context, ownerIDs []int64) ([]model.Ticket, error) {
	if len(ownerIDs) == 0 {
		return []model.Ticket{}, nil
	}

	query := `
		SELECT id, user_id, title, description, image_url, image_key, time_created
		FROM tickets
		WHERE user_id = ANY($1)
		ORDER BY time_created DESC
	`
	var tickets []model.Ticket
	err := r.db.SelectContext(ctx, &tickets, query, pq.Array(ownerIDs))
	if err != nil {
		return nil, fmt.Errorf("list tickets by owners: %w", err)
	}
	return tickets, nil
}

// Exists checks if a ticket exists.
func (r *ticketRepository) Exists(ctx context.Context, ticketID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM tickets WHERE id = $1)`, ticketID)
	if err != nil {
		return false, fmt.Errorf("check ticket exists: %w", err)
	}
	return exists, nil
}
