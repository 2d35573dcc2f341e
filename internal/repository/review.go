package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Fibuc/litrevu/internal/model"
)

type reviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a review for an existing ticket.
func (r *reviewRepository) Create(ctx context.Context, ticketID, userID int64, rating int, headline, body string) (*model.Review, error) {
	query := `
		INSERT INTO reviews (ticket_id, user_id, rating, headline, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, ticket_id, user_id, rating, headline, body, time_created
	`

	var review model.Review
	err := r.db.GetContext(ctx, &review, query, ticketID, userID, rating, headline, body)
	if err != nil {
		// Foreign key violation: the ticket disappeared between check and insert.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, model.ErrTicketNotFound
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}

	return &review, nil
}

// GetByID retrieves a single review.
func (r *reviewRepository) GetByID(ctx context.Context, reviewID int64) (*model.Review, error) {
	query := `
		SELECT id, ticket_id, user_id, rating, headline, body, time_created
		FROM reviews
		WHERE id = $1
	`
	var review model.Review
	err := r.db.GetContext(ctx, &review, query, reviewID)
	if err == sql.ErrNoRows {
		return nil, model.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &review, nil
}

// Update mutates the review's owner-held fields, with the ownership check in
// the WHERE clause. Zero rows affected is disambiguated into not-found vs not-owner.
func (r *reviewRepository) Update(ctx context.Context, reviewID, userID int64, rating int, headline, body string) (*model.Review, error) {
	query := `
		UPDATE reviews
		SET rating = $1, headline = $2, body = $3
		WHERE id = $4 AND user_id = $5
		RETURNING id, ticket_id, user_id, rating, headline, body, time_created
	`

	var review model.Review
	err := r.db.GetContext(ctx, &review, query, rating, headline, body, reviewID, userID)
	if err == sql.ErrNoRows {
		var exists bool
		r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM reviews WHERE id = $1)`, reviewID)
		if exists {
			return nil, model.ErrNotReviewOwner
		}
		return nil, model.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	return &review, nil
}

// Delete removes a review.
func (r *reviewRepository) Delete(ctx context.Context, reviewID, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2`, reviewID, userID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM reviews WHERE id = $1)`, reviewID)
		if exists {
			return model.ErrNotReviewOwner
		}
		return model.ErrReviewNotFound
	}

	return nil
}

// ListByTicket returns all reviews on a ticket, newest first.
func (r *reviewRepository) ListByTicket(ctx context.Context, ticketID int64) ([]model.Review, error) {
	query := `
		SELECT id, ticket_id, user_id, rating, headline, body, time_created
		FROM reviews
		WHERE ticket_id = $1
		ORDER BY time_created DESC
	`
	var reviews []model.Review
	err := r.db.SelectContext(ctx, &reviews, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by ticket: %w", err)
	}
	return reviews, nil
}

// ListByOwner returns all reviews authored by a user, newest first.
func (r *reviewRepository) ListByOwner(ctx context.Context, userID int64) ([]model.Review, error) {
	query := `
		SELECT id, ticket_id, user_id, rating, headline, body, time_created
		FROM reviews
		WHERE user_id = $1
		ORDER BY time_created DESC
	`
	var reviews []model.Review
	err := r.db.SelectContext(ctx, &reviews, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by owner: %w", err)
	}
	return reviews, nil
}

// ListVisible returns reviews authored by any of authorIDs, plus reviews
// attached to any ticket owned by ticketOwnerID. The OR over the joined
// ticket row is what lets a ticket owner see responses from strangers.
func (r *reviewRepository) ListVisible(ctx context.Context, authorIDs []int64, ticketOwnerID int64) ([]model.Review, error) {
	query := `
		SELECT r.id, r.ticket_id, r.user_id, r.rating, r.headline, r.body, r.time_created
		FROM reviews r
		JOIN tickets t ON t.id = r.ticket_id
		WHERE r.user_id = ANY($1) OR t.user_id = $2
		ORDER BY r.time_created DESC
	`
	var reviews []model.Review
	err := r.db.SelectContext(ctx, &reviews, query, pq.Array(authorIDs), ticketOwnerID)
	if err != nil {
		return nil, fmt.Errorf("list visible reviews: %w", err)
	}
	return reviews, nil
}

// CheckResponses reports which of the given tickets the user has reviewed.
// Single batch query; tickets with no reviews map to false.
func (r *reviewRepository) CheckResponses(ctx context.Context, userID int64, ticketIDs []int64) (map[int64]bool, error) {
	if len(ticketIDs) == 0 {
		return make(map[int64]bool), nil
	}

	query := `SELECT DISTINCT ticket_id FROM reviews WHERE user_id = $1 AND ticket_id = ANY($2)`
	var respondedIDs []int64
	err := r.db.SelectContext(ctx, &respondedIDs, query, userID, pq.Array(ticketIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("check responses: %w", err)
	}

	result := make(map[int64]bool)
	for _, id := range ticketIDs {
		result[id] = false
	}
	for _, id := range respondedIDs {
		result[id] = true
	}

	return result, nil
}
