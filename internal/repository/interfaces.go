package repository

import (
	"context"
	"time"

	"github.com/Fibuc/litrevu/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// GetSummaries batch-fetches user summaries keyed by id (feed author hydration).
	GetSummaries(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error)
	// Search matches usernames case-insensitively on a substring, excluding excludeID.
	Search(ctx context.Context, query string, excludeID int64, limit int) ([]model.UserSummary, error)
}

type FollowRepository interface {
	// Create idempotently inserts the edge. Returns whether a row was inserted;
	// a duplicate edge is not an error.
	Create(ctx context.Context, followerID, followedID int64) (bool, error)
	// Delete removes the edge if present. Returns whether a row was deleted;
	// a missing edge is not an error.
	Delete(ctx context.Context, followerID, followedID int64) (bool, error)
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
	GetFollowers(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error)
	GetFollowing(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error)
	CheckFollows(ctx context.Context, followerID int64, followedIDs []int64) (map[int64]bool, error)
	// GetFollowedIDs returns the ids of every user userID follows (feed visibility set).
	GetFollowedIDs(ctx context.Context, userID int64) ([]int64, error)
}

type TicketRepository interface {
	Create(ctx context.Context, userID int64, req model.CreateTicketRequest) (*model.Ticket, error)
	// CreateWithReview inserts a ticket and its first review in one transaction.
	CreateWithReview(ctx context.Context, userID int64, t model.CreateTicketRequest, rating int, headline, body string) (*model.Ticket, *model.Review, error)
	GetByID(ctx context.Context, ticketID int64) (*model.Ticket, error)
	// Update mutates owner-held fields. Rejects a non-owner with ErrNotTicketOwner.
	Update(ctx context.Context, ticketID, userID int64, req model.UpdateTicketRequest) (*model.Ticket, error)
	// Delete removes the ticket; its reviews cascade at the database level.
	Delete(ctx context.Context, ticketID, userID int64) error
	ListByOwner(ctx context.Context, userID int64) ([]model.Ticket, error)
	ListByOwners(ctx context.Context, ownerIDs []int64) ([]model.Ticket, error)
	Exists(ctx context.Context, ticketID int64) (bool, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, ticketID, userID int64, rating int, headline, body string) (*model.Review, error)
	GetByID(ctx context.Context, reviewID int64) (*model.Review, error)
	Update(ctx context.Context, reviewID, userID int64, rating int, headline, body string) (*model.Review, error)
	Delete(ctx context.Context, reviewID, userID int64) error
	ListByTicket(ctx context.Context, ticketID int64) ([]model.Review, error)
	ListByOwner(ctx context.Context, userID int64) ([]model.Review, error)
	// ListVisible returns reviews authored by any of authorIDs plus reviews
	// attached to tickets owned by ticketOwnerID, deduplicated.
	ListVisible(ctx context.Context, authorIDs []int64, ticketOwnerID int64) ([]model.Review, error)
	// CheckResponses reports, per ticket id, whether userID has reviewed it.
	CheckResponses(ctx context.Context, userID int64, ticketIDs []int64) (map[int64]bool, error)
}
