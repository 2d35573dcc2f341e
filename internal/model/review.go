package model

import (
	"errors"
	"time"
)

// Review is a response to exactly one ticket. The reviewer is not necessarily
// the ticket's owner, and nothing prevents a user reviewing the same ticket
// twice; the relation is only consulted for the already-responded flag.
type Review struct {
	ID          int64     `db:"id" json:"id"`
	TicketID    int64     `db:"ticket_id" json:"ticket_id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Rating      int       `db:"rating" json:"rating"`
	Headline    string    `db:"headline" json:"headline"`
	Body        string    `db:"body" json:"body"`
	TimeCreated time.Time `db:"time_created" json:"time_created"`

	// Joined field (not in reviews table)
	Author *UserSummary `json:"author,omitempty"`
}

// CreateReviewRequest is the request body for creating a review.
// Rating is a pointer so a missing rating is distinguishable from 0.
type CreateReviewRequest struct {
	Rating   *int   `json:"rating"`
	Headline string `json:"headline"`
	Body     string `json:"body"`
}

// UpdateReviewRequest is the request body for updating a review.
type UpdateReviewRequest struct {
	Rating   *int   `json:"rating"`
	Headline string `json:"headline"`
	Body     string `json:"body"`
}

// Review constraints
const (
	MinReviewRating         = 0
	MaxReviewRating         = 5
	MaxReviewHeadlineLength = 128
	MaxReviewBodyLength     = 8192
)

// Review errors
var (
	ErrReviewNotFound   = errors.New("review not found")
	ErrNotReviewOwner   = errors.New("not the owner of this review")
	ErrRatingRequired   = errors.New("review rating is required")
	ErrRatingOutOfRange = errors.New("review rating must be between 0 and 5")
	ErrHeadlineRequired = errors.New("review headline is required")
	ErrHeadlineTooLong  = errors.New("review headline too long")
	ErrBodyTooLong      = errors.New("review body too long")
)
