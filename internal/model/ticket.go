package model

import (
	"errors"
	"time"
)

// Ticket is a request for a review of a book or article. It is owned
// exclusively by its creating user, who alone may edit or delete it.
type Ticket struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	ImageURL    *string   `db:"image_url" json:"image_url,omitempty"`
	ImageKey    *string   `db:"image_key" json:"-"`
	TimeCreated time.Time `db:"time_created" json:"time_created"`

	// Joined field (not in tickets table)
	Author *UserSummary `json:"author,omitempty"`
}

// CreateTicketRequest is the request body for creating a ticket.
// Image fields reference an object already uploaded via the media endpoint.
type CreateTicketRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
	ImageKey    *string `json:"image_key,omitempty"`
}

// UpdateTicketRequest is the request body for updating a ticket.
type UpdateTicketRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
	ImageKey    *string `json:"image_key,omitempty"`
}

// CreateTicketWithReviewRequest creates a ticket and its first review in one
// transaction: both rows are written or neither is.
type CreateTicketWithReviewRequest struct {
	Ticket CreateTicketRequest `json:"ticket"`
	Review CreateReviewRequest `json:"review"`
}

// TicketWithReview is the response for the combined creation endpoint.
type TicketWithReview struct {
	Ticket *Ticket `json:"ticket"`
	Review *Review `json:"review"`
}

// Ticket constraints
const (
	MaxTicketTitleLength       = 128
	MaxTicketDescriptionLength = 2048
)

// Ticket errors
var (
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrNotTicketOwner     = errors.New("not the owner of this ticket")
	ErrTitleRequired      = errors.New("ticket title is required")
	ErrTitleTooLong       = errors.New("ticket title too long")
	ErrDescriptionTooLong = errors.New("ticket description too long")
)
