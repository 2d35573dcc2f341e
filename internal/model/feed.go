package model

import "time"

// Content type discriminators for feed items.
const (
	ContentTypeTicket = "TICKET"
	ContentTypeReview = "REVIEW"
)

// FeedTicket is a ticket enriched with the viewer-specific response flag.
// AlreadyResponded is true iff at least one review on the ticket was authored
// by the viewer; a ticket with zero reviews always carries false.
type FeedTicket struct {
	Ticket
	AlreadyResponded bool `json:"already_responded_by_viewer"`
}

// FeedItem is the tagged union of the two content kinds. Exactly one of
// Ticket/Review is set, matching ContentType. TimeCreated duplicates the
// payload's creation time so the sort key is uniform across kinds.
type FeedItem struct {
	ContentType string      `json:"content_type"`
	TimeCreated time.Time   `json:"time_created"`
	Ticket      *FeedTicket `json:"ticket,omitempty"`
	Review      *Review     `json:"review,omitempty"`
}

// FeedResponse is the feed/posts list response.
type FeedResponse struct {
	Items []FeedItem `json:"items"`
}
