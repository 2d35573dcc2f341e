package service

import (
	"context"
	"log"
	"strings"

	"github.com/Fibuc/litrevu/internal/model"
	"github.com/Fibuc/litrevu/internal/queue"
	"github.com/Fibuc/litrevu/internal/repository"
)

// ObjectRemover is the slice of the media service ticket mutations need:
// best-effort deletion of replaced or orphaned images.
type ObjectRemover interface {
	DeleteObject(ctx context.Context, key string) error
}

// TicketService handles review-request tickets: creation, owner-only
// mutation, and the post-commit image-resize hook.
type TicketService struct {
	ticketRepo repository.TicketRepository
	userRepo   repository.UserRepository
	publisher  queue.Publisher
	storage    ObjectRemover
}

func NewTicketService(
	ticketRepo repository.TicketRepository,
	userRepo repository.UserRepository,
	publisher queue.Publisher,
	storage ObjectRemover,
) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		publisher:  publisher,
		storage:    storage,
	}
}

// Create validates and inserts a ticket, then fires the resize hook if an
// image was attached.
func (s *TicketService) Create(ctx context.Context, userID int64, req model.CreateTicketRequest) (*model.Ticket, error) {
	if err := validateTicketFields(req.Title, req.Description); err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	s.publishImageUploaded(ctx, ticket)
	s.hydrateAuthor(ctx, ticket)

	return ticket, nil
}

// CreateWithReview creates a ticket and its first review atomically: both
// rows are written or neither is. The transaction lives in the repository.
func (s *TicketService) CreateWithReview(ctx context.Context, userID int64, req model.CreateTicketWithReviewRequest) (*model.TicketWithReview, error) {
	if err := validateTicketFields(req.Ticket.Title, req.Ticket.Description); err != nil {
		return nil, err
	}
	rating, err := validateReviewFields(req.Review)
	if err != nil {
		return nil, err
	}

	ticket, review, err := s.ticketRepo.CreateWithReview(ctx, userID, req.Ticket, rating, strings.TrimSpace(req.Review.Headline), req.Review.Body)
	if err != nil {
		return nil, err
	}

	s.publishImageUploaded(ctx, ticket)
	s.hydrateAuthor(ctx, ticket)
	if ticket.Author != nil {
		review.Author = ticket.Author
	}

	return &model.TicketWithReview{Ticket: ticket, Review: review}, nil
}

// GetByID fetches one ticket with its author attached.
func (s *TicketService) GetByID(ctx context.Context, ticketID int64) (*model.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	s.hydrateAuthor(ctx, ticket)
	return ticket, nil
}

// ListByOwner returns a user's tickets, newest first.
func (s *TicketService) ListByOwner(ctx context.Context, userID int64) ([]model.Ticket, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrUserNotFound
	}

	tickets, err := s.ticketRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	if authors, err := s.userRepo.GetSummaries(ctx, []int64{userID}); err == nil {
		if author, ok := authors[userID]; ok {
			for i := range tickets {
				a := author
				tickets[i].Author = &a
			}
		}
	}

	return tickets, nil
}

// Update mutates a ticket. Only the owner may update; anyone else gets
// ErrNotTicketOwner. A replaced image re-fires the resize hook and the old
// object is deleted best-effort.
func (s *TicketService) Update(ctx context.Context, ticketID, userID int64, req model.UpdateTicketRequest) (*model.Ticket, error) {
	if err := validateTicketFields(req.Title, req.Description); err != nil {
		return nil, err
	}

	// Fetch first so the previous image key survives the update.
	old, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.Update(ctx, ticketID, userID, req)
	if err != nil {
		return nil, err
	}

	imageChanged := !equalKeys(old.ImageKey, ticket.ImageKey)
	if imageChanged {
		s.publishImageUploaded(ctx, ticket)
		s.removeObject(ctx, old.ImageKey)
	}

	s.hydrateAuthor(ctx, ticket)
	return ticket, nil
}

// Delete removes a ticket (owner only). Reviews cascade at the database
// level; the stored image is cleaned up best-effort after the row is gone.
func (s *TicketService) Delete(ctx context.Context, ticketID, userID int64) error {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}

	if err := s.ticketRepo.Delete(ctx, ticketID, userID); err != nil {
		return err
	}

	s.removeObject(ctx, ticket.ImageKey)
	return nil
}

// publishImageUploaded fires the resize hook after commit. Fire and forget:
// a publish failure is logged, never surfaced, and the ticket row is already
// durable.
func (s *TicketService) publishImageUploaded(ctx context.Context, ticket *model.Ticket) {
	if s.publisher == nil || ticket.ImageKey == nil {
		return
	}

	event := queue.NewTicketImageUploadedEvent(ticket.ID, *ticket.ImageKey, "")
	msgID, err := s.publisher.Publish(ctx, queue.StreamMedia, event)
	if err != nil {
		log.Printf("[TicketService] Failed to publish TicketImageUploaded: ticket=%d key=%s err=%v",
			ticket.ID, *ticket.ImageKey, err)
		return
	}
	log.Printf("[TicketService] Published TicketImageUploaded: ticket=%d key=%s msgID=%s",
		ticket.ID, *ticket.ImageKey, msgID)
}

// removeObject deletes a stored image best-effort.
func (s *TicketService) removeObject(ctx context.Context, key *string) {
	if s.storage == nil || key == nil || *key == "" {
		return
	}
	if err := s.storage.DeleteObject(ctx, *key); err != nil {
		log.Printf("[TicketService] Failed to delete image object: key=%s err=%v", *key, err)
	}
}

func (s *TicketService) hydrateAuthor(ctx context.Context, ticket *model.Ticket) {
	authors, err := s.userRepo.GetSummaries(ctx, []int64{ticket.UserID})
	if err != nil {
		return
	}
	if author, ok := authors[ticket.UserID]; ok {
		ticket.Author = &author
	}
}

func validateTicketFields(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return model.ErrTitleRequired
	}
	if len(title) > model.MaxTicketTitleLength {
		return model.ErrTitleTooLong
	}
	if len(description) > model.MaxTicketDescriptionLength {
		return model.ErrDescriptionTooLong
	}
	return nil
}

func equalKeys(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
