package service

import (
	"context"
	"strings"

	"github.com/Fibuc/litrevu/internal/model"
	"github.com/Fibuc/litrevu/internal/repository"
)

// ReviewService handles reviews: responses to tickets with a rating,
// headline and optional body. Any user may review any visible ticket;
// only the author may edit or delete a review.
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	ticketRepo repository.TicketRepository
	userRepo   repository.UserRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	ticketRepo repository.TicketRepository,
	userRepo repository.UserRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
	}
}

// Create validates and attaches a review to an existing ticket. A missing
// ticket is ErrTicketNotFound, checked up front so the caller gets the
// domain error rather than a constraint violation.
func (s *ReviewService) Create(ctx context.Context, ticketID, userID int64, req model.CreateReviewRequest) (*model.Review, error) {
	rating, err := validateReviewFields(req)
	if err != nil {
		return nil, err
	}

	exists, err := s.ticketRepo.Exists(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrTicketNotFound
	}

	review, err := s.reviewRepo.Create(ctx, ticketID, userID, rating, strings.TrimSpace(req.Headline), req.Body)
	if err != nil {
		return nil, err
	}

	s.hydrateReviewAuthor(ctx, review)
	return review, nil
}

// GetByID fetches one review with its author attached.
func (s *ReviewService) GetByID(ctx context.Context, reviewID int64) (*model.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	s.hydrateReviewAuthor(ctx, review)
	return review, nil
}

// Update mutates a review. Only the author may update; anyone else gets
// ErrNotReviewOwner.
func (s *ReviewService) Update(ctx context.Context, reviewID, userID int64, req model.UpdateReviewRequest) (*model.Review, error) {
	rating, err := validateReviewInput(req.Rating, req.Headline, req.Body)
	if err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.Update(ctx, reviewID, userID, rating, strings.TrimSpace(req.Headline), req.Body)
	if err != nil {
		return nil, err
	}

	s.hydrateReviewAuthor(ctx, review)
	return review, nil
}

// Delete removes a review (author only).
func (s *ReviewService) Delete(ctx context.Context, reviewID, userID int64) error {
	return s.reviewRepo.Delete(ctx, reviewID, userID)
}

// ListByTicket returns a ticket's reviews, newest first, authors attached.
func (s *ReviewService) ListByTicket(ctx context.Context, ticketID int64) ([]model.Review, error) {
	exists, err := s.ticketRepo.Exists(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrTicketNotFound
	}

	reviews, err := s.reviewRepo.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if len(reviews) > 0 {
		idSet := make(map[int64]struct{})
		for _, r := range reviews {
			idSet[r.UserID] = struct{}{}
		}
		ids := make([]int64, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
		}
		if authors, err := s.userRepo.GetSummaries(ctx, ids); err == nil {
			for i := range reviews {
				if author, ok := authors[reviews[i].UserID]; ok {
					reviews[i].Author = &author
				}
			}
		}
	}

	return reviews, nil
}

func (s *ReviewService) hydrateReviewAuthor(ctx context.Context, review *model.Review) {
	authors, err := s.userRepo.GetSummaries(ctx, []int64{review.UserID})
	if err != nil {
		return
	}
	if author, ok := authors[review.UserID]; ok {
		review.Author = &author
	}
}

func validateReviewFields(req model.CreateReviewRequest) (int, error) {
	return validateReviewInput(req.Rating, req.Headline, req.Body)
}

// validateReviewInput enforces the review constraints. Rating arrives as a
// pointer so a missing rating is distinguishable from a legitimate 0.
func validateReviewInput(rating *int, headline, body string) (int, error) {
	if rating == nil {
		return 0, model.ErrRatingRequired
	}
	if *rating < model.MinReviewRating || *rating > model.MaxReviewRating {
		return 0, model.ErrRatingOutOfRange
	}
	if strings.TrimSpace(headline) == "" {
		return 0, model.ErrHeadlineRequired
	}
	if len(headline) > model.MaxReviewHeadlineLength {
		return 0, model.ErrHeadlineTooLong
	}
	if len(body) > model.MaxReviewBodyLength {
		return 0, model.ErrBodyTooLong
	}
	return *rating, nil
}
