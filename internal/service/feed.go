package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/Fibuc/litrevu/internal/model"
	"github.com/Fibuc/litrevu/internal/repository"
)

// FeedService computes per-viewer timelines. Visibility:
//
//   - tickets authored by users the viewer follows, or by the viewer;
//   - reviews authored by users the viewer follows, or by the viewer, or
//     attached to any ticket the viewer owns (owners always see responses
//     to their own tickets, follower or not).
//
// Both kinds are merged into one sequence ordered by creation time descending.
type FeedService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	ticketRepo repository.TicketRepository
	reviewRepo repository.ReviewRepository
}

func NewFeedService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	ticketRepo repository.TicketRepository,
	reviewRepo repository.ReviewRepository,
) *FeedService {
	return &FeedService{
		userRepo:   userRepo,
		followRepo: followRepo,
		ticketRepo: ticketRepo,
		reviewRepo: reviewRepo,
	}
}

// GetFeed returns the viewer's merged timeline.
//
// Flow:
// 1. Verify the viewer exists (unknown viewer -> ErrUserNotFound)
// 2. Resolve the visibility set: followed users + the viewer
// 3. Fetch visible tickets and visible reviews in two batch queries
// 4. Annotate each ticket with the viewer's already-responded flag
// 5. Merge, tag, stable-sort by time_created descending
//
// A viewer with no follows and no content gets an empty slice, never an error.
func (s *FeedService) GetFeed(ctx context.Context, viewerID int64) (*model.FeedResponse, error) {
	startTime := time.Now()

	exists, err := s.userRepo.Exists(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("check viewer exists: %w", err)
	}
	if !exists {
		return nil, model.ErrUserNotFound
	}

	followedIDs, err := s.followRepo.GetFollowedIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("get followed ids: %w", err)
	}

	authorIDs := append(followedIDs, viewerID)

	tickets, err := s.ticketRepo.ListByOwners(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("list visible tickets: %w", err)
	}

	reviews, err := s.reviewRepo.ListVisible(ctx, authorIDs, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list visible reviews: %w", err)
	}

	items, err := s.buildFeed(ctx, viewerID, tickets, reviews)
	if err != nil {
		return nil, err
	}

	log.Printf("[FeedService] GetFeed OK: viewer=%d followed=%d items=%d duration=%v",
		viewerID, len(followedIDs), len(items), time.Since(startTime))

	return &model.FeedResponse{Items: items}, nil
}

// GetMyPosts returns the simpler variant scoped to the viewer's own tickets
// and reviews, merged and sorted the same way. No follow-graph involvement.
func (s *FeedService) GetMyPosts(ctx context.Context, viewerID int64) (*model.FeedResponse, error) {
	exists, err := s.userRepo.Exists(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("check viewer exists: %w", err)
	}
	if !exists {
		return nil, model.ErrUserNotFound
	}

	tickets, err := s.ticketRepo.ListByOwner(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list own tickets: %w", err)
	}

	reviews, err := s.reviewRepo.ListByOwner(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list own reviews: %w", err)
	}

	items, err := s.buildFeed(ctx, viewerID, tickets, reviews)
	if err != nil {
		return nil, err
	}

	return &model.FeedResponse{Items: items}, nil
}

// buildFeed annotates, enriches, merges and orders the two content kinds.
func (s *FeedService) buildFeed(ctx context.Context, viewerID int64, tickets []model.Ticket, reviews []model.Review) ([]model.FeedItem, error) {
	// Already-responded flags, one batch query. A ticket with zero reviews
	// stays false via the map zero value.
	ticketIDs := make([]int64, len(tickets))
	for i, t := range tickets {
		ticketIDs[i] = t.ID
	}
	responded, err := s.reviewRepo.CheckResponses(ctx, viewerID, ticketIDs)
	if err != nil {
		return nil, fmt.Errorf("check responses: %w", err)
	}

	// Author hydration, one batch query over both kinds.
	authorIDSet := make(map[int64]struct{})
	for _, t := range tickets {
		authorIDSet[t.UserID] = struct{}{}
	}
	for _, r := range reviews {
		authorIDSet[r.UserID] = struct{}{}
	}
	authorIDs := make([]int64, 0, len(authorIDSet))
	for id := range authorIDSet {
		authorIDs = append(authorIDs, id)
	}

	authors, err := s.userRepo.GetSummaries(ctx, authorIDs)
	if err != nil {
		log.Printf("[FeedService] Failed to get authors: %v", err)
		authors = map[int64]model.UserSummary{}
	}

	items := make([]model.FeedItem, 0, len(tickets)+len(reviews))

	for i := range tickets {
		t := tickets[i]
		if author, ok := authors[t.UserID]; ok {
			t.Author = &author
		}
		items = append(items, model.FeedItem{
			ContentType: model.ContentTypeTicket,
			TimeCreated: t.TimeCreated,
			Ticket: &model.FeedTicket{
				Ticket:           t,
				AlreadyResponded: responded[t.ID],
			},
		})
	}

	for i := range reviews {
		r := reviews[i]
		if author, ok := authors[r.UserID]; ok {
			r.Author = &author
		}
		items = append(items, model.FeedItem{
			ContentType: model.ContentTypeReview,
			TimeCreated: r.TimeCreated,
			Review:      &r,
		})
	}

	// Stable sort keeps input order on equal timestamps, so output is
	// deterministic for a fixed input order. No cross-kind tie-break rule.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TimeCreated.After(items[j].TimeCreated)
	})

	return items, nil
}
