package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Fibuc/litrevu/internal/model"
)

// Fixture: alice (1) follows bob (2). carol (3) is not followed by alice.

const (
	aliceID int64 = 1
	bobID   int64 = 2
	carolID int64 = 3
)

func feedFixtureRepos() (*mockUserRepository, *mockFollowRepository) {
	userRepo := &mockUserRepository{
		getSummariesFn: func(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error) {
			names := map[int64]string{aliceID: "alice", bobID: "bob", carolID: "carol"}
			out := make(map[int64]model.UserSummary)
			for _, id := range ids {
				out[id] = model.UserSummary{ID: id, Username: names[id]}
			}
			return out, nil
		},
	}
	followRepo := &mockFollowRepository{
		getFollowedIDsFn: func(ctx context.Context, userID int64) ([]int64, error) {
			if userID == aliceID {
				return []int64{bobID}, nil
			}
			return nil, nil
		},
	}
	return userRepo, followRepo
}

func ts(minutesAgo int) time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(-time.Duration(minutesAgo) * time.Minute)
}

func TestFeedService_GetFeed_VisibilityAndOrdering(t *testing.T) {
	userRepo, followRepo := feedFixtureRepos()

	ticketRepo := &mockTicketRepository{
		listByOwnersFn: func(ctx context.Context, ownerIDs []int64) ([]model.Ticket, error) {
			// Repo is trusted to apply the owner filter; return what the
			// service should see for authors {bob, alice}.
			return []model.Ticket{
				{ID: 10, UserID: bobID, Title: "Review Dune for me", TimeCreated: ts(30)},
				{ID: 11, UserID: aliceID, Title: "Anyone read Solaris?", TimeCreated: ts(10)},
			}, nil
		},
	}
	reviewRepo := &mockReviewRepository{
		listVisibleFn: func(ctx context.Context, authorIDs []int64, ticketOwnerID int64) ([]model.Review, error) {
			if ticketOwnerID != aliceID {
				t.Fatalf("ListVisible ticketOwnerID = %d, want %d", ticketOwnerID, aliceID)
			}
			return []model.Review{
				// Bob's review, visible because alice follows bob.
				{ID: 20, TicketID: 10, UserID: bobID, Rating: 4, Headline: "Great", TimeCreated: ts(20)},
				// Carol's review on alice's ticket, visible because alice owns the ticket.
				{ID: 21, TicketID: 11, UserID: carolID, Rating: 2, Headline: "Meh", TimeCreated: ts(5)},
			}, nil
		},
		checkResponsesFn: func(ctx context.Context, userID int64, ticketIDs []int64) (map[int64]bool, error) {
			return map[int64]bool{}, nil
		},
	}

	svc := NewFeedService(userRepo, followRepo, ticketRepo, reviewRepo)

	feed, err := svc.GetFeed(context.Background(), aliceID)
	if err != nil {
		t.Fatalf("GetFeed() error = %v", err)
	}

	if len(feed.Items) != 4 {
		t.Fatalf("got %d items, want 4", len(feed.Items))
	}

	// Newest first: carol's review (5m), alice's ticket (10m), bob's review (20m), bob's ticket (30m).
	wantOrder := []struct {
		contentType string
		id          int64
	}{
		{model.ContentTypeReview, 21},
		{model.ContentTypeTicket, 11},
		{model.ContentTypeReview, 20},
		{model.ContentTypeTicket, 10},
	}
	for i, want := range wantOrder {
		item := feed.Items[i]
		if item.ContentType != want.contentType {
			t.Errorf("items[%d].ContentType = %s, want %s", i, item.ContentType, want.contentType)
			continue
		}
		var gotID int64
		if item.ContentType == model.ContentTypeTicket {
			gotID = item.Ticket.ID
		} else {
			gotID = item.Review.ID
		}
		if gotID != want.id {
			t.Errorf("items[%d] id = %d, want %d", i, gotID, want.id)
		}
	}

	// Author hydration over both kinds.
	if feed.Items[0].Review.Author == nil || feed.Items[0].Review.Author.Username != "carol" {
		t.Errorf("review author not hydrated: %+v", feed.Items[0].Review.Author)
	}
	if feed.Items[1].Ticket.Author == nil || feed.Items[1].Ticket.Author.Username != "alice" {
		t.Errorf("ticket author not hydrated: %+v", feed.Items[1].Ticket.Author)
	}
}

func TestFeedService_GetFeed_AlreadyRespondedFlags(t *testing.T) {
	userRepo, followRepo := feedFixtureRepos()

	ticketRepo := &mockTicketRepository{
		listByOwnersFn: func(ctx context.Context, ownerIDs []int64) ([]model.Ticket, error) {
			return []model.Ticket{
				{ID: 10, UserID: bobID, Title: "Reviewed by alice", TimeCreated: ts(30)},
				{ID: 12, UserID: bobID, Title: "Zero reviews", TimeCreated: ts(25)},
			}, nil
		},
	}
	reviewRepo := &mockReviewRepository{
		checkResponsesFn: func(ctx context.Context, userID int64, ticketIDs []int64) (map[int64]bool, error) {
			if userID != aliceID {
				t.Fatalf("CheckResponses userID = %d, want %d", userID, aliceID)
			}
			// The batch query reports only tickets alice reviewed; absent
			// ids (including zero-review tickets) must read as false.
			return map[int64]bool{10: true}, nil
		},
	}

	svc := NewFeedService(userRepo, followRepo, ticketRepo, reviewRepo)

	feed, err := svc.GetFeed(context.Background(), aliceID)
	if err != nil {
		t.Fatalf("GetFeed() error = %v", err)
	}

	flags := map[int64]bool{}
	for _, item := range feed.Items {
		if item.ContentType == model.ContentTypeTicket {
			flags[item.Ticket.ID] = item.Ticket.AlreadyResponded
		}
	}

	if !flags[10] {
		t.Errorf("ticket 10 already_responded = false, want true")
	}
	if flags[12] {
		t.Errorf("ticket 12 (zero reviews) already_responded = true, want false")
	}
}

func TestFeedService_GetFeed_EmptyFeed(t *testing.T) {
	userRepo := &mockUserRepository{}
	followRepo := &mockFollowRepository{}
	svc := NewFeedService(userRepo, followRepo, &mockTicketRepository{}, &mockReviewRepository{})

	feed, err := svc.GetFeed(context.Background(), aliceID)
	if err != nil {
		t.Fatalf("GetFeed() on empty data error = %v", err)
	}
	if feed.Items == nil {
		t.Fatalf("Items is nil, want empty slice")
	}
	if len(feed.Items) != 0 {
		t.Fatalf("got %d items, want 0", len(feed.Items))
	}
}

func TestFeedService_GetFeed_UnknownViewer(t *testing.T) {
	userRepo := &mockUserRepository{
		existsFn: func(ctx context.Context, id int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewFeedService(userRepo, &mockFollowRepository{}, &mockTicketRepository{}, &mockReviewRepository{})

	_, err := svc.GetFeed(context.Background(), 999)
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("GetFeed(unknown) error = %v, want ErrUserNotFound", err)
	}
}

func TestFeedService_GetFeed_StableOnEqualTimestamps(t *testing.T) {
	userRepo, followRepo := feedFixtureRepos()

	same := ts(15)
	ticketRepo := &mockTicketRepository{
		listByOwnersFn: func(ctx context.Context, ownerIDs []int64) ([]model.Ticket, error) {
			return []model.Ticket{{ID: 10, UserID: bobID, Title: "Tie", TimeCreated: same}}, nil
		},
	}
	reviewRepo := &mockReviewRepository{
		listVisibleFn: func(ctx context.Context, authorIDs []int64, ticketOwnerID int64) ([]model.Review, error) {
			return []model.Review{{ID: 20, TicketID: 10, UserID: bobID, Rating: 3, Headline: "Tie", TimeCreated: same}}, nil
		},
	}

	svc := NewFeedService(userRepo, followRepo, ticketRepo, reviewRepo)

	// Stable sort keeps input order on ties, and tickets are appended before
	// reviews, so the result is deterministic run to run.
	for i := 0; i < 5; i++ {
		feed, err := svc.GetFeed(context.Background(), aliceID)
		if err != nil {
			t.Fatalf("GetFeed() error = %v", err)
		}
		if feed.Items[0].ContentType != model.ContentTypeTicket || feed.Items[1].ContentType != model.ContentTypeReview {
			t.Fatalf("run %d: tie order changed: %s, %s", i, feed.Items[0].ContentType, feed.Items[1].ContentType)
		}
	}
}

func TestFeedService_GetMyPosts(t *testing.T) {
	userRepo, followRepo := feedFixtureRepos()

	ticketRepo := &mockTicketRepository{
		listByOwnerFn: func(ctx context.Context, userID int64) ([]model.Ticket, error) {
			if userID != aliceID {
				t.Fatalf("ListByOwner userID = %d, want %d", userID, aliceID)
			}
			return []model.Ticket{{ID: 11, UserID: aliceID, Title: "Mine", TimeCreated: ts(10)}}, nil
		},
	}
	reviewRepo := &mockReviewRepository{
		listByOwnerFn: func(ctx context.Context, userID int64) ([]model.Review, error) {
			return []model.Review{{ID: 22, TicketID: 10, UserID: aliceID, Rating: 5, Headline: "Mine too", TimeCreated: ts(2)}}, nil
		},
	}

	svc := NewFeedService(userRepo, followRepo, ticketRepo, reviewRepo)

	feed, err := svc.GetMyPosts(context.Background(), aliceID)
	if err != nil {
		t.Fatalf("GetMyPosts() error = %v", err)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(feed.Items))
	}
	if feed.Items[0].ContentType != model.ContentTypeReview || feed.Items[0].Review.ID != 22 {
		t.Errorf("items[0] = %+v, want alice's review first (newest)", feed.Items[0])
	}
	if feed.Items[1].ContentType != model.ContentTypeTicket || feed.Items[1].Ticket.ID != 11 {
		t.Errorf("items[1] = %+v, want alice's ticket", feed.Items[1])
	}
}
