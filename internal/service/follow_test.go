package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Fibuc/litrevu/internal/model"
)

func TestFollowService_Follow_Idempotent(t *testing.T) {
	inserted := map[[2]int64]bool{}
	followRepo := &mockFollowRepository{
		createFn: func(ctx context.Context, followerID, followedID int64) (bool, error) {
			key := [2]int64{followerID, followedID}
			if inserted[key] {
				return false, nil // ON CONFLICT DO NOTHING
			}
			inserted[key] = true
			return true, nil
		},
	}
	svc := NewFollowService(followRepo, &mockUserRepository{})

	// Following twice must succeed twice and leave exactly one edge.
	if err := svc.Follow(context.Background(), 1, 2); err != nil {
		t.Fatalf("first Follow() error = %v", err)
	}
	if err := svc.Follow(context.Background(), 1, 2); err != nil {
		t.Fatalf("second Follow() error = %v, want nil (idempotent)", err)
	}
	if len(inserted) != 1 {
		t.Fatalf("edge count = %d, want 1", len(inserted))
	}
}

func TestFollowService_Follow_UnknownUser(t *testing.T) {
	userRepo := &mockUserRepository{
		existsFn: func(ctx context.Context, id int64) (bool, error) {
			return false, nil
		},
	}
	followRepo := &mockFollowRepository{}
	svc := NewFollowService(followRepo, userRepo)

	err := svc.Follow(context.Background(), 1, 999)
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("Follow(unknown) error = %v, want ErrUserNotFound", err)
	}
	if followRepo.createCalls != 0 {
		t.Fatalf("Create called %d times, want 0", followRepo.createCalls)
	}
}

func TestFollowService_Unfollow_NoOpWhenAbsent(t *testing.T) {
	followRepo := &mockFollowRepository{
		deleteFn: func(ctx context.Context, followerID, followedID int64) (bool, error) {
			return false, nil // nothing to delete
		},
	}
	svc := NewFollowService(followRepo, &mockUserRepository{})

	if err := svc.Unfollow(context.Background(), 1, 2); err != nil {
		t.Fatalf("Unfollow(absent edge) error = %v, want nil", err)
	}
}

func TestFollowService_GetFollowers_EnrichesFollowStatus(t *testing.T) {
	followRepo := &mockFollowRepository{
		getFollowersFn: func(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
			next := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
			return []model.UserSummary{
				{ID: 2, Username: "bob"},
				{ID: 3, Username: "carol"},
			}, &next, nil
		},
		checkFollowsFn: func(ctx context.Context, followerID int64, followedIDs []int64) (map[int64]bool, error) {
			return map[int64]bool{2: true}, nil
		},
	}
	svc := NewFollowService(followRepo, &mockUserRepository{})

	viewer := int64(1)
	result, err := svc.GetFollowers(context.Background(), 5, nil, 20, &viewer)
	if err != nil {
		t.Fatalf("GetFollowers() error = %v", err)
	}

	if !result.Users[0].IsFollowing {
		t.Errorf("bob is_following = false, want true")
	}
	if result.Users[1].IsFollowing {
		t.Errorf("carol is_following = true, want false")
	}
	if !result.HasMore || result.NextCursor == nil {
		t.Errorf("pagination: has_more=%v next_cursor=%v, want more with cursor", result.HasMore, result.NextCursor)
	}
}

func TestFollowService_GetFollowing_NoViewer(t *testing.T) {
	followRepo := &mockFollowRepository{
		getFollowingFn: func(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
			return []model.UserSummary{{ID: 2, Username: "bob"}}, nil, nil
		},
		checkFollowsFn: func(ctx context.Context, followerID int64, followedIDs []int64) (map[int64]bool, error) {
			t.Fatal("CheckFollows should not be called without a viewer")
			return nil, nil
		},
	}
	svc := NewFollowService(followRepo, &mockUserRepository{})

	result, err := svc.GetFollowing(context.Background(), 5, nil, 20, nil)
	if err != nil {
		t.Fatalf("GetFollowing() error = %v", err)
	}
	if result.HasMore {
		t.Errorf("has_more = true, want false on final page")
	}
}
