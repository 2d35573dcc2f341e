package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Fibuc/litrevu/internal/model"
	"github.com/Fibuc/litrevu/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow creates the follow edge. Idempotent: following someone already
// followed is a no-op success, not an error. Self-follow is not guarded;
// the schema allows the edge and downstream queries tolerate it (the
// viewer is in their own visibility set regardless).
func (s *FollowService) Follow(ctx context.Context, followerID, followedID int64) error {
	exists, err := s.userRepo.Exists(ctx, followedID)
	if err != nil {
		return fmt.Errorf("check followed user exists: %w", err)
	}
	if !exists {
		return model.ErrUserNotFound
	}

	inserted, err := s.followRepo.Create(ctx, followerID, followedID)
	if err != nil {
		return err
	}

	if !inserted {
		log.Printf("[FollowService] Follow no-op (already following): follower=%d followed=%d", followerID, followedID)
		return nil
	}

	log.Printf("[FollowService] Follow OK: follower=%d followed=%d", followerID, followedID)
	return nil
}

// Unfollow removes the edge. Removing an absent edge is a no-op success.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID int64) error {
	deleted, err := s.followRepo.Delete(ctx, followerID, followedID)
	if err != nil {
		return err
	}

	if !deleted {
		log.Printf("[FollowService] Unfollow no-op (not following): follower=%d followed=%d", followerID, followedID)
		return nil
	}

	log.Printf("[FollowService] Unfollow OK: follower=%d followed=%d", followerID, followedID)
	return nil
}

// GetFollowers retrieves users who follow the specified user with cursor-based pagination.
//
// Cursor pagination:
// - When cursor is nil: fetch from the beginning (latest followers first)
// - When cursor is provided: fetch followers created BEFORE that timestamp
// - The repository fetches limit+1 rows to determine if there are more results
//
// Two-query approach (fetch users + enrich follow status): the follower list
// comes first, then one batch CheckFollows query (ANY($1), not N+1) marks which
// of them the viewer follows. If the batch check fails the users are still
// returned, just without the flags.
func (s *FollowService) GetFollowers(ctx context.Context, userID int64, cursor *time.Time, limit int, viewerID *int64) (*model.FollowListResponse, error) {
	users, nextCursor, err := s.followRepo.GetFollowers(ctx, userID, cursor, limit)
	if err != nil {
		return nil, err
	}

	if viewerID != nil {
		users = s.enrichWithFollowStatus(ctx, *viewerID, users)
	}

	var nextCursorStr *string
	if nextCursor != nil {
		str := nextCursor.Format(time.RFC3339)
		nextCursorStr = &str
	}

	return &model.FollowListResponse{
		Users:      users,
		NextCursor: nextCursorStr,
		HasMore:    nextCursor != nil,
	}, nil
}

// GetFollowing retrieves users that the specified user follows with cursor-based
// pagination. See GetFollowers for the cursor and enrichment details.
func (s *FollowService) GetFollowing(ctx context.Context, userID int64, cursor *time.Time, limit int, viewerID *int64) (*model.FollowListResponse, error) {
	users, nextCursor, err := s.followRepo.GetFollowing(ctx, userID, cursor, limit)
	if err != nil {
		return nil, err
	}

	if viewerID != nil {
		users = s.enrichWithFollowStatus(ctx, *viewerID, users)
	}

	var nextCursorStr *string
	if nextCursor != nil {
		str := nextCursor.Format(time.RFC3339)
		nextCursorStr = &str
	}

	return &model.FollowListResponse{
		Users:      users,
		NextCursor: nextCursorStr,
		HasMore:    nextCursor != nil,
	}, nil
}

// enrichWithFollowStatus performs a BATCH check (not N+1) to determine if the
// viewer follows each user in the list. One query with followed_id = ANY($1),
// results mapped back onto the slice. A failed check degrades to
// is_following=false rather than failing the request.
func (s *FollowService) enrichWithFollowStatus(ctx context.Context, viewerID int64, users []model.UserSummary) []model.UserSummary {
	if len(users) == 0 {
		return users
	}

	userIDs := make([]int64, len(users))
	for i, user := range users {
		userIDs[i] = user.ID
	}

	followMap, err := s.followRepo.CheckFollows(ctx, viewerID, userIDs)
	if err != nil {
		return users
	}

	for i := range users {
		users[i].IsFollowing = followMap[users[i].ID]
	}

	return users
}
