package model

import (
	"time"
)

// Follow is a directed edge in the follow graph. Uniqueness on the ordered
// (follower_id, followed_id) pair is enforced by the database; a duplicate
// follow is treated as a no-op, not an error.
type Follow struct {
	FollowerID int64     `db:"follower_id" json:"follower_id"`
	FollowedID int64     `db:"followed_id" json:"followed_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// FollowListResponse is the paginated follower/following list response.
type FollowListResponse struct {
	Users      []UserSummary `json:"users"`
	NextCursor *string       `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}
