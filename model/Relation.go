package model

import "time"

// Relation kinds, named after the graph edges
const (
	RelationLike   = "Like"
	RelationFollow = "Subscriber"
	RelationBlock  = "Block"
)

// Like is the association between a user and a post
type Like struct {
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Follow is a directed relationship between two profiles
type Follow struct {
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Block hides the blocked profile from the blocker
type Block struct {
	BlockerID string    `json:"blocker_id"`
	BlockedID string    `json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RelationState is returned after a toggle. Count is the
// target's counter: likes of a post or followers of a user
type RelationState struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}
