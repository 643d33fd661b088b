package model

import "time"

// Notification types
const (
	NotificationLike    = "like"
	NotificationFollow  = "follow"
	NotificationReply   = "reply"
	NotificationMention = "mention"
)

// Notification is the record of an event targeted at a user
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ActorID   string    `json:"actor_id"`
	Type      string    `json:"type"`
	PostID    string    `json:"post_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
	Actor     *Author   `json:"actor,omitempty"`
	Post      *Post     `json:"post,omitempty"`
}

// UnreadCount is the body of the unread route
type UnreadCount struct {
	Count int64 `json:"count"`
}
