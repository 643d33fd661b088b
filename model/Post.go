package model

import "time"

// MaxPostLength is the number of characters a post may hold
const MaxPostLength = 280

// Post struct defines how post must be
type Post struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	Content      string    `json:"content"`
	ImageURL     string    `json:"image_url,omitempty"`
	ReplyTo      string    `json:"reply_to,omitempty"`
	LikesCount   int64     `json:"likes_count"`
	RepliesCount int64     `json:"replies_count"`
	LikedByUser  bool      `json:"liked_by_user"`
	CreatedAt    time.Time `json:"created_at"`
	Author       *Author   `json:"author,omitempty"`
}

// PostBody defines the body when posting
// new content
type PostBody struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
	ReplyTo  string `json:"reply_to,omitempty"`
}
