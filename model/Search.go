package model

import "time"

// Search history types
const (
	SearchAll    = "all"
	SearchPeople = "people"
	SearchPosts  = "posts"
)

// SearchHistory is a query saved by a user
type SearchHistory struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Query     string    `json:"query"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryBody defines the body when saving a search
type HistoryBody struct {
	Query string `json:"query"`
	Type  string `json:"type"`
}
