package model

import "time"

// Profile struct defines user's data architecture
type Profile struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	Website        string    `json:"website"`
	AvatarURL      string    `json:"avatar_url"`
	CoverURL       string    `json:"cover_url"`
	IsVerified     bool      `json:"is_verified"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	PostsCount     int64     `json:"posts_count"`
	Suspended      bool      `json:"suspended"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Author is the short profile embedded into posts
// and notifications
type Author struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	AvatarURL  string `json:"avatar_url"`
	IsVerified bool   `json:"is_verified"`
}

// ProfileView is what a viewer gets when opening a profile
type ProfileView struct {
	Profile
	Public         bool   `json:"public"`
	CanAccessPosts bool   `json:"access_post"`
	IsFollowing    bool   `json:"is_following"`
	IsBlocked      bool   `json:"is_blocked"`
	Posts          []Post `json:"posts"`
}

// Short returns the author form of a profile
func (p Profile) Short() *Author {
	return &Author{
		ID:         p.ID,
		Username:   p.Username,
		AvatarURL:  p.AvatarURL,
		IsVerified: p.IsVerified,
	}
}
