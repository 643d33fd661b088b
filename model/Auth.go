package model

import "time"

// Auth event types, sent to auth-state listeners
const (
	SignedIn    = "SIGNED_IN"
	SignedOut   = "SIGNED_OUT"
	UserUpdated = "USER_UPDATED"
	UserDeleted = "USER_DELETED"
)

// Session is returned on sign up and sign in
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        Profile   `json:"user"`
}

// AuthEvent describes an auth-state change
type AuthEvent struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

// SignUpBody defines the body of the sign up route
type SignUpBody struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignInBody defines the body of the sign in route
type SignInBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
