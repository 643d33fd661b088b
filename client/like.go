package client

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/Gravitalia/nido/model"
)

// ErrToggleInFlight is returned while a previous toggle waits for the API
var ErrToggleInFlight = errors.New("like toggle already in flight")

// Liker toggles the like of the current user on a post
type Liker interface {
	ToggleLike(ctx context.Context, post string) (model.RelationState, error)
}

// LikeState is what a like button shows
type LikeState struct {
	Liked bool
	Count int64
}

// LikeToggle updates the like state of a post before the API answers,
// and restores it when the call fails
type LikeToggle struct {
	liker Liker
	post  string

	mu       sync.Mutex
	state    LikeState
	inFlight bool
}

// NewLikeToggle starts from the like state of post
func NewLikeToggle(liker Liker, post model.Post) *LikeToggle {
	return &LikeToggle{
		liker: liker,
		post:  post.ID,
		state: LikeState{Liked: post.LikedByUser, Count: post.LikesCount},
	}
}

// State returns the displayed state
func (l *LikeToggle) State() LikeState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Toggle flips the like at once, then reconciles with the API answer
func (l *LikeToggle) Toggle(ctx context.Context) (LikeState, error) {
	l.mu.Lock()
	if l.inFlight {
		state := l.state
		l.mu.Unlock()
		return state, ErrToggleInFlight
	}

	previous := l.state
	l.state.Liked = !previous.Liked
	if l.state.Liked {
		l.state.Count++
	} else if l.state.Count > 0 {
		l.state.Count--
	}
	l.inFlight = true
	l.mu.Unlock()

	res, err := l.liker.ToggleLike(ctx, l.post)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inFlight = false

	if err != nil {
		log.Printf("(LikeToggle) Cannot toggle like on %s: %v", l.post, err)
		l.state = previous
		return l.state, err
	}

	l.state = LikeState{Liked: res.Active, Count: res.Count}
	return l.state, nil
}
