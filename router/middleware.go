package router

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Gravitalia/nido/helpers"
	"github.com/Gravitalia/nido/model"
)

// Metrics counts every request but scrapes and observes its duration
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/metrics" {
			next.ServeHTTP(w, req)
			return
		}

		start := time.Now()
		next.ServeHTTP(w, req)

		helpers.IncrementRequests()
		helpers.ObserveRequestDuration(time.Since(start).Seconds())
	})
}

type clientState struct {
	windowStart  time.Time
	requestCount int
}

// RateLimiter limits write requests of each IP address per window.
// Likes are never limited, users must be able to toggle them quickly
type RateLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientState
	lastSweep time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:     max,
		window:  window,
		now:     time.Now,
		clients: make(map[string]*clientState),
	}
}

// Allow counts a request of ip and reports if it may go through
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	// forget clients idle for two windows
	if now.Sub(l.lastSweep) > l.window {
		for key, state := range l.clients {
			if now.Sub(state.windowStart) > 2*l.window {
				delete(l.clients, key)
			}
		}
		l.lastSweep = now
	}

	state, exists := l.clients[ip]
	if !exists {
		state = &clientState{windowStart: now}
		l.clients[ip] = state
	}

	if now.Sub(state.windowStart) > l.window {
		state.windowStart = now
		state.requestCount = 0
	}

	state.requestCount++
	return state.requestCount <= l.max
}

// Middleware applies the limit to writing requests, likes excepted
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			next.ServeHTTP(w, req)
			return
		}

		if isLike(req.URL.Path) {
			next.ServeHTTP(w, req)
			return
		}

		ip, _, err := net.SplitHostPort(req.RemoteAddr)
		if err != nil {
			ip = req.RemoteAddr
		}

		if !l.Allow(ip) {
			writeError(w, http.StatusTooManyRequests, ErrorTooManyRequests)
			return
		}

		next.ServeHTTP(w, req)
	})
}

// isLike matches every spelling the relation route accepts for likes
func isLike(path string) bool {
	if !strings.HasPrefix(path, "/relation/") {
		return false
	}
	kind, ok := helpers.RelationKind(strings.TrimPrefix(path, "/relation/"))
	return ok && kind == model.RelationLike
}
