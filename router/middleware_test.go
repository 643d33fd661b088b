package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(2, time.Minute)
	limiter.now = func() time.Time { return now }

	require.True(t, limiter.Allow("1.1.1.1"))
	require.True(t, limiter.Allow("1.1.1.1"))
	require.False(t, limiter.Allow("1.1.1.1"))
	require.True(t, limiter.Allow("2.2.2.2"))

	now = now.Add(61 * time.Second)
	require.True(t, limiter.Allow("1.1.1.1"))

	// idle clients are forgotten
	now = now.Add(5 * time.Minute)
	limiter.Allow("3.3.3.3")
	require.Len(t, limiter.clients, 1)
}

func TestRateLimiterMiddleware(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req.RemoteAddr = "10.0.0.1:4242"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusNoContent, serve(http.MethodPost, "/posts/new"))
	require.Equal(t, http.StatusTooManyRequests, serve(http.MethodPost, "/posts/new"))

	// reads and likes go through
	require.Equal(t, http.StatusNoContent, serve(http.MethodGet, "/feed"))
	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusNoContent, serve(http.MethodPost, "/relation/like"))
	}

	// every spelling of the like route is a like
	require.Equal(t, http.StatusNoContent, serve(http.MethodPost, "/relation/like/"))
	require.Equal(t, http.StatusNoContent, serve(http.MethodPost, "/relation/Like"))
	require.Equal(t, http.StatusNoContent, serve(http.MethodPut, "/relation/LIKE"))
	require.Equal(t, http.StatusNoContent, serve(http.MethodDelete, "/relation/like"))

	// other relations and PUT are limited
	require.Equal(t, http.StatusTooManyRequests, serve(http.MethodPost, "/relation/follow"))
	require.Equal(t, http.StatusTooManyRequests, serve(http.MethodPut, "/relation/block"))
	require.Equal(t, http.StatusTooManyRequests, serve(http.MethodPost, "/likes"))
}

func TestIsLike(t *testing.T) {
	require.True(t, isLike("/relation/like"))
	require.True(t, isLike("/relation/Like/"))
	require.False(t, isLike("/relation/follow"))
	require.False(t, isLike("/like"))
	require.False(t, isLike("/posts/relation/like"))
}
