package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Gravitalia/nido/database"
	"github.com/Gravitalia/nido/helpers"
	"github.com/Gravitalia/nido/model"
	"github.com/Gravitalia/nido/storage"
	"github.com/cristalhq/jwt/v5"
)

// ProfileStore holds profiles and their settings
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile model.Profile, passwordHash string) (model.Profile, error)
	GetProfile(ctx context.Context, id string) (model.Profile, error)
	GetCredentials(ctx context.Context, email string) (model.Profile, string, error)
	ProfilesByUsernames(ctx context.Context, names []string) ([]model.Profile, error)
	ProfilesByIDs(ctx context.Context, ids []string) ([]model.Profile, error)
	UpdateProfile(ctx context.Context, id string, body model.UpdateBody) (model.Profile, error)
	DeleteProfile(ctx context.Context, id string) error
	SetSuspended(ctx context.Context, id string, suspended bool) error
	PopularProfiles(ctx context.Context, exclude string, limit int) ([]model.Profile, error)
	GetSettings(ctx context.Context, user string) (model.Settings, error)
	UpdateSettings(ctx context.Context, user string, body model.SettingsBody) (model.Settings, error)
}

// PostStore holds posts and the timeline
type PostStore interface {
	CreatePost(ctx context.Context, author string, body model.PostBody) (model.Post, error)
	GetPost(ctx context.Context, id, viewer string) (model.Post, error)
	GetUserPosts(ctx context.Context, author, viewer string, limit, offset int) ([]model.Post, error)
	DeletePost(ctx context.Context, id, author string) error
	CanAccessPosts(ctx context.Context, viewer, author string) (bool, error)
	TimelineFeed(ctx context.Context, user string, limit, offset int) ([]model.Post, error)
}

// RelationStore holds likes, follows and blocks
type RelationStore interface {
	ToggleLike(ctx context.Context, user, post string) (model.RelationState, error)
	Like(ctx context.Context, user, post string) (model.RelationState, error)
	Unlike(ctx context.Context, user, post string) (model.RelationState, error)
	IsLiked(ctx context.Context, user, post string) (bool, error)
	ToggleFollow(ctx context.Context, follower, following string) (model.RelationState, error)
	Follow(ctx context.Context, follower, following string) (model.RelationState, error)
	Unfollow(ctx context.Context, follower, following string) (model.RelationState, error)
	IsFollowing(ctx context.Context, follower, following string) (bool, error)
	Followers(ctx context.Context, id string) ([]string, error)
	Following(ctx context.Context, id string) ([]string, error)
	ToggleBlock(ctx context.Context, blocker, blocked string) (model.RelationState, error)
	Block(ctx context.Context, blocker, blocked string) (model.RelationState, error)
	Unblock(ctx context.Context, blocker, blocked string) (model.RelationState, error)
	IsBlocked(ctx context.Context, blocker, blocked string) (bool, error)
	BlockedBetween(ctx context.Context, a, b string) (bool, error)
	Blocked(ctx context.Context, id string) ([]string, error)
}

// NotificationStore holds notifications
type NotificationStore interface {
	CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error)
	GetNotifications(ctx context.Context, user string, limit, offset int) ([]model.Notification, error)
	UnreadCount(ctx context.Context, user string) (int64, error)
	MarkAsRead(ctx context.Context, id, user string) error
	MarkAllAsRead(ctx context.Context, user string) error
	DeleteNotification(ctx context.Context, id, user string) error
}

// SearchStore runs searches and keeps their history
type SearchStore interface {
	SearchUsers(ctx context.Context, query string, limit int) ([]model.Profile, error)
	SearchPosts(ctx context.Context, viewer, query string, limit int) ([]model.Post, error)
	SaveSearchHistory(ctx context.Context, user, query, kind string) (model.SearchHistory, error)
	GetSearchHistory(ctx context.Context, user string, limit int) ([]model.SearchHistory, error)
	DeleteSearchHistory(ctx context.Context, id, user string) error
	ClearSearchHistory(ctx context.Context, user string) error
}

// Store is every table the API reads and writes
type Store interface {
	ProfileStore
	PostStore
	RelationStore
	NotificationStore
	SearchStore
}

// Graph mirrors follows and blocks and suggests accounts
type Graph interface {
	CreateUser(ctx context.Context, id string) error
	DeleteUser(ctx context.Context, id string) error
	Relate(ctx context.Context, id, to, relationType string) error
	Unrelate(ctx context.Context, id, to, relationType string) error
	Suggestions(ctx context.Context, id string, limit int) ([]string, error)
}

// Cache keeps short lived JSON values
type Cache interface {
	Get(key string, v any) bool
	Set(key string, v any, ttl int32)
	Delete(key string)
}

// Publisher sends events to listeners
type Publisher interface {
	Publish(subject string, message any)
}

const (
	profileTTL = 300
	unreadTTL  = 60
)

// Router serves the HTTP API
type Router struct {
	store     Store
	graph     Graph
	cache     Cache
	publisher Publisher
	sessions  *helpers.Sessions
	storage   storage.Store
	files     http.Handler
	notifier  *Notifier

	globalAuth     string
	maxUploadBytes int64
	now            func() time.Time
}

// Options are the dependencies of a Router. Graph, Cache,
// Publisher, Storage and Files are optional
type Options struct {
	Store          Store
	Graph          Graph
	Cache          Cache
	Publisher      Publisher
	Sessions       *helpers.Sessions
	Storage        storage.Store
	Files          http.Handler
	GlobalAuth     string
	MaxUploadBytes int64
}

type noCache struct{}

func (noCache) Get(string, any) bool   { return false }
func (noCache) Set(string, any, int32) {}
func (noCache) Delete(string)          {}

type noPublisher struct{}

func (noPublisher) Publish(string, any) {}

type noGraph struct{}

func (noGraph) CreateUser(context.Context, string) error               { return nil }
func (noGraph) DeleteUser(context.Context, string) error               { return nil }
func (noGraph) Relate(context.Context, string, string, string) error   { return nil }
func (noGraph) Unrelate(context.Context, string, string, string) error { return nil }
func (noGraph) Suggestions(context.Context, string, int) ([]string, error) {
	return []string{}, nil
}

// New builds a router, replacing missing optional dependencies
// by no-ops
func New(opts Options) *Router {
	rt := &Router{
		store:          opts.Store,
		graph:          opts.Graph,
		cache:          opts.Cache,
		publisher:      opts.Publisher,
		sessions:       opts.Sessions,
		storage:        opts.Storage,
		files:          opts.Files,
		globalAuth:     opts.GlobalAuth,
		maxUploadBytes: opts.MaxUploadBytes,
		now:            time.Now,
	}

	if rt.graph == nil {
		rt.graph = noGraph{}
	}
	if rt.cache == nil {
		rt.cache = noCache{}
	}
	if rt.publisher == nil {
		rt.publisher = noPublisher{}
	}
	if rt.maxUploadBytes <= 0 {
		rt.maxUploadBytes = 5 << 20
	}

	rt.notifier = NewNotifier(rt.store, rt.cache, rt.publisher)

	return rt
}

// Mux mounts every route
func (rt *Router) Mux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", Index)
	mux.HandleFunc("/auth/", rt.AuthHandler)
	mux.HandleFunc("/users/", rt.UserHandler)
	mux.HandleFunc("/settings/", rt.SettingsHandler)
	mux.HandleFunc("/posts/", rt.PostHandler)
	mux.HandleFunc("/relation/", rt.RelationHandler)
	mux.HandleFunc("/list/", rt.ListHandler)
	mux.HandleFunc("/suggestions", rt.Suggestions)
	mux.HandleFunc("/feed", rt.Feed)
	mux.HandleFunc("/search/", rt.SearchHandler)
	mux.HandleFunc("/notifications", rt.NotificationHandler)
	mux.HandleFunc("/notifications/", rt.NotificationHandler)
	mux.HandleFunc("/storage/", rt.StorageHandler)
	mux.HandleFunc("/suspend", rt.Suspend)

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.RequestError{
		Error:   true,
		Message: message,
	})
}

func writeOk(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, model.RequestError{
		Error:   false,
		Message: message,
	})
}

// storeError answers with the status matching a store error
func storeError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, database.ErrAlreadyExists):
		writeError(w, http.StatusConflict, ErrorAlreadyExists)
	case errors.Is(err, database.ErrSelfRelation):
		writeError(w, http.StatusBadRequest, ErrorSelfRelation)
	case errors.Is(err, database.ErrBlocked):
		writeError(w, http.StatusForbidden, ErrorBlocked)
	case errors.Is(err, database.ErrForbidden):
		writeError(w, http.StatusForbidden, ErrorInvalidPostAccess)
	case errors.Is(err, database.ErrInvalid), errors.Is(err, helpers.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("(Store) %v", err)
		writeError(w, http.StatusInternalServerError, ErrorWithDatabase)
	}
}

// decode reads a JSON body into v, answering on failure
func decode(w http.ResponseWriter, req *http.Request, v any) bool {
	defer req.Body.Close()

	body, err := io.ReadAll(io.LimitReader(req.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorUnableReadBody)
		return false
	}

	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorInvalidBody)
		return false
	}

	return true
}

// claims returns the token claims of the request. ok is false when
// no token was sent; err is set when the token is invalid
func (rt *Router) claims(req *http.Request) (claims jwt.RegisteredClaims, ok bool, err error) {
	token := req.Header.Get("Authorization")
	if token == "" {
		return claims, false, nil
	}

	claims, err = rt.sessions.CheckToken(token)
	return claims, true, err
}

// viewer returns the ID of the optional user behind the request.
// An invalid token is answered with 401
func (rt *Router) viewer(w http.ResponseWriter, req *http.Request) (string, bool) {
	claims, sent, err := rt.claims(req)
	if !sent {
		return "", true
	} else if err != nil {
		writeError(w, http.StatusUnauthorized, ErrorInvalidToken)
		return "", false
	}
	return claims.Subject, true
}

// user returns the ID of the authenticated user. Missing tokens and
// deleted accounts are answered with 401, suspended accounts with 403
func (rt *Router) user(w http.ResponseWriter, req *http.Request) (string, bool) {
	claims, sent, err := rt.claims(req)
	if !sent || err != nil {
		writeError(w, http.StatusUnauthorized, ErrorInvalidToken)
		return "", false
	}

	profile, err := rt.profile(req.Context(), claims.Subject)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, ErrorInvalidToken)
		return "", false
	} else if err != nil {
		storeError(w, err, ErrorInvalidUser)
		return "", false
	}

	if profile.Suspended {
		writeError(w, http.StatusForbidden, ErrorSuspended)
		return "", false
	}

	return claims.Subject, true
}

// isAdmin checks the shared moderation token
func (rt *Router) isAdmin(req *http.Request) bool {
	return rt.globalAuth != "" && req.Header.Get("Authorization") == rt.globalAuth
}

// page reads limit and offset from the query
func page(req *http.Request, def, max int) (int, int) {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(req.URL.Query().Get("offset"))
	return helpers.Page(limit, offset, def, max)
}

// segments splits what follows prefix in the path
func segments(path, prefix string) []string {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

func profileKey(id string) string {
	return "profile:" + id
}

func unreadKey(id string) string {
	return "unread:" + id
}

// profile reads a profile through the cache
func (rt *Router) profile(ctx context.Context, id string) (model.Profile, error) {
	var profile model.Profile
	if rt.cache.Get(profileKey(id), &profile) {
		return profile, nil
	}

	profile, err := rt.store.GetProfile(ctx, id)
	if err != nil {
		return model.Profile{}, err
	}

	rt.cache.Set(profileKey(id), profile, profileTTL)
	return profile, nil
}
