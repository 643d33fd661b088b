package router

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Gravitalia/nido/database"
	"github.com/Gravitalia/nido/helpers"
	"github.com/Gravitalia/nido/model"
)

type pair [2]string

// fakeStore keeps every table in memory
type fakeStore struct {
	mu sync.Mutex

	clock         time.Time
	profiles      map[string]model.Profile
	hashes        map[string]string
	settings      map[string]model.Settings
	posts         map[string]model.Post
	likes         map[pair]bool
	follows       map[pair]time.Time
	blocks        map[pair]time.Time
	notifications []model.Notification
	history       []model.SearchHistory

	searchCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		profiles: make(map[string]model.Profile),
		hashes:   make(map[string]string),
		settings: make(map[string]model.Settings),
		posts:    make(map[string]model.Post),
		likes:    make(map[pair]bool),
		follows:  make(map[pair]time.Time),
		blocks:   make(map[pair]time.Time),
	}
}

func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *fakeStore) blockedBetween(a, b string) bool {
	_, ab := s.blocks[pair{a, b}]
	_, ba := s.blocks[pair{b, a}]
	return ab || ba
}

func (s *fakeStore) canSee(viewer, author string) bool {
	_, follows := s.follows[pair{viewer, author}]
	return database.CanSeePosts(viewer, author, s.settings[author].PrivateAccount, follows)
}

func (s *fakeStore) CanAccessPosts(_ context.Context, viewer, author string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canSee(viewer, author), nil
}

func (s *fakeStore) CreateProfile(_ context.Context, profile model.Profile, passwordHash string) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.profiles {
		if strings.EqualFold(p.Username, profile.Username) || strings.EqualFold(p.Email, profile.Email) {
			return model.Profile{}, database.ErrAlreadyExists
		}
	}

	profile.Email = strings.ToLower(profile.Email)
	profile.CreatedAt = s.tick()
	profile.UpdatedAt = profile.CreatedAt
	s.profiles[profile.ID] = profile
	s.hashes[profile.ID] = passwordHash
	return profile, nil
}

func (s *fakeStore) GetProfile(_ context.Context, id string) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return model.Profile{}, database.ErrNotFound
	}
	return p, nil
}

func (s *fakeStore) GetCredentials(_ context.Context, email string) (model.Profile, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.profiles {
		if strings.EqualFold(p.Email, email) {
			return p, s.hashes[p.ID], nil
		}
	}
	return model.Profile{}, "", database.ErrNotFound
}

func (s *fakeStore) ProfilesByUsernames(_ context.Context, names []string) ([]model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]model.Profile, 0)
	for _, name := range names {
		for _, p := range s.profiles {
			if strings.EqualFold(p.Username, name) && !p.Suspended {
				list = append(list, p)
			}
		}
	}
	return list, nil
}

func (s *fakeStore) ProfilesByIDs(_ context.Context, ids []string) ([]model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]model.Profile, 0)
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok && !p.Suspended {
			list = append(list, p)
		}
	}
	return list, nil
}

func (s *fakeStore) UpdateProfile(_ context.Context, id string, body model.UpdateBody) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return model.Profile{}, database.ErrNotFound
	}
	if body.Username != nil {
		for _, other := range s.profiles {
			if other.ID != id && strings.EqualFold(other.Username, *body.Username) {
				return model.Profile{}, database.ErrAlreadyExists
			}
		}
		p.Username = *body.Username
	}
	if body.Email != nil {
		p.Email = strings.ToLower(*body.Email)
	}
	if body.Bio != nil {
		p.Bio = *body.Bio
	}
	if body.Location != nil {
		p.Location = *body.Location
	}
	if body.Website != nil {
		p.Website = *body.Website
	}
	if body.AvatarURL != nil {
		p.AvatarURL = *body.AvatarURL
	}
	if body.CoverURL != nil {
		p.CoverURL = *body.CoverURL
	}
	p.UpdatedAt = s.tick()
	s.profiles[id] = p
	return p, nil
}

func (s *fakeStore) DeleteProfile(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		return database.ErrNotFound
	}
	delete(s.profiles, id)
	for postID, post := range s.posts {
		if post.AuthorID == id {
			delete(s.posts, postID)
		}
	}
	for key := range s.follows {
		if key[0] == id || key[1] == id {
			delete(s.follows, key)
		}
	}
	return nil
}

func (s *fakeStore) SetSuspended(_ context.Context, id string, suspended bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return database.ErrNotFound
	}
	p.Suspended = suspended
	s.profiles[id] = p
	return nil
}

func (s *fakeStore) PopularProfiles(_ context.Context, exclude string, limit int) ([]model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]model.Profile, 0)
	for _, p := range s.profiles {
		if _, follows := s.follows[pair{exclude, p.ID}]; p.ID == exclude || p.Suspended || follows || s.blockedBetween(exclude, p.ID) {
			continue
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].FollowersCount != list[j].FollowersCount {
			return list[i].FollowersCount > list[j].FollowersCount
		}
		return list[i].ID < list[j].ID
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *fakeStore) GetSettings(_ context.Context, user string) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if settings, ok := s.settings[user]; ok {
		return settings, nil
	}
	return model.DefaultSettings(user), nil
}

func (s *fakeStore) UpdateSettings(_ context.Context, user string, body model.SettingsBody) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.settings[user]
	if !ok {
		current = model.DefaultSettings(user)
	}
	settings := body.Apply(current)
	if err := database.ValidateSettings(settings); err != nil {
		return model.Settings{}, err
	}
	s.settings[user] = settings
	return settings, nil
}

func (s *fakeStore) withAuthor(post model.Post, viewer string) model.Post {
	post.Author = s.profiles[post.AuthorID].Short()
	post.LikedByUser = s.likes[pair{post.ID, viewer}]
	return post
}

func (s *fakeStore) CreatePost(_ context.Context, author string, body model.PostBody) (model.Post, error) {
	body, err := database.ValidatePost(body)
	if err != nil {
		return model.Post{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if body.ReplyTo != "" {
		parent, ok := s.posts[body.ReplyTo]
		if !ok {
			return model.Post{}, database.ErrNotFound
		}
		if s.blockedBetween(author, parent.AuthorID) {
			return model.Post{}, database.ErrBlocked
		}
		parent.RepliesCount++
		s.posts[parent.ID] = parent
	}

	post := model.Post{
		ID:        helpers.NewID(),
		AuthorID:  author,
		Content:   body.Content,
		ImageURL:  body.ImageURL,
		ReplyTo:   body.ReplyTo,
		CreatedAt: s.tick(),
	}
	s.posts[post.ID] = post

	p := s.profiles[author]
	p.PostsCount++
	s.profiles[author] = p

	return s.withAuthor(post, author), nil
}

func (s *fakeStore) GetPost(_ context.Context, id, viewer string) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return model.Post{}, database.ErrNotFound
	}
	return s.withAuthor(post, viewer), nil
}

func (s *fakeStore) sorted(keep func(model.Post) bool, viewer string, limit, offset int) []model.Post {
	list := make([]model.Post, 0)
	for _, post := range s.posts {
		if keep(post) {
			list = append(list, s.withAuthor(post, viewer))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })

	if offset >= len(list) {
		return []model.Post{}
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

func (s *fakeStore) GetUserPosts(_ context.Context, author, viewer string, limit, offset int) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sorted(func(p model.Post) bool { return p.AuthorID == author }, viewer, limit, offset), nil
}

func (s *fakeStore) DeletePost(_ context.Context, id, author string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok || post.AuthorID != author {
		return database.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *fakeStore) TimelineFeed(_ context.Context, user string, limit, offset int) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit, offset = helpers.Page(limit, offset, 20, 50)
	return s.sorted(func(p model.Post) bool {
		_, follows := s.follows[pair{user, p.AuthorID}]
		return (p.AuthorID == user || follows) && !s.blockedBetween(user, p.AuthorID)
	}, user, limit, offset), nil
}

func (s *fakeStore) setLike(user, postID string, mode database.Mode) (model.RelationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return model.RelationState{}, database.ErrNotFound
	}

	key := pair{postID, user}
	liked := s.likes[key]
	active := mode.Want(liked)
	switch {
	case active && !liked:
		if s.blockedBetween(user, post.AuthorID) {
			return model.RelationState{}, database.ErrBlocked
		}
		if !s.canSee(user, post.AuthorID) {
			return model.RelationState{}, database.ErrForbidden
		}
		s.likes[key] = true
		post.LikesCount++
	case !active && liked:
		delete(s.likes, key)
		post.LikesCount--
	}
	s.posts[postID] = post

	return model.RelationState{Active: active, Count: post.LikesCount}, nil
}

func (s *fakeStore) ToggleLike(_ context.Context, user, post string) (model.RelationState, error) {
	return s.setLike(user, post, database.Toggle)
}

func (s *fakeStore) Like(_ context.Context, user, post string) (model.RelationState, error) {
	return s.setLike(user, post, database.Create)
}

func (s *fakeStore) Unlike(_ context.Context, user, post string) (model.RelationState, error) {
	return s.setLike(user, post, database.Remove)
}

func (s *fakeStore) IsLiked(_ context.Context, user, post string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.likes[pair{post, user}], nil
}

func (s *fakeStore) count(field func(*model.Profile) *int64, id string, delta int64) {
	p := s.profiles[id]
	*field(&p) += delta
	s.profiles[id] = p
}

func followers(p *model.Profile) *int64 { return &p.FollowersCount }
func following(p *model.Profile) *int64 { return &p.FollowingCount }

func (s *fakeStore) unfollow(follower, followed string) {
	if _, ok := s.follows[pair{follower, followed}]; ok {
		delete(s.follows, pair{follower, followed})
		s.count(following, follower, -1)
		s.count(followers, followed, -1)
	}
}

func (s *fakeStore) setFollow(follower, followed string, mode database.Mode) (model.RelationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if follower == followed {
		return model.RelationState{}, database.ErrSelfRelation
	}
	if _, ok := s.profiles[followed]; !ok {
		return model.RelationState{}, database.ErrNotFound
	}

	_, exists := s.follows[pair{follower, followed}]
	active := mode.Want(exists)
	switch {
	case active && !exists:
		if s.blockedBetween(follower, followed) {
			return model.RelationState{}, database.ErrBlocked
		}
		s.follows[pair{follower, followed}] = s.tick()
		s.count(following, follower, 1)
		s.count(followers, followed, 1)
	case !active && exists:
		s.unfollow(follower, followed)
	}

	return model.RelationState{Active: active, Count: s.profiles[followed].FollowersCount}, nil
}

func (s *fakeStore) ToggleFollow(_ context.Context, follower, followed string) (model.RelationState, error) {
	return s.setFollow(follower, followed, database.Toggle)
}

func (s *fakeStore) Follow(_ context.Context, follower, followed string) (model.RelationState, error) {
	return s.setFollow(follower, followed, database.Create)
}

func (s *fakeStore) Unfollow(_ context.Context, follower, followed string) (model.RelationState, error) {
	return s.setFollow(follower, followed, database.Remove)
}

func (s *fakeStore) IsFollowing(_ context.Context, follower, followed string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.follows[pair{follower, followed}]
	return ok, nil
}

func (s *fakeStore) ids(edges map[pair]time.Time, match func(pair) (string, bool)) []string {
	type entry struct {
		id string
		at time.Time
	}
	found := make([]entry, 0)
	for key, at := range edges {
		if id, ok := match(key); ok {
			found = append(found, entry{id, at})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].at.After(found[j].at) })

	list := make([]string, len(found))
	for i, e := range found {
		list[i] = e.id
	}
	return list
}

func (s *fakeStore) Followers(_ context.Context, id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids(s.follows, func(k pair) (string, bool) { return k[0], k[1] == id }), nil
}

func (s *fakeStore) Following(_ context.Context, id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids(s.follows, func(k pair) (string, bool) { return k[1], k[0] == id }), nil
}

func (s *fakeStore) setBlock(blocker, blocked string, mode database.Mode) (model.RelationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if blocker == blocked {
		return model.RelationState{}, database.ErrSelfRelation
	}
	if _, ok := s.profiles[blocked]; !ok {
		return model.RelationState{}, database.ErrNotFound
	}

	key := pair{blocker, blocked}
	_, exists := s.blocks[key]
	active := mode.Want(exists)
	switch {
	case active && !exists:
		s.blocks[key] = s.tick()
		s.unfollow(blocker, blocked)
		s.unfollow(blocked, blocker)
	case !active && exists:
		delete(s.blocks, key)
	}

	var count int64
	for k := range s.blocks {
		if k[0] == blocker {
			count++
		}
	}
	return model.RelationState{Active: active, Count: count}, nil
}

func (s *fakeStore) ToggleBlock(_ context.Context, blocker, blocked string) (model.RelationState, error) {
	return s.setBlock(blocker, blocked, database.Toggle)
}

func (s *fakeStore) Block(_ context.Context, blocker, blocked string) (model.RelationState, error) {
	return s.setBlock(blocker, blocked, database.Create)
}

func (s *fakeStore) Unblock(_ context.Context, blocker, blocked string) (model.RelationState, error) {
	return s.setBlock(blocker, blocked, database.Remove)
}

func (s *fakeStore) IsBlocked(_ context.Context, blocker, blocked string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blocks[pair{blocker, blocked}]
	return ok, nil
}

func (s *fakeStore) BlockedBetween(_ context.Context, a, b string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blockedBetween(a, b), nil
}

func (s *fakeStore) Blocked(_ context.Context, id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids(s.blocks, func(k pair) (string, bool) { return k[1], k[0] == id }), nil
}

func (s *fakeStore) CreateNotification(_ context.Context, n model.Notification) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = helpers.NewID()
	n.CreatedAt = s.tick()
	s.notifications = append(s.notifications, n)
	return n, nil
}

func (s *fakeStore) GetNotifications(_ context.Context, user string, limit, offset int) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]model.Notification, 0)
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if n := s.notifications[i]; n.UserID == user {
			n.Actor = s.profiles[n.ActorID].Short()
			list = append(list, n)
		}
	}
	if offset >= len(list) {
		return []model.Notification{}, nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *fakeStore) UnreadCount(_ context.Context, user string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, n := range s.notifications {
		if n.UserID == user && !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) MarkAsRead(_ context.Context, id, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id && n.UserID == user {
			s.notifications[i].Read = true
			return nil
		}
	}
	return database.ErrNotFound
}

func (s *fakeStore) MarkAllAsRead(_ context.Context, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.UserID == user {
			s.notifications[i].Read = true
		}
	}
	return nil
}

func (s *fakeStore) DeleteNotification(_ context.Context, id, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id && n.UserID == user {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (s *fakeStore) SearchUsers(_ context.Context, query string, limit int) ([]model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.searchCalls++
	list := make([]model.Profile, 0)
	for _, p := range s.profiles {
		if strings.Contains(helpers.Fold(p.Username), helpers.Fold(query)) && !p.Suspended {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *fakeStore) SearchPosts(_ context.Context, viewer, query string, limit int) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.searchCalls++
	return s.sorted(func(p model.Post) bool {
		return strings.Contains(helpers.Fold(p.Content), helpers.Fold(query)) &&
			!s.profiles[p.AuthorID].Suspended && s.canSee(viewer, p.AuthorID)
	}, viewer, limit, 0), nil
}

func (s *fakeStore) SaveSearchHistory(_ context.Context, user, query, kind string) (model.SearchHistory, error) {
	kind, err := database.ValidHistoryType(kind)
	if err != nil {
		return model.SearchHistory{}, err
	}
	if strings.TrimSpace(query) == "" {
		return model.SearchHistory{}, fmt.Errorf("%w: empty query", database.ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, entry := range s.history {
		if entry.UserID == user && entry.Query == query && entry.Type == kind {
			s.history = append(s.history[:i], s.history[i+1:]...)
			break
		}
	}

	entry := model.SearchHistory{ID: helpers.NewID(), UserID: user, Query: query, Type: kind, CreatedAt: s.tick()}
	s.history = append(s.history, entry)
	return entry, nil
}

func (s *fakeStore) GetSearchHistory(_ context.Context, user string, limit int) ([]model.SearchHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]model.SearchHistory, 0)
	for i := len(s.history) - 1; i >= 0 && len(list) < limit; i-- {
		if s.history[i].UserID == user {
			list = append(list, s.history[i])
		}
	}
	return list, nil
}

func (s *fakeStore) DeleteSearchHistory(_ context.Context, id, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, entry := range s.history {
		if entry.ID == id && entry.UserID == user {
			s.history = append(s.history[:i], s.history[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (s *fakeStore) ClearSearchHistory(_ context.Context, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.history[:0]
	for _, entry := range s.history {
		if entry.UserID != user {
			kept = append(kept, entry)
		}
	}
	s.history = kept
	return nil
}

func (s *fakeStore) notificationsOf(user string) []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]model.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == user {
			list = append(list, n)
		}
	}
	return list
}

// fakeCache is a memory cache also used to revoke tokens
type fakeCache struct {
	mu     sync.Mutex
	values map[string][]byte
	reads  []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string][]byte)}
}

func (c *fakeCache) Get(key string, v any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reads = append(c.reads, key)
	data, ok := c.values[key]
	return ok && json.Unmarshal(data, v) == nil
}

func (c *fakeCache) Set(key string, v any, _ int32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, _ := json.Marshal(v)
	c.values[key] = data
}

func (c *fakeCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}

func (c *fakeCache) read(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.reads {
		if k == key {
			return true
		}
	}
	return false
}

func (c *fakeCache) Revoke(id string, _ time.Time) {
	c.Set("revoked:"+id, true, 0)
}

func (c *fakeCache) IsRevoked(id string) bool {
	var revoked bool
	return c.Get("revoked:"+id, &revoked) && revoked
}

type published struct {
	subject string
	message any
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []published
}

func (p *fakePublisher) Publish(subject string, message any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, published{subject, message})
}

func (p *fakePublisher) on(subject string) []any {
	p.mu.Lock()
	defer p.mu.Unlock()

	list := make([]any, 0)
	for _, m := range p.messages {
		if m.subject == subject {
			list = append(list, m.message)
		}
	}
	return list
}

type fakeGraph struct {
	mu          sync.Mutex
	edges       map[string]bool
	suggestions []string
	err         error
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{edges: make(map[string]bool)}
}

func (g *fakeGraph) CreateUser(context.Context, string) error { return nil }
func (g *fakeGraph) DeleteUser(context.Context, string) error { return nil }

func (g *fakeGraph) Relate(_ context.Context, id, to, relationType string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges[id+"-"+relationType+"->"+to] = true
	return nil
}

func (g *fakeGraph) Unrelate(_ context.Context, id, to, relationType string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.edges, id+"-"+relationType+"->"+to)
	return nil
}

func (g *fakeGraph) Suggestions(context.Context, string, int) ([]string, error) {
	return g.suggestions, g.err
}

func (g *fakeGraph) has(edge string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.edges[edge]
}
