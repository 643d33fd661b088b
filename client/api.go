package client

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Gravitalia/nido/model"
)

func (c *Client) GetProfile(ctx context.Context, id string) (model.ProfileView, error) {
	var view model.ProfileView
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &view)
	return view, err
}

// UpdateProfile edits the current user and tells listeners
func (c *Client) UpdateProfile(ctx context.Context, body model.UpdateBody) (model.Profile, error) {
	var profile model.Profile
	if err := c.do(ctx, http.MethodPatch, "/users/@me", body, &profile); err != nil {
		return model.Profile{}, err
	}

	if session := c.Session(); session != nil {
		session.User = profile
		c.setSession(model.UserUpdated, session)
	}
	return profile, nil
}

func (c *Client) GetSettings(ctx context.Context) (model.Settings, error) {
	var settings model.Settings
	err := c.do(ctx, http.MethodGet, "/settings/@me", nil, &settings)
	return settings, err
}

func (c *Client) UpdateSettings(ctx context.Context, body model.SettingsBody) (model.Settings, error) {
	var settings model.Settings
	err := c.do(ctx, http.MethodPatch, "/settings/@me", body, &settings)
	return settings, err
}

func (c *Client) CreatePost(ctx context.Context, body model.PostBody) (model.Post, error) {
	var post model.Post
	err := c.do(ctx, http.MethodPost, "/posts/new", body, &post)
	return post, err
}

func (c *Client) GetPost(ctx context.Context, id string) (model.Post, error) {
	var post model.Post
	err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), nil, &post)
	return post, err
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id), nil, nil)
}

// Feed returns the timeline of the current user
func (c *Client) Feed(ctx context.Context, limit, offset int) ([]model.Post, error) {
	var posts []model.Post
	err := c.do(ctx, http.MethodGet, "/feed"+query(map[string]string{
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	}), nil, &posts)
	return posts, err
}

// set sends a relation change: POST toggles, PUT creates and DELETE removes
func (c *Client) set(ctx context.Context, method, relation, id string) (model.RelationState, error) {
	var state model.RelationState
	err := c.do(ctx, method, "/relation/"+relation, model.SetBody{ID: id}, &state)
	return state, err
}

func (c *Client) toggle(ctx context.Context, relation, id string) (model.RelationState, error) {
	return c.set(ctx, http.MethodPost, relation, id)
}

func (c *Client) exists(ctx context.Context, relation, target string) (bool, error) {
	var res model.RequestError
	if err := c.do(ctx, http.MethodGet, "/relation/"+relation+query(map[string]string{"target": target}), nil, &res); err != nil {
		return false, err
	}
	return res.Message == "existent", nil
}

func (c *Client) ToggleLike(ctx context.Context, post string) (model.RelationState, error) {
	return c.toggle(ctx, "like", post)
}

func (c *Client) Like(ctx context.Context, post string) (model.RelationState, error) {
	return c.set(ctx, http.MethodPut, "like", post)
}

func (c *Client) Unlike(ctx context.Context, post string) (model.RelationState, error) {
	return c.set(ctx, http.MethodDelete, "like", post)
}

func (c *Client) IsLiked(ctx context.Context, post string) (bool, error) {
	return c.exists(ctx, "like", post)
}

func (c *Client) ToggleFollow(ctx context.Context, user string) (model.RelationState, error) {
	return c.toggle(ctx, "follow", user)
}

// Follow follows user, doing nothing when already following
func (c *Client) Follow(ctx context.Context, user string) (model.RelationState, error) {
	return c.set(ctx, http.MethodPut, "follow", user)
}

func (c *Client) Unfollow(ctx context.Context, user string) (model.RelationState, error) {
	return c.set(ctx, http.MethodDelete, "follow", user)
}

func (c *Client) IsFollowing(ctx context.Context, user string) (bool, error) {
	return c.exists(ctx, "follow", user)
}

func (c *Client) ToggleBlock(ctx context.Context, user string) (model.RelationState, error) {
	return c.toggle(ctx, "block", user)
}

func (c *Client) Block(ctx context.Context, user string) (model.RelationState, error) {
	return c.set(ctx, http.MethodPut, "block", user)
}

func (c *Client) Unblock(ctx context.Context, user string) (model.RelationState, error) {
	return c.set(ctx, http.MethodDelete, "block", user)
}

func (c *Client) IsBlocked(ctx context.Context, user string) (bool, error) {
	return c.exists(ctx, "block", user)
}

func (c *Client) list(ctx context.Context, name, user string) ([]string, error) {
	var ids []string
	err := c.do(ctx, http.MethodGet, "/list/"+name+query(map[string]string{"user": user}), nil, &ids)
	return ids, err
}

// Followers lists the followers of user, or of the current user when empty
func (c *Client) Followers(ctx context.Context, user string) ([]string, error) {
	return c.list(ctx, "followers", user)
}

func (c *Client) Following(ctx context.Context, user string) ([]string, error) {
	return c.list(ctx, "following", user)
}

func (c *Client) Blocked(ctx context.Context) ([]string, error) {
	return c.list(ctx, "blocked", "")
}

func (c *Client) Suggestions(ctx context.Context, limit int) ([]model.Profile, error) {
	var profiles []model.Profile
	err := c.do(ctx, http.MethodGet, "/suggestions"+query(map[string]string{"limit": strconv.Itoa(limit)}), nil, &profiles)
	return profiles, err
}

// SearchUsers searches profiles, saving the query in the history when save is set
func (c *Client) SearchUsers(ctx context.Context, q string, limit int, save bool) ([]model.Profile, error) {
	var profiles []model.Profile
	err := c.do(ctx, http.MethodGet, "/search/users"+query(map[string]string{
		"q":     q,
		"limit": strconv.Itoa(limit),
		"save":  strconv.FormatBool(save && q != ""),
	}), nil, &profiles)
	return profiles, err
}

func (c *Client) SearchPosts(ctx context.Context, q string, limit int, save bool) ([]model.Post, error) {
	var posts []model.Post
	err := c.do(ctx, http.MethodGet, "/search/posts"+query(map[string]string{
		"q":     q,
		"limit": strconv.Itoa(limit),
		"save":  strconv.FormatBool(save && q != ""),
	}), nil, &posts)
	return posts, err
}

func (c *Client) SearchHistory(ctx context.Context) ([]model.SearchHistory, error) {
	var history []model.SearchHistory
	err := c.do(ctx, http.MethodGet, "/search/history", nil, &history)
	return history, err
}

func (c *Client) SaveSearch(ctx context.Context, q, kind string) (model.SearchHistory, error) {
	var entry model.SearchHistory
	err := c.do(ctx, http.MethodPost, "/search/history", model.HistoryBody{Query: q, Type: kind}, &entry)
	return entry, err
}

func (c *Client) DeleteSearch(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/search/history/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ClearSearchHistory(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/search/history", nil, nil)
}

func (c *Client) Notifications(ctx context.Context, limit, offset int) ([]model.Notification, error) {
	var list []model.Notification
	err := c.do(ctx, http.MethodGet, "/notifications"+query(map[string]string{
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	}), nil, &list)
	return list, err
}

func (c *Client) UnreadCount(ctx context.Context) (int64, error) {
	var count model.UnreadCount
	err := c.do(ctx, http.MethodGet, "/notifications/unread", nil, &count)
	return count.Count, err
}

func (c *Client) MarkAsRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

func (c *Client) MarkAllAsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/notifications/read", nil, nil)
}

func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notifications/"+url.PathEscape(id), nil, nil)
}

// UploadImage stores an image in bucket and returns its public URL
func (c *Client) UploadImage(ctx context.Context, bucket, filename string, data []byte) (string, error) {
	var upload model.Upload
	err := c.send(ctx, http.MethodPost, "/storage/"+url.PathEscape(bucket)+query(map[string]string{"filename": filename}),
		bytes.NewReader(data), http.DetectContentType(data), &upload)
	return upload.URL, err
}

// UploadAvatar uploads the image, then saves its URL on the profile
func (c *Client) UploadAvatar(ctx context.Context, filename string, data []byte) (model.Profile, error) {
	link, err := c.UploadImage(ctx, "avatars", filename, data)
	if err != nil {
		return model.Profile{}, err
	}
	return c.UpdateProfile(ctx, model.UpdateBody{AvatarURL: &link})
}

// UploadCover uploads the image, then saves its URL on the profile
func (c *Client) UploadCover(ctx context.Context, filename string, data []byte) (model.Profile, error) {
	link, err := c.UploadImage(ctx, "covers", filename, data)
	if err != nil {
		return model.Profile{}, err
	}
	return c.UpdateProfile(ctx, model.UpdateBody{CoverURL: &link})
}
