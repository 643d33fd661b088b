package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Gravitalia/nido/model"
)

// Doer sends HTTP requests, *http.Client satisfies it
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is an error envelope answered by the API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("nido: %d %s", e.Status, e.Message)
}

// AuthListener is called on every auth-state change. session
// is nil once signed out
type AuthListener func(event model.AuthEvent, session *model.Session)

// Client calls the HTTP API and keeps the current session
type Client struct {
	baseURL string
	http    Doer

	mu        sync.RWMutex
	session   *model.Session
	listeners map[int]AuthListener
	nextID    int
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		c.http = doer
	}
}

// WithSession restores a saved session
func WithSession(session model.Session) Option {
	return func(c *Client) {
		c.session = &session
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		http:      &http.Client{Timeout: 30 * time.Second},
		listeners: make(map[int]AuthListener),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns a copy of the current session, or nil
func (c *Client) Session() *model.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.session == nil {
		return nil
	}
	session := *c.session
	return &session
}

// OnAuthStateChange registers a listener and returns the
// function removing it
func (c *Client) OnAuthStateChange(listener AuthListener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = listener

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.listeners, id)
		})
	}
}

// setSession replaces the session and tells listeners
func (c *Client) setSession(kind string, session *model.Session) {
	c.mu.Lock()
	var userID string
	if session != nil {
		userID = session.User.ID
	} else if c.session != nil {
		userID = c.session.User.ID
	}
	c.session = session

	listeners := make([]AuthListener, 0, len(c.listeners))
	for _, listener := range c.listeners {
		listeners = append(listeners, listener)
	}
	c.mu.Unlock()

	event := model.AuthEvent{Type: kind, UserID: userID}
	for _, listener := range listeners {
		var copied *model.Session
		if session != nil {
			s := *session
			copied = &s
		}
		listener(event, copied)
	}
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.session == nil {
		return ""
	}
	return c.session.AccessToken
}

// send performs a request with a raw body and decodes the
// JSON answer into out when not nil
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode >= http.StatusBadRequest {
		var envelope model.RequestError
		if json.Unmarshal(data, &envelope) != nil || envelope.Message == "" {
			envelope.Message = http.StatusText(res.StatusCode)
		}
		return &APIError{Status: res.StatusCode, Message: envelope.Message}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// do sends body as JSON
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if body == nil {
		return c.send(ctx, method, path, nil, "", out)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.send(ctx, method, path, bytes.NewReader(data), "application/json", out)
}

// query builds a query string, skipping empty values
func query(values map[string]string) string {
	q := url.Values{}
	for key, value := range values {
		if value != "" && value != "0" && value != "false" {
			q.Set(key, value)
		}
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
