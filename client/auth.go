package client

import (
	"context"
	"net/http"

	"github.com/Gravitalia/nido/model"
)

func (c *Client) SignUp(ctx context.Context, email, username, password string) (*model.Session, error) {
	var session model.Session
	err := c.do(ctx, http.MethodPost, "/auth/signup", model.SignUpBody{
		Email:    email,
		Username: username,
		Password: password,
	}, &session)
	if err != nil {
		return nil, err
	}

	c.setSession(model.SignedIn, &session)
	return c.Session(), nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	var session model.Session
	err := c.do(ctx, http.MethodPost, "/auth/signin", model.SignInBody{
		Email:    email,
		Password: password,
	}, &session)
	if err != nil {
		return nil, err
	}

	c.setSession(model.SignedIn, &session)
	return c.Session(), nil
}

// SignOut revokes the token. The local session is dropped even
// when the API cannot be reached
func (c *Client) SignOut(ctx context.Context) error {
	if c.token() == "" {
		return nil
	}

	err := c.do(ctx, http.MethodPost, "/auth/signout", nil, nil)
	c.setSession(model.SignedOut, nil)
	return err
}

// GetUser returns the current user as known by the API
func (c *Client) GetUser(ctx context.Context) (model.Profile, error) {
	var profile model.Profile
	err := c.do(ctx, http.MethodGet, "/auth/user", nil, &profile)
	return profile, err
}

// DeleteAccount deletes the current user and drops the session
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/users/@me", nil, nil); err != nil {
		return err
	}

	c.setSession(model.UserDeleted, nil)
	return nil
}
