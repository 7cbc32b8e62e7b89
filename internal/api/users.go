package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/chirpsocial/chirp-go/internal/models"
)

// Register creates an account and returns the new user.
func (c *Client) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	req := models.RegisterRequest{Username: username, Email: email, Password: password}
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and returns the viewer. Cookie-session deployments set
// a session cookie on the client's jar; token deployments additionally return
// a bearer token, which is installed on the client for subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	req := models.LoginRequest{Email: email, Password: password}
	var auth models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/login", req, &auth); err != nil {
		return nil, err
	}
	if auth.Token != "" {
		c.token = auth.Token
	}
	return &auth, nil
}

// Me returns the currently authenticated user.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserProfile fetches a profile by username.
func (c *Client) UserProfile(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(username), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
