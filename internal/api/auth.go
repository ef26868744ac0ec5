package api

import (
	"context"
	"net/http"

	"github.com/aymane70/taskman/internal/model"
)

// AuthPayload is what the auth endpoints return on success
type AuthPayload struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session token
func (c *Client) Login(ctx context.Context, username, password string) (AuthPayload, error) {
	var payload AuthPayload
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, loginRequest{
		Username: username,
		Password: password,
	}, &payload)
	return payload, err
}

// Register creates a new account and returns its first session token
func (c *Client) Register(ctx context.Context, username, email, password string) (AuthPayload, error) {
	var payload AuthPayload
	err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &payload)
	return payload, err
}
