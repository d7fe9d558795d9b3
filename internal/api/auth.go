package api

import (
	"context"
	"fmt"
	"net/http"

	"bookkeeping/internal/core"
)

// AuthAPI covers login and registration.
type AuthAPI struct {
	c *Client
}

// Login posts credentials to /auth/login.
func (a *AuthAPI) Login(ctx context.Context, creds core.Credentials) (*Response, error) {
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return a.c.Do(ctx, http.MethodPost, "/auth/login", nil, creds)
}

// Register posts credentials to /auth/register.
func (a *AuthAPI) Register(ctx context.Context, creds core.Credentials) (*Response, error) {
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return a.c.Do(ctx, http.MethodPost, "/auth/register", nil, creds)
}
