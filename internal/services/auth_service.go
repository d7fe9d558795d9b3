package services

import (
	"context"
	"fmt"

	"bookkeeping/internal/api"
	"bookkeeping/internal/core"
	"bookkeeping/internal/log"
	"bookkeeping/internal/session"
)

// AuthService signs users in and out of the local session.
type AuthService struct {
	api     *api.Client
	session *session.Store
	logger  *log.Logger
}

func NewAuthService(client *api.Client, sess *session.Store, logger *log.Logger) *AuthService {
	return &AuthService{
		api:     client,
		session: sess,
		logger:  log.OrDefault(logger).WithComponent(log.ComponentSession),
	}
}

// Login authenticates with the service and stores the returned user.
func (s *AuthService) Login(ctx context.Context, creds core.Credentials) (core.User, error) {
	resp, err := s.api.Auth.Login(ctx, creds)
	if err != nil {
		return core.User{}, err
	}
	user, err := api.Decode[core.User](resp)
	if err != nil {
		return core.User{}, fmt.Errorf("login: %w", err)
	}
	if err := s.session.SetUser(ctx, user); err != nil {
		return core.User{}, fmt.Errorf("login: %w", err)
	}
	s.logger.InfoContext(ctx, "Logged in", log.FieldOperation, log.OpLogin, log.FieldUserID, user.ID)
	return user, nil
}

// Register creates an account. It does not sign the user in.
func (s *AuthService) Register(ctx context.Context, creds core.Credentials) (core.User, error) {
	resp, err := s.api.Auth.Register(ctx, creds)
	if err != nil {
		return core.User{}, err
	}
	user, err := api.Decode[core.User](resp)
	if err != nil {
		return core.User{}, fmt.Errorf("register: %w", err)
	}
	return user, nil
}

// Logout clears the session.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}
