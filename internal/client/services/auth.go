// Package services contains application services for the VitaBuddy client:
// session handling and the activity store client.
package services

import (
	"context"
	"fmt"
	"log"

	"github.com/vitabuddy/vitabuddy/internal/client/api"
	"github.com/vitabuddy/vitabuddy/internal/client/localdb"
)

// Metadata keys for the persisted session.
const (
	metaAccessToken  = "access_token"
	metaRefreshToken = "refresh_token"
	metaUserID       = "user_id"
	metaUserName     = "user_name"
	metaUserEmail    = "user_email"
)

// AuthBackend is the slice of the API client the auth service needs.
type AuthBackend interface {
	Register(ctx context.Context, email string, password []byte, name string) (*api.AuthResult, error)
	Login(ctx context.Context, email string, password []byte) (*api.AuthResult, error)
	Logout(ctx context.Context) error
	MarkWelcomeSeen(ctx context.Context) error
	SetTokens(accessToken, refreshToken string)
	Ping(ctx context.Context) error
}

// Session is the locally persisted sign-in state.
type Session struct {
	UserID string
	Name   string
	Email  string
}

// AuthService signs the user in and out and persists the session in the
// local cache so a restart does not require another password prompt.
type AuthService struct {
	backend AuthBackend
	local   *localdb.Repositories
}

func NewAuthService(backend AuthBackend, local *localdb.Repositories) *AuthService {
	return &AuthService{backend: backend, local: local}
}

func (s *AuthService) Register(ctx context.Context, email string, password []byte, name string) (*Session, error) {
	result, err := s.backend.Register(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	return s.saveSession(ctx, result)
}

func (s *AuthService) Login(ctx context.Context, email string, password []byte) (*Session, error) {
	result, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.saveSession(ctx, result)
}

func (s *AuthService) saveSession(ctx context.Context, result *api.AuthResult) (*Session, error) {
	session := &Session{UserID: result.UserID}
	if result.Profile != nil {
		session.Name = result.Profile.Name
		session.Email = result.Profile.Email
	}

	pairs := map[string]string{
		metaAccessToken:  result.AccessToken,
		metaRefreshToken: result.RefreshToken,
		metaUserID:       session.UserID,
		metaUserName:     session.Name,
		metaUserEmail:    session.Email,
	}
	for key, value := range pairs {
		if err := s.local.Metadata.Set(ctx, key, []byte(value)); err != nil {
			return nil, fmt.Errorf("error saving session: %w", err)
		}
	}

	return session, nil
}

// RestoreSession loads a previously saved session into the API client.
// Returns nil (no error) when there is nothing to restore.
func (s *AuthService) RestoreSession(ctx context.Context) (*Session, error) {
	accessToken, err := s.local.Metadata.Get(ctx, metaAccessToken)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.local.Metadata.Get(ctx, metaRefreshToken)
	if err != nil {
		return nil, err
	}
	if len(accessToken) == 0 || len(refreshToken) == 0 {
		return nil, nil
	}

	userID, err := s.local.Metadata.Get(ctx, metaUserID)
	if err != nil {
		return nil, err
	}
	name, err := s.local.Metadata.Get(ctx, metaUserName)
	if err != nil {
		return nil, err
	}
	email, err := s.local.Metadata.Get(ctx, metaUserEmail)
	if err != nil {
		return nil, err
	}

	s.backend.SetTokens(string(accessToken), string(refreshToken))

	return &Session{UserID: string(userID), Name: string(name), Email: string(email)}, nil
}

// Logout revokes the refresh token server-side (best-effort) and wipes all
// local state, caches included.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.backend.Logout(ctx); err != nil {
		// local state is wiped regardless
		log.Printf("server logout failed: %s", err)
	}

	if err := s.local.Metadata.Clear(ctx); err != nil {
		return fmt.Errorf("error clearing session: %w", err)
	}
	if err := s.local.Activities.Clear(ctx); err != nil {
		return fmt.Errorf("error clearing activity cache: %w", err)
	}
	if err := s.local.Messages.Clear(ctx); err != nil {
		return fmt.Errorf("error clearing message cache: %w", err)
	}
	return nil
}

// MarkWelcomeSeen flips the one-time welcome flag on the server.
func (s *AuthService) MarkWelcomeSeen(ctx context.Context) error {
	return s.backend.MarkWelcomeSeen(ctx)
}

// Ping probes server reachability.
func (s *AuthService) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}
