package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/vitabuddy/vitabuddy/internal/common"
	"github.com/vitabuddy/vitabuddy/internal/server/auth"
	"github.com/vitabuddy/vitabuddy/internal/server/config"
	"github.com/vitabuddy/vitabuddy/internal/server/refreshtokens"
)

const minPasswordLength = 8

type Service struct {
	repo                         Repository
	refreshTokenRepo             refreshtokens.Repository
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewService(repo Repository, refreshTokenRepo refreshtokens.Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                         repo,
		refreshTokenRepo:             refreshTokenRepo,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates the auth identity and its profile row (has_seen_welcome
// starts false, so the one-time welcome notice fires on first login).
func (s *Service) Register(ctx context.Context, email string, password []byte, name string) (*User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	id := uuid.NewString()
	user := &User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
	}
	profile := &Profile{
		ID:             id,
		Name:           name,
		Email:          email,
		HasSeenWelcome: false,
	}

	user, err = s.repo.CreateWithProfile(ctx, user, profile)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

func (s *Service) generateAccessToken(user *User) (string, error) {
	return auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *Service) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *Service) issueTokens(ctx context.Context, user *User) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.refreshTokenRepo.Create(ctx, user.ID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Login verifies credentials and returns a token pair plus the user's
// profile. Unknown emails and wrong passwords are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, email string, password []byte) (*AuthResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, user.ID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	return &AuthResult{Tokens: *tokens, UserID: user.ID, Profile: profile}, nil
}

// Refresh rotates the refresh token: the presented token is deleted and a
// fresh pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.refreshTokenRepo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.refreshTokenRepo.Delete(ctx, refreshToken)
		return nil, common.ErrRefreshTokenExpired
	}

	if err := s.refreshTokenRepo.Delete(ctx, refreshToken); err != nil {
		return nil, common.ErrorInternal
	}

	return s.issueTokens(ctx, &User{ID: stored.UserID})
}

// Logout invalidates the presented refresh token. Unknown tokens are not an
// error; the session is gone either way.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	err := s.refreshTokenRepo.Delete(ctx, refreshToken)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return common.ErrorInternal
	}
	return nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *Service) MarkWelcomeSeen(ctx context.Context, userID string) error {
	return s.repo.MarkWelcomeSeen(ctx, userID)
}

// PurgeExpiredTokens removes refresh tokens past their expiry. Called from
// the background janitor.
func (s *Service) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.refreshTokenRepo.PurgeExpired(ctx)
}

// VerifyAccessToken resolves an access token to the user id it was issued
// for. Used by the HTTP auth middleware.
func (s *Service) VerifyAccessToken(tokenString string) (string, error) {
	return auth.GetUserIDFromToken(tokenString, s.jwtSecret)
}
