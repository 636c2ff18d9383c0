// Package services contains the server's application services: account
// and token management, diary storage operations, and profile photo
// presigning.
package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/avolkova/glucolog/internal/common"
	"github.com/avolkova/glucolog/internal/server/auth"
	"github.com/avolkova/glucolog/internal/server/config"
	"github.com/avolkova/glucolog/internal/server/db"
	"github.com/avolkova/glucolog/internal/server/models"
	"golang.org/x/crypto/argon2"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService implements registration, login, token refresh and profile
// updates over the repository manager.
type UserService struct {
	repos                        db.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(repos db.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		repos:                        repos,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// hashPassword derives an argon2id hash from the password and salt.
func hashPassword(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

func hashToken(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

// Register creates an account with a fresh random salt.
// A taken email maps to common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email string, password []byte) (*models.User, error) {
	salt := common.GenerateRandByteArray(32)

	user := &models.User{
		Email:        email,
		Salt:         salt,
		PasswordHash: hashPassword(password, salt),
	}

	user, err := s.repos.Users().Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

func (s *UserService) checkPassword(user *models.User, password []byte) bool {
	candidate := hashPassword(password, user.Salt)
	return subtle.ConstantTimeCompare(user.PasswordHash, candidate) == 1
}

func (s *UserService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	err = s.repos.RefreshTokens().Create(ctx, user.ID, hashToken(refreshToken), s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Login verifies credentials and returns a fresh token pair plus the
// account row (the client derives its display name from it). A wrong
// email and a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email string, password []byte) (*models.User, *TokenPair, error) {
	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	if !s.checkPassword(user, password) {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh rotates a refresh token: the presented token is deleted and a
// new pair is issued. Expired or unknown tokens map to
// common.ErrRefreshTokenExpired.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	tokenHash := hashToken(refreshToken)

	stored, err := s.repos.RefreshTokens().Find(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrRefreshTokenExpired
		}
		return nil, common.ErrorInternal
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.repos.RefreshTokens().Delete(ctx, tokenHash)
		return nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repos.Users().GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repos.RefreshTokens().Delete(ctx, tokenHash); err != nil {
		return nil, common.ErrorInternal
	}

	return s.issueTokens(ctx, user)
}

// Logout drops every refresh token of the user; live access tokens
// just age out.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	return s.repos.RefreshTokens().DeleteForUser(ctx, userID)
}

// GetProfile returns the account row for an authenticated user.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.repos.Users().GetByID(ctx, userID)
}

// UpdateName stores the display name.
func (s *UserService) UpdateName(ctx context.Context, userID, name string) error {
	return s.repos.Users().UpdateName(ctx, userID, name)
}
