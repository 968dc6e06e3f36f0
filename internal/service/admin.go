package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/apperror"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/auth"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/errutil"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/model"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/repository"
)

const (
	MaxUsernameLength = 100
	MsgBadCredentials = "Invalid username or password"
)

type AdminService struct {
	admins    repository.AdminRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger

	// dummyHash is checked when the username does not exist, so an unknown
	// username costs the same bcrypt work as a wrong password.
	dummyOnce sync.Once
	dummyHash string
}

func NewAdminService(
	admins repository.AdminRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AdminService {
	return &AdminService{
		admins:    admins,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// LoginResult is a freshly issued access token.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	// ExpiresInMinutes is the configured lifetime, not time remaining.
	ExpiresInMinutes int
}

// Login checks credentials and issues a bearer token. Unknown usernames and
// wrong passwords produce the same apperror.ErrUnauthorized.
func (s *AdminService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = normalizeUsername(username)
	admin, err := s.admins.GetAdminByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			errutil.LogError(s.logger, "failed to look up admin", err)
			return nil, fmt.Errorf("service/admin: looking up %q: %w", username, err)
		}
		s.dummyOnce.Do(func() { s.dummyHash, _ = s.passwords.Hash("not-a-real-password") })
		_ = s.passwords.Verify(s.dummyHash, password)
		s.logger.Warn("admin login failed", slog.String("username", username), slog.String("reason", "unknown user"))
		return nil, apperror.Unauthorized(MsgBadCredentials)
	}

	if err := s.passwords.Verify(admin.PasswordHash, password); err != nil {
		s.logger.Warn("admin login failed", slog.String("username", username), slog.String("reason", "bad password"))
		return nil, apperror.Unauthorized(MsgBadCredentials)
	}

	token, expiresAt, err := s.tokens.Generate(admin.Username)
	if err != nil {
		return nil, fmt.Errorf("service/admin: generating token for %q: %w", admin.Username, err)
	}

	s.logger.Info("admin logged in", slog.String("username", admin.Username))

	return &LoginResult{
		AccessToken:      token,
		TokenType:        "bearer",
		ExpiresAt:        expiresAt,
		ExpiresInMinutes: int(s.tokens.TTL() / time.Minute),
	}, nil
}

// CreateAdmin provisions an admin account. It returns apperror.ErrConflict
// if the username is taken.
func (s *AdminService) CreateAdmin(ctx context.Context, username, password string) (*model.Admin, error) {
	username = normalizeUsername(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	_, err := s.admins.GetAdminByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, apperror.Conflict(fmt.Sprintf("Admin '%s' already exists", username))
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("service/admin: looking up %q: %w", username, err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	admin := &model.Admin{Username: username, PasswordHash: hash}
	if err := s.admins.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict(fmt.Sprintf("Admin '%s' already exists", username))
		}
		return nil, fmt.Errorf("service/admin: creating %q: %w", username, err)
	}

	s.logger.Info("admin created", slog.Int64("id", admin.ID), slog.String("username", admin.Username))
	return admin, nil
}

// normalizeUsername is applied on both provisioning and login so the two
// always agree on the stored form.
func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}
