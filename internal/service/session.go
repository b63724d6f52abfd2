package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alumnihub/membership-server/internal/logger"
	"github.com/alumnihub/membership-server/internal/model"
	"github.com/alumnihub/membership-server/internal/security"
)

// Session authenticates members and admins and issues access tokens. Only
// active members ever receive a token; pending and blocked accounts are
// turned away after the credential check so the two failures stay
// distinguishable to the caller.
type Session struct {
	accounts model.AccountStore
	admins   model.AdminStore
	tokens   model.TokenManager
	logger   *logger.Logger
}

func NewSession(
	accounts model.AccountStore,
	admins model.AdminStore,
	tokens model.TokenManager,
	logger *logger.Logger,
) *Session {
	return &Session{
		accounts: accounts,
		admins:   admins,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login authenticates a member. Unknown email and wrong password both come
// back as ErrInvalidCredentials.
func (s *Session) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.logger.Debug("Session service: member login",
		"email", email)

	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return "", model.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to get account by email: %w", err)
	}

	if err := security.ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return "", model.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to compare password: %w", err)
	}

	if account.Status != model.StatusActive {
		s.logger.Info("Session service: login refused for inactive account",
			"email", email,
			"status", account.Status)
		return "", model.ErrAccountNotActive
	}

	token, err := s.tokens.GenerateAccessToken(model.Actor{ID: account.ID, Role: model.ActorRoleMember})
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.Info("Session service: member session established",
		"account_id", account.ID)

	return token, nil
}

// AdminLogin authenticates a staff admin.
func (s *Session) AdminLogin(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.logger.Debug("Session service: admin login",
		"email", email)

	admin, err := s.admins.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return "", model.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to get admin by email: %w", err)
	}

	if err := security.ComparePasswordAndHash(password, admin.PasswordHash); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return "", model.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to compare password: %w", err)
	}

	token, err := s.tokens.GenerateAccessToken(model.Actor{ID: admin.ID, Role: model.ActorRoleAdmin})
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.Info("Session service: admin session established",
		"admin_id", admin.ID)

	return token, nil
}

// EnsureBootstrapAdmin creates the configured admin on first start. A second
// start with the same email finds the existing row and leaves it alone.
func (s *Session) EnsureBootstrapAdmin(ctx context.Context, name, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.admins.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get admin by email: %w", err)
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := model.Admin{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	if _, err := s.admins.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	s.logger.Info("Session service: bootstrap admin created",
		"email", email)

	return nil
}
