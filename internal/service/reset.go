package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/alumnihub/membership-server/internal/logger"
	"github.com/alumnihub/membership-server/internal/model"
	"github.com/alumnihub/membership-server/internal/security"
)

const resetTokenBytes = 32

// Reset implements credential recovery: issuing single-use tokens and
// exchanging them for a new password.
type Reset struct {
	accounts model.AccountStore
	tokens   model.ResetTokenStore
	mailer   model.ResetMailer
	ttl      time.Duration
	logger   *logger.Logger
	now      func() time.Time
}

func NewReset(
	accounts model.AccountStore,
	tokens model.ResetTokenStore,
	mailer model.ResetMailer,
	ttl time.Duration,
	logger *logger.Logger,
) *Reset {
	return &Reset{
		accounts: accounts,
		tokens:   tokens,
		mailer:   mailer,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Request issues a fresh token for the address, superseding any earlier one.
// When no account owns the address it returns an empty token and no error,
// so the caller can answer identically either way and not leak which
// addresses are registered. Account status is deliberately not consulted: a
// blocked member may still recover the password, it just buys no session.
func (r *Reset) Request(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	r.logger.Debug("Reset service: token requested",
		"email", email)

	_, err := r.accounts.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get account by email: %w", err)
	}

	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	token := model.ResetToken{
		Token:     hex.EncodeToString(raw),
		Email:     email,
		ExpiresAt: r.now().Add(r.ttl),
		CreatedAt: r.now(),
	}

	if err := r.tokens.Replace(ctx, token); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	// Delivery is fire-and-forget: the token is already committed and the
	// caller's response does not depend on the mailer.
	if err := r.mailer.Deliver(ctx, email, token.Token); err != nil {
		r.logger.Error("Reset service: failed to deliver reset token",
			"email", email,
			"error", err.Error())
	}

	r.logger.Info("Reset service: token issued",
		"email", email)

	return token.Token, nil
}

// Consume exchanges a token for a new password. The new secret is validated
// and hashed before any storage work, then the claim, the credential rewrite
// and the sibling-token purge happen in one storage transaction. Of two
// concurrent calls with the same token exactly one succeeds; the other gets
// ErrTokenNotFound.
func (r *Reset) Consume(ctx context.Context, token, password, confirmPassword string) error {
	r.logger.Debug("Reset service: consuming token")

	vErr := &model.ValidationError{}
	if err := validation.Validate(password, validation.Required, validation.Length(6, 100)); err != nil {
		vErr.Add("password: " + err.Error())
	}
	if err := validation.Validate(confirmPassword, validation.By(matchesString(password))); err != nil {
		vErr.Add("confirm_password: " + err.Error())
	}
	if vErr.HasCauses() {
		return vErr
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := r.tokens.Consume(ctx, token, passwordHash, r.now()); err != nil {
		return err
	}

	r.logger.Info("Reset service: credential rewritten")

	return nil
}
