package model

import (
	"context"
	"time"
)

// ResetTokenTTL is the default validity window for recovery tokens.
const ResetTokenTTL = time.Hour

// ResetToken is a single-use, time-limited credential-recovery secret.
type ResetToken struct {
	Token     string
	Email     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its validity window at now.
func (t ResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// ResetTokenStore persists recovery tokens. At most one live token exists
// per email: Replace supersedes all earlier tokens for the same address.
type ResetTokenStore interface {
	// Replace supersedes any existing token for token.Email with token,
	// atomically even under concurrent calls for the same address.
	Replace(ctx context.Context, token ResetToken) error
	// Consume atomically claims the token and rewrites the owning account's
	// password hash in a single transaction. Exactly one of two concurrent
	// calls with the same token succeeds; the loser gets ErrTokenNotFound.
	// An expired token is deleted and reported as ErrTokenExpired without
	// touching the account.
	Consume(ctx context.Context, token string, newPasswordHash string, now time.Time) error
}

// ResetMailer delivers a recovery token to the account's email address.
// Delivery is fire-and-forget: the reset flow never depends on its success.
type ResetMailer interface {
	Deliver(ctx context.Context, email, token string) error
}
