package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/alumnihub/membership-server/internal/model"
)

var _ model.ResetTokenStore = (*ResetTokenRepository)(nil)

type ResetTokenRepository struct {
	db *Connection
}

func NewResetTokenRepository(db *Connection) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

// Replace supersedes any earlier token for the email. The unique index on
// email arbitrates concurrent requests: both upserts land on the same row,
// so at most one live token per email ever exists.
func (r *ResetTokenRepository) Replace(ctx context.Context, token model.ResetToken) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO password_resets (token, email, expires_at) VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO UPDATE
		 SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at, created_at = NOW()`,
		token.Token, token.Email, token.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to replace reset token: %w", err)
	}

	return nil
}

func (r *ResetTokenRepository) GetByToken(ctx context.Context, token string) (model.ResetToken, error) {
	var rt model.ResetToken
	query := `SELECT token, email, expires_at, created_at FROM password_resets WHERE token = $1`

	err := r.db.QueryRow(ctx, query, token).Scan(&rt.Token, &rt.Email, &rt.ExpiresAt, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ResetToken{}, model.ErrTokenNotFound
		}
		return model.ResetToken{}, fmt.Errorf("failed to get reset token: %w", err)
	}

	return rt, nil
}

// Consume claims the token and rewrites the account's credential in one
// transaction. The DELETE ... RETURNING takes a row lock, so of two
// concurrent consumers exactly one sees the row; the other reports
// ErrTokenNotFound. Detecting expiry deletes the token as a side effect.
func (r *ResetTokenRepository) Consume(ctx context.Context, token string, newPasswordHash string, now time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var email string
	var expiresAt time.Time
	err = tx.QueryRow(ctx,
		`DELETE FROM password_resets WHERE token = $1 RETURNING email, expires_at`,
		token,
	).Scan(&email, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrTokenNotFound
		}
		return fmt.Errorf("failed to claim reset token: %w", err)
	}

	if now.After(expiresAt) {
		// Keep the delete so a retry with the same token reports not-found.
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit expired token removal: %w", err)
		}
		return model.ErrTokenExpired
	}

	tag, err := tx.Exec(ctx,
		`UPDATE accounts SET password_hash = $1, updated_at = NOW() WHERE LOWER(email) = LOWER($2)`,
		newPasswordHash, email,
	)
	if err != nil {
		return fmt.Errorf("failed to update account credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reset token consumption: %w", err)
	}

	return nil
}
