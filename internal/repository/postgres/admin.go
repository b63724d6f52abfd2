package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alumnihub/membership-server/internal/model"
)

var _ model.AdminStore = (*AdminRepository)(nil)

type AdminRepository struct {
	db *Connection
}

func NewAdminRepository(db *Connection) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	var admin model.Admin
	query := `SELECT id, name, email, password_hash, created_at
			  FROM admins WHERE LOWER(email) = LOWER($1)`

	err := r.db.QueryRow(ctx, query, email).Scan(
		&admin.ID, &admin.Name, &admin.Email, &admin.PasswordHash, &admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Admin{}, model.ErrNotFound
		}
		return model.Admin{}, fmt.Errorf("failed to get admin by email: %w", err)
	}

	return admin, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin model.Admin) (model.Admin, error) {
	query := `INSERT INTO admins (id, name, email, password_hash)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, name, email, password_hash, created_at`

	var saved model.Admin
	err := r.db.QueryRow(ctx, query,
		admin.ID, admin.Name, admin.Email, admin.PasswordHash,
	).Scan(&saved.ID, &saved.Name, &saved.Email, &saved.PasswordHash, &saved.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return model.Admin{}, model.ErrDuplicateEmail
		}
		return model.Admin{}, fmt.Errorf("failed to create admin: %w", err)
	}

	return saved, nil
}
