package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountRole classifies a member as a current student or a graduate.
type AccountRole string

const (
	RoleStudent AccountRole = "student"
	RoleAlumni  AccountRole = "alumni"
)

// AccountStatus is the lifecycle status gating session issuance.
type AccountStatus string

const (
	// StatusPending is the initial status: registered, awaiting admin approval.
	StatusPending AccountStatus = "pending"
	// StatusActive allows the account to establish a session.
	StatusActive AccountStatus = "active"
	// StatusBlocked denies session issuance. There is no blocked -> active
	// transition; blocking is permanent while the row exists.
	StatusBlocked AccountStatus = "blocked"
)

// ApproveFrom and BlockFrom list the statuses each admin transition applies
// to. Applying a transition to a status outside the list is a no-op at the
// storage layer, not an error.
var (
	ApproveFrom = []AccountStatus{StatusPending}
	BlockFrom   = []AccountStatus{StatusPending, StatusActive}
)

// Account represents a stored member identity with its lifecycle status.
type Account struct {
	ID            uuid.UUID
	Name          string
	Email         string
	PasswordHash  string
	Role          AccountRole
	Department    string
	Batch         string
	Status        AccountStatus
	IDDocumentKey string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AccountFilter is a typed filter specification for admin listings.
// Zero values mean "no constraint"; set fields combine with AND.
type AccountFilter struct {
	// Status, when non-empty, matches exactly.
	Status AccountStatus
	// Search, when non-empty, matches name, email or batch as a
	// case-insensitive substring.
	Search string
}

// AccountStore defines persistence operations for accounts.
type AccountStore interface {
	Create(ctx context.Context, account Account) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	// UpdateStatus applies a status transition as a single atomic update.
	// The transition only takes effect when the current status is in from;
	// otherwise the row is left unchanged. Reports ErrNotFound when no
	// account with the given id exists.
	UpdateStatus(ctx context.Context, id uuid.UUID, status AccountStatus, from ...AccountStatus) error
	// Delete removes the account row. Associated reset tokens are removed
	// with it.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter AccountFilter) ([]Account, error)
}
