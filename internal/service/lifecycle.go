package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/alumnihub/membership-server/internal/logger"
	"github.com/alumnihub/membership-server/internal/model"
)

// Lifecycle drives admin-triggered status transitions over the directory.
// Every operation takes the acting caller explicitly and refuses non-admin
// actors, regardless of what the surrounding surface already checked.
type Lifecycle struct {
	accounts  model.AccountStore
	documents model.DocumentStore
	logger    *logger.Logger
}

func NewLifecycle(
	accounts model.AccountStore,
	documents model.DocumentStore,
	logger *logger.Logger,
) *Lifecycle {
	return &Lifecycle{
		accounts:  accounts,
		documents: documents,
		logger:    logger,
	}
}

// Approve moves a pending account to active. Approving an account that is
// already active or blocked changes nothing and reports success.
func (l *Lifecycle) Approve(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return model.ErrNotAuthorized
	}

	if err := l.accounts.UpdateStatus(ctx, id, model.StatusActive, model.ApproveFrom...); err != nil {
		return fmt.Errorf("failed to approve account: %w", err)
	}

	l.logger.Info("Lifecycle service: account approved",
		"account_id", id,
		"actor_id", actor.ID)

	return nil
}

// Block denies the account any future session. There is no way back to
// active; blocking an already blocked account is a no-op.
func (l *Lifecycle) Block(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return model.ErrNotAuthorized
	}

	if err := l.accounts.UpdateStatus(ctx, id, model.StatusBlocked, model.BlockFrom...); err != nil {
		return fmt.Errorf("failed to block account: %w", err)
	}

	l.logger.Info("Lifecycle service: account blocked",
		"account_id", id,
		"actor_id", actor.ID)

	return nil
}

// Delete removes the account, its reset tokens and its identity document.
func (l *Lifecycle) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return model.ErrNotAuthorized
	}

	account, err := l.accounts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}

	// Reset tokens go with the row via the foreign key cascade.
	if err := l.accounts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if account.IDDocumentKey != "" {
		if err := l.documents.Delete(ctx, account.IDDocumentKey); err != nil {
			// The account is already gone; an orphaned blob is not worth
			// failing the operation over.
			l.logger.Error("Lifecycle service: failed to delete identity document",
				"account_id", id,
				"document_key", account.IDDocumentKey,
				"error", err.Error())
		}
	}

	l.logger.Info("Lifecycle service: account deleted",
		"account_id", id,
		"actor_id", actor.ID)

	return nil
}

// Document streams the identity document attached to the account, so an
// admin can inspect it before approving. A missing blob reports ErrNotFound
// rather than an internal failure.
func (l *Lifecycle) Document(ctx context.Context, actor model.Actor, id uuid.UUID) (io.ReadCloser, string, error) {
	if !actor.IsAdmin() {
		return nil, "", model.ErrNotAuthorized
	}

	account, err := l.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get account: %w", err)
	}
	if account.IDDocumentKey == "" {
		return nil, "", model.ErrNotFound
	}

	exists, err := l.documents.Exists(ctx, account.IDDocumentKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to stat identity document: %w", err)
	}
	if !exists {
		return nil, "", model.ErrNotFound
	}

	doc, err := l.documents.Open(ctx, account.IDDocumentKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open identity document: %w", err)
	}

	return doc, account.IDDocumentKey, nil
}

// List returns directory entries matching the filter, newest first.
func (l *Lifecycle) List(ctx context.Context, actor model.Actor, filter model.AccountFilter) ([]model.Account, error) {
	if !actor.IsAdmin() {
		return nil, model.ErrNotAuthorized
	}

	accounts, err := l.accounts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	return accounts, nil
}
