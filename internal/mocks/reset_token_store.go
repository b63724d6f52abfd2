package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/alumnihub/membership-server/internal/model"
)

// ResetTokenStore is a testify mock for model.ResetTokenStore.
type ResetTokenStore struct {
	mock.Mock
}

func (m *ResetTokenStore) Replace(ctx context.Context, token model.ResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *ResetTokenStore) Consume(ctx context.Context, token string, newPasswordHash string, now time.Time) error {
	args := m.Called(ctx, token, newPasswordHash, now)
	return args.Error(0)
}

// ResetMailer is a testify mock for model.ResetMailer.
type ResetMailer struct {
	mock.Mock
}

func (m *ResetMailer) Deliver(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}
