package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/alumnihub/membership-server/internal/model"
)

// AdminStore is a testify mock for model.AdminStore.
type AdminStore struct {
	mock.Mock
}

func (m *AdminStore) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.Admin), args.Error(1)
}

func (m *AdminStore) Create(ctx context.Context, admin model.Admin) (model.Admin, error) {
	args := m.Called(ctx, admin)
	return args.Get(0).(model.Admin), args.Error(1)
}
