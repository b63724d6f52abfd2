package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/alumnihub/membership-server/internal/model"
)

// TokenManager is a testify mock for model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateAccessToken(actor model.Actor) (string, error) {
	args := m.Called(actor)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) ParseAccessToken(token string) (model.Actor, error) {
	args := m.Called(token)
	return args.Get(0).(model.Actor), args.Error(1)
}
