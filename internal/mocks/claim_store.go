package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claims-triage/internal/domain/entity"
)

type ClaimStore struct {
	mock.Mock
}

func (m *ClaimStore) Create(ctx context.Context, claim entity.NewClaim) (entity.Claim, error) {
	args := m.Called(ctx, claim)
	return args.Get(0).(entity.Claim), args.Error(1)
}

func (m *ClaimStore) Get(ctx context.Context, id string) (entity.Claim, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Claim), args.Error(1)
}

func (m *ClaimStore) List(ctx context.Context, scan entity.ClaimScan) ([]entity.Claim, error) {
	args := m.Called(ctx, scan)
	return args.Get(0).([]entity.Claim), args.Error(1)
}
