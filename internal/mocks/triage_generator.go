package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claims-triage/internal/domain/entity"
)

type TriageGenerator struct {
	mock.Mock
}

func (m *TriageGenerator) Generate(ctx context.Context, req entity.GenerateRequest) (*entity.GenerateResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GenerateResult), args.Error(1)
}

func (m *TriageGenerator) Model() string {
	args := m.Called()
	return args.String(0)
}
