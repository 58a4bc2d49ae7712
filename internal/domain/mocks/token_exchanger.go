// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tellus-ops/attendance-service/internal/domain/models"
)

// MockTokenExchanger implements domain.TokenExchanger for testing
type MockTokenExchanger struct {
	mock.Mock
}

func (m *MockTokenExchanger) RefreshToken(ctx context.Context, refreshToken string) (*models.DelegatedTokenRecord, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DelegatedTokenRecord), args.Error(1)
}
