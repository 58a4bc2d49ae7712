// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tellus-ops/attendance-service/internal/domain/models"
)

// MockCredentialRepository implements domain.CredentialRepository for testing
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) IsReady() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockCredentialRepository) GetCredential(ctx context.Context, tenantID string) (*models.CredentialRecord, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CredentialRecord), args.Error(1)
}

// MockDelegatedTokenRepository implements domain.DelegatedTokenRepository for testing
type MockDelegatedTokenRepository struct {
	mock.Mock
}

func (m *MockDelegatedTokenRepository) IsReady() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockDelegatedTokenRepository) GetTokenWithRevision(ctx context.Context, userID string) (*models.DelegatedTokenRecord, uint64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.DelegatedTokenRecord), args.Get(1).(uint64), args.Error(2)
}

func (m *MockDelegatedTokenRepository) UpdateToken(ctx context.Context, record *models.DelegatedTokenRecord, revision uint64) error {
	args := m.Called(ctx, record, revision)
	return args.Error(0)
}
