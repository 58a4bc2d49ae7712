// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tellus-ops/attendance-service/internal/domain/models"
)

// MockMessageBuilder implements domain.MessageBuilder for testing
type MockMessageBuilder struct {
	mock.Mock
}

func (m *MockMessageBuilder) IsReady() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMessageBuilder) SendAttendanceSnapshot(ctx context.Context, msg *models.AttendanceSnapshotMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockTokenRefresher implements domain.TokenRefresher for testing
type MockTokenRefresher struct {
	mock.Mock
}

func (m *MockTokenRefresher) EnsureFresh(ctx context.Context, record *models.DelegatedTokenRecord, revision uint64) (*models.DelegatedTokenRecord, error) {
	args := m.Called(ctx, record, revision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DelegatedTokenRecord), args.Error(1)
}
