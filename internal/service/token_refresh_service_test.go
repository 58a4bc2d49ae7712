// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tellus-ops/attendance-service/internal/domain"
	"github.com/tellus-ops/attendance-service/internal/domain/mocks"
	"github.com/tellus-ops/attendance-service/internal/domain/models"
)

func newTokenRefreshServiceForTest(now time.Time) (*TokenRefreshService, *mocks.MockTokenExchanger, *mocks.MockDelegatedTokenRepository) {
	exchanger := &mocks.MockTokenExchanger{}
	repo := &mocks.MockDelegatedTokenRepository{}
	svc := NewTokenRefreshService(exchanger, repo)
	svc.now = func() time.Time { return now }
	return svc, exchanger, repo
}

func TestTokenRefreshService_EnsureFresh(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	t.Run("does not refresh a token outside the leeway", func(t *testing.T) {
		svc, exchanger, repo := newTokenRefreshServiceForTest(now)

		record := &models.DelegatedTokenRecord{
			UserID:                "user-1",
			AccessToken:           "access-1",
			RefreshToken:          "refresh-1",
			ExpiresAtEpochSeconds: now.Unix() + 300, // exactly at the leeway boundary
		}

		result, err := svc.EnsureFresh(ctx, record, 7)

		require.NoError(t, err)
		assert.Equal(t, "access-1", result.AccessToken)
		exchanger.AssertNotCalled(t, "RefreshToken", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "UpdateToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("refreshes and persists a token inside the leeway", func(t *testing.T) {
		svc, exchanger, repo := newTokenRefreshServiceForTest(now)

		record := &models.DelegatedTokenRecord{
			UserID:                "user-1",
			AccessToken:           "access-old",
			RefreshToken:          "refresh-old",
			ExpiresAtEpochSeconds: now.Unix() + 299,
		}
		renewed := &models.DelegatedTokenRecord{
			AccessToken:           "access-new",
			RefreshToken:          "refresh-new",
			ExpiresAtEpochSeconds: now.Unix() + 3600,
		}

		exchanger.On("RefreshToken", mock.Anything, "refresh-old").Return(renewed, nil)
		repo.On("UpdateToken", mock.Anything, mock.MatchedBy(func(r *models.DelegatedTokenRecord) bool {
			return r.UserID == "user-1" && r.AccessToken == "access-new"
		}), uint64(7)).Return(nil)

		result, err := svc.EnsureFresh(ctx, record, 7)

		require.NoError(t, err)
		assert.Equal(t, "access-new", result.AccessToken)
		assert.Equal(t, "user-1", result.UserID)
		exchanger.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("uses the stored record when a concurrent refresh won", func(t *testing.T) {
		svc, exchanger, repo := newTokenRefreshServiceForTest(now)

		record := &models.DelegatedTokenRecord{
			UserID:                "user-1",
			RefreshToken:          "refresh-old",
			ExpiresAtEpochSeconds: now.Unix(),
		}
		renewed := &models.DelegatedTokenRecord{AccessToken: "access-mine", RefreshToken: "refresh-mine"}
		winner := &models.DelegatedTokenRecord{UserID: "user-1", AccessToken: "access-theirs", RefreshToken: "refresh-theirs"}

		exchanger.On("RefreshToken", mock.Anything, "refresh-old").Return(renewed, nil)
		repo.On("UpdateToken", mock.Anything, mock.Anything, uint64(3)).
			Return(domain.NewConflictError("token has been modified"))
		repo.On("GetTokenWithRevision", mock.Anything, "user-1").Return(winner, uint64(4), nil)

		result, err := svc.EnsureFresh(ctx, record, 3)

		require.NoError(t, err)
		assert.Equal(t, "access-theirs", result.AccessToken)
	})

	t.Run("propagates exchange failures", func(t *testing.T) {
		svc, exchanger, repo := newTokenRefreshServiceForTest(now)

		record := &models.DelegatedTokenRecord{
			UserID:                "user-1",
			RefreshToken:          "refresh-dead",
			ExpiresAtEpochSeconds: now.Unix() - 100,
		}
		exchanger.On("RefreshToken", mock.Anything, "refresh-dead").
			Return(nil, domain.NewUpstreamError("token refresh failed", 400))

		result, err := svc.EnsureFresh(ctx, record, 1)

		assert.Nil(t, result)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "UpdateToken", mock.Anything, mock.Anything, mock.Anything)
	})
}
