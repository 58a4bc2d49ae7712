// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tellus-ops/attendance-service/internal/domain"
	"github.com/tellus-ops/attendance-service/internal/domain/models"
	"github.com/tellus-ops/attendance-service/internal/logging"
	"github.com/tellus-ops/attendance-service/pkg/constants"
)

// TokenRefreshService renews delegated token pairs through the identity
// provider's refresh-token grant and persists the renewed record. Overlapping
// refreshes for the same user are collapsed through singleflight so two
// concurrent expirations cannot race divergent refresh tokens into the store;
// the provider may invalidate a refresh token once a newer one is issued.
type TokenRefreshService struct {
	TokenExchanger  domain.TokenExchanger
	TokenRepository domain.DelegatedTokenRepository

	group singleflight.Group
	now   func() time.Time
}

// NewTokenRefreshService creates a new TokenRefreshService.
func NewTokenRefreshService(exchanger domain.TokenExchanger, tokenRepository domain.DelegatedTokenRepository) *TokenRefreshService {
	return &TokenRefreshService{
		TokenExchanger:  exchanger,
		TokenRepository: tokenRepository,
		now:             time.Now,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *TokenRefreshService) ServiceReady() bool {
	return s.TokenExchanger != nil && s.TokenRepository != nil && s.TokenRepository.IsReady()
}

// EnsureFresh returns a usable token record for the user. The record is
// refreshed and persisted first if and only if it expires within the
// refresh leeway.
func (s *TokenRefreshService) EnsureFresh(ctx context.Context, record *models.DelegatedTokenRecord, revision uint64) (*models.DelegatedTokenRecord, error) {
	if record == nil {
		return nil, domain.NewInternalError("no token record to refresh")
	}

	leeway := time.Duration(constants.TokenRefreshLeewaySeconds) * time.Second
	if !record.NeedsRefresh(s.now(), leeway) {
		return record, nil
	}

	result, err, _ := s.group.Do(record.UserID, func() (any, error) {
		return s.refresh(ctx, record, revision)
	})
	if err != nil {
		return nil, err
	}

	return result.(*models.DelegatedTokenRecord), nil
}

func (s *TokenRefreshService) refresh(ctx context.Context, record *models.DelegatedTokenRecord, revision uint64) (*models.DelegatedTokenRecord, error) {
	refreshed, err := s.TokenExchanger.RefreshToken(ctx, record.RefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "error refreshing delegated token", logging.ErrKey, err, "user_id", record.UserID)
		return nil, err
	}
	refreshed.UserID = record.UserID

	err = s.TokenRepository.UpdateToken(ctx, refreshed, revision)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			// A competing refresh persisted a newer pair first; use that one.
			stored, _, getErr := s.TokenRepository.GetTokenWithRevision(ctx, record.UserID)
			if getErr == nil {
				slog.InfoContext(ctx, "concurrent token refresh won the write; using stored record",
					"user_id", record.UserID)
				return stored, nil
			}
		}
		slog.ErrorContext(ctx, "error persisting refreshed token", logging.ErrKey, err, "user_id", record.UserID)
		return nil, err
	}

	slog.DebugContext(ctx, "refreshed delegated token", "user_id", record.UserID,
		"expires_at", refreshed.ExpiresAtEpochSeconds)

	return refreshed, nil
}
