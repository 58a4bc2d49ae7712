// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/tellus-ops/attendance-service/internal/domain/models"
)

// TokenRefresher renews a delegated token pair when it is close to expiry and
// persists the renewed record.
type TokenRefresher interface {
	// EnsureFresh returns a usable token record for the user, refreshing and
	// persisting it first if it expires within the refresh leeway. The
	// revision is the store revision of the record that was read, so a
	// competing refresh is detected instead of overwritten.
	EnsureFresh(ctx context.Context, record *models.DelegatedTokenRecord, revision uint64) (*models.DelegatedTokenRecord, error)
}

// TokenExchanger performs the refresh-token grant against the identity
// provider and returns the renewed pair.
type TokenExchanger interface {
	RefreshToken(ctx context.Context, refreshToken string) (*models.DelegatedTokenRecord, error)
}
