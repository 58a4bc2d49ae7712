// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/tellus-ops/attendance-service/internal/domain/models"
)

// CredentialRepository defines the interface for the durable per-tenant
// application credential store. Records are written by tenant administration
// only; this subsystem reads them.
type CredentialRepository interface {
	IsReady() bool
	GetCredential(ctx context.Context, tenantID string) (*models.CredentialRecord, error)
}

// DelegatedTokenRepository defines the interface for the durable per-user
// delegated token store. The revision-based update lets concurrent refreshes
// for the same user detect a competing write instead of clobbering the newer
// refresh token.
type DelegatedTokenRepository interface {
	IsReady() bool
	GetTokenWithRevision(ctx context.Context, userID string) (*models.DelegatedTokenRecord, uint64, error)
	UpdateToken(ctx context.Context, record *models.DelegatedTokenRecord, revision uint64) error
}
