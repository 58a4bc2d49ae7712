// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/tellus-ops/attendance-service/internal/domain/models"
)

// NatsTokenRepository is the NATS KV store repository for delegated user
// token records.
type NatsTokenRepository struct {
	*NatsBaseRepository[models.DelegatedTokenRecord]
	keyBuilder *KeyBuilder
}

// NewNatsTokenRepository creates a new NATS KV store repository for delegated tokens.
func NewNatsTokenRepository(kvStore INatsKeyValue) *NatsTokenRepository {
	return &NatsTokenRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.DelegatedTokenRecord](kvStore, "token"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

// tokenKey builds the KV key for a user's token record. User IDs can be user
// principal names, so the key is always encoded.
func (r *NatsTokenRepository) tokenKey(userID string) string {
	return r.keyBuilder.EntityKeyEncoded(KeyPrefixToken, userID)
}

// GetTokenWithRevision retrieves the delegated token record for a user along
// with its KV revision for optimistic concurrency control.
func (r *NatsTokenRepository) GetTokenWithRevision(ctx context.Context, userID string) (*models.DelegatedTokenRecord, uint64, error) {
	return r.GetWithRevision(ctx, r.tokenKey(userID))
}

// UpdateToken persists a refreshed token record. Revision zero creates the
// record; any other revision must match the current KV revision or the write
// fails with a conflict, which signals that a concurrent refresh won.
func (r *NatsTokenRepository) UpdateToken(ctx context.Context, record *models.DelegatedTokenRecord, revision uint64) error {
	key := r.tokenKey(record.UserID)
	if revision == 0 {
		return r.Create(ctx, key, record)
	}
	return r.Update(ctx, key, record, revision)
}
