// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/tellus-ops/attendance-service/internal/domain/models"
)

// credentialCacheTTL bounds how long a tenant credential read is served from
// memory before hitting the KV store again. Misses are never cached.
const (
	credentialCacheTTL     = 30 * time.Second
	credentialCacheCleanup = 5 * time.Minute
)

// NatsCredentialRepository is the NATS KV store repository for per-tenant
// application credentials.
type NatsCredentialRepository struct {
	*NatsBaseRepository[models.CredentialRecord]
	keyBuilder *KeyBuilder
	cache      *gocache.Cache
}

// NewNatsCredentialRepository creates a new NATS KV store repository for tenant credentials.
func NewNatsCredentialRepository(kvStore INatsKeyValue) *NatsCredentialRepository {
	return &NatsCredentialRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.CredentialRecord](kvStore, "credential"),
		keyBuilder:         NewKeyBuilder(""),
		cache:              gocache.New(credentialCacheTTL, credentialCacheCleanup),
	}
}

// GetCredential retrieves the credential record for a tenant. Reads are served
// through a short-lived in-memory cache so that bursts of attendance lookups
// for the same tenant do not hammer the KV store.
func (r *NatsCredentialRepository) GetCredential(ctx context.Context, tenantID string) (*models.CredentialRecord, error) {
	if cached, found := r.cache.Get(tenantID); found {
		if record, ok := cached.(*models.CredentialRecord); ok {
			return record, nil
		}
	}

	key := r.keyBuilder.EntityKey(KeyPrefixCredential, tenantID)
	record, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	r.cache.Set(tenantID, record, gocache.DefaultExpiration)
	slog.DebugContext(ctx, "loaded tenant credential from store", "tenant_id", tenantID)
	return record, nil
}

// PutCredential stores the credential record for a tenant and invalidates the
// cached copy.
func (r *NatsCredentialRepository) PutCredential(ctx context.Context, record *models.CredentialRecord) error {
	key := r.keyBuilder.EntityKey(KeyPrefixCredential, record.TenantID)
	if err := r.Create(ctx, key, record); err != nil {
		return err
	}
	r.cache.Delete(record.TenantID)
	return nil
}
