// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellus-ops/attendance-service/internal/domain"
	"github.com/tellus-ops/attendance-service/internal/domain/models"
)

func seedCredential(t *testing.T, mockKV *mockNatsKeyValue, record *models.CredentialRecord) {
	t.Helper()
	data, err := json.Marshal(record)
	require.NoError(t, err)
	key := NewKeyBuilder("").EntityKey(KeyPrefixCredential, record.TenantID)
	mockKV.data[key] = data
	mockKV.revisions[key] = 1
}

func TestNatsCredentialRepository_GetCredential(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored credential", func(t *testing.T) {
		mockKV := newMockNatsKeyValue()
		repo := NewNatsCredentialRepository(mockKV)

		record := &models.CredentialRecord{
			TenantID:            "tellus-teams",
			ClientID:            "client-1",
			DirectoryID:         "dir-1",
			ClientSecret:        "secret",
			CoordinatorMailbox:  "coordinator@tellus.example",
		}
		seedCredential(t, mockKV, record)

		got, err := repo.GetCredential(ctx, "tellus-teams")

		require.NoError(t, err)
		assert.Equal(t, record.ClientID, got.ClientID)
		assert.Equal(t, record.CoordinatorMailbox, got.CoordinatorMailbox)
	})

	t.Run("not found", func(t *testing.T) {
		repo := NewNatsCredentialRepository(newMockNatsKeyValue())

		got, err := repo.GetCredential(ctx, "unknown-tenant")

		assert.Nil(t, got)
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	})

	t.Run("second read is served from cache", func(t *testing.T) {
		mockKV := newMockNatsKeyValue()
		repo := NewNatsCredentialRepository(mockKV)

		seedCredential(t, mockKV, &models.CredentialRecord{TenantID: "tellus-teams", ClientID: "client-1"})

		_, err := repo.GetCredential(ctx, "tellus-teams")
		require.NoError(t, err)
		callsAfterFirst := mockKV.getCalls

		_, err = repo.GetCredential(ctx, "tellus-teams")
		require.NoError(t, err)

		assert.Equal(t, callsAfterFirst, mockKV.getCalls)
	})

	t.Run("misses are not cached", func(t *testing.T) {
		mockKV := newMockNatsKeyValue()
		repo := NewNatsCredentialRepository(mockKV)

		_, err := repo.GetCredential(ctx, "tellus-teams")
		require.Error(t, err)

		seedCredential(t, mockKV, &models.CredentialRecord{TenantID: "tellus-teams", ClientID: "client-1"})

		got, err := repo.GetCredential(ctx, "tellus-teams")
		require.NoError(t, err)
		assert.Equal(t, "client-1", got.ClientID)
	})
}

func TestNatsCredentialRepository_PutCredential_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	mockKV := newMockNatsKeyValue()
	repo := NewNatsCredentialRepository(mockKV)

	seedCredential(t, mockKV, &models.CredentialRecord{TenantID: "tellus-teams", ClientID: "old"})
	_, err := repo.GetCredential(ctx, "tellus-teams")
	require.NoError(t, err)

	err = repo.PutCredential(ctx, &models.CredentialRecord{TenantID: "tellus-teams", ClientID: "new"})
	require.NoError(t, err)

	got, err := repo.GetCredential(ctx, "tellus-teams")
	require.NoError(t, err)
	assert.Equal(t, "new", got.ClientID)
}
