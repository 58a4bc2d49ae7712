// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package models

import "time"

// AuthMode identifies the authorization mode used for upstream calls.
type AuthMode int

const (
	// AuthModeSession acts with a live interactive session access token. The
	// target mailbox is always the literal "me".
	AuthModeSession AuthMode = iota

	// AuthModeDelegatedUser acts as a specific user through their stored
	// delegated token, with the user's consented scopes.
	AuthModeDelegatedUser

	// AuthModeApplication acts as the integration itself with tenant-wide
	// admin-consented scopes; it must always target a concrete mailbox.
	AuthModeApplication
)

// String returns the mode name used in logs.
func (m AuthMode) String() string {
	switch m {
	case AuthModeSession:
		return "session"
	case AuthModeDelegatedUser:
		return "delegated_user"
	case AuthModeApplication:
		return "application"
	default:
		return "unknown"
	}
}

// SessionMailbox is the pseudo-mailbox used for session-authorized calls.
const SessionMailbox = "me"

// CredentialRecord is the durable per-tenant application credential used for
// client-credentials grants. It is mutated only by tenant administration.
type CredentialRecord struct {
	TenantID           string     `json:"tenant_id"`
	ClientID           string     `json:"client_id"`
	DirectoryID        string     `json:"directory_id"`
	ClientSecret       string     `json:"client_secret"`
	CoordinatorMailbox string     `json:"coordinator_mailbox"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

// Valid reports whether the record carries everything needed for a
// client-credentials grant.
func (c *CredentialRecord) Valid() bool {
	return c != nil && c.ClientID != "" && c.DirectoryID != "" && c.ClientSecret != ""
}

// DelegatedTokenRecord is the durable per-user delegated token pair. It is
// updated in place by the token refresh service and never deleted by the
// attendance subsystem.
type DelegatedTokenRecord struct {
	UserID                string `json:"user_id"`
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	ExpiresAtEpochSeconds int64  `json:"expires_at_epoch_seconds"`
}

// NeedsRefresh reports whether the access token expires within the given
// leeway and must be renewed before use.
func (r *DelegatedTokenRecord) NeedsRefresh(now time.Time, leeway time.Duration) bool {
	if r == nil {
		return true
	}
	return time.Duration(r.ExpiresAtEpochSeconds-now.Unix())*time.Second < leeway
}
