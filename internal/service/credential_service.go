// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tellus-ops/attendance-service/internal/domain"
	"github.com/tellus-ops/attendance-service/internal/domain/models"
	"github.com/tellus-ops/attendance-service/internal/logging"
	"github.com/tellus-ops/attendance-service/pkg/utils"
)

// ResolveRequest carries everything the resolver may use to establish an
// authorization context for one request.
type ResolveRequest struct {
	// SessionToken is the caller's interactive access token, when present.
	SessionToken string
	// UserID selects a stored delegated token record.
	UserID string
	// TenantID selects the application credential record.
	TenantID string
	// MailboxHint and OrganizerHint are optional mailbox addresses from the
	// request, used to pick the application-mode target mailbox.
	MailboxHint   string
	OrganizerHint string
}

// ResolvedCredentials is the resolver output: the authorization context plus
// tenant facts the later resolution steps need for candidate mailboxes.
type ResolvedCredentials struct {
	Auth *domain.AuthContext
	// CoordinatorMailbox is the tenant's fallback mailbox, when the tenant
	// credential record was loaded. Best effort outside application mode.
	CoordinatorMailbox string
	// Principal is the acting identity extracted from the session token
	// claims, for logging and as an organizer hint. Unverified by design:
	// the token is forwarded to the provider, which is the actual verifier.
	Principal string
}

// CredentialService decides as whom and with what authority the upstream
// calendar calls are made. Priority order, first success wins: interactive
// session token, stored delegated user token, tenant application credential.
type CredentialService struct {
	ClientFactory        domain.CalendarClientFactory
	CredentialRepository domain.CredentialRepository
	TokenRepository      domain.DelegatedTokenRepository
	TokenRefresher       domain.TokenRefresher
	Config               ServiceConfig
}

// NewCredentialService creates a new CredentialService.
func NewCredentialService(
	clientFactory domain.CalendarClientFactory,
	credentialRepository domain.CredentialRepository,
	tokenRepository domain.DelegatedTokenRepository,
	tokenRefresher domain.TokenRefresher,
	config ServiceConfig,
) *CredentialService {
	return &CredentialService{
		ClientFactory:        clientFactory,
		CredentialRepository: credentialRepository,
		TokenRepository:      tokenRepository,
		TokenRefresher:       tokenRefresher,
		Config:               config,
	}
}

// ServiceReady checks if the service is ready for use, including the
// readiness of the backing key-value stores.
func (s *CredentialService) ServiceReady() bool {
	return s.ClientFactory != nil &&
		s.CredentialRepository != nil &&
		s.CredentialRepository.IsReady() &&
		s.TokenRepository != nil &&
		s.TokenRepository.IsReady() &&
		s.TokenRefresher != nil
}

// Resolve establishes the authorization context for one request. Exhausting
// every mode is an unauthorized error naming the tenant.
func (s *CredentialService) Resolve(ctx context.Context, req ResolveRequest) (*ResolvedCredentials, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("credential resolver is not available")
	}

	tenantID := req.TenantID
	if tenantID == "" {
		tenantID = s.Config.DefaultTenantID
	}

	if req.SessionToken != "" {
		return s.resolveSession(ctx, req), nil
	}

	if req.UserID != "" {
		resolved, err := s.resolveDelegated(ctx, req)
		if err == nil {
			return resolved, nil
		}
		slog.WarnContext(ctx, "delegated token unusable; falling back to application credentials",
			logging.ErrKey, err, "user_id", req.UserID)
	}

	return s.resolveApplication(ctx, req, tenantID)
}

func (s *CredentialService) resolveSession(ctx context.Context, req ResolveRequest) *ResolvedCredentials {
	principal := sessionPrincipal(req.SessionToken)
	slog.DebugContext(ctx, "resolved session authorization", "principal", principal)

	return &ResolvedCredentials{
		Auth: &domain.AuthContext{
			Mode:          models.AuthModeSession,
			Client:        s.ClientFactory.WithAccessToken(req.SessionToken),
			TargetMailbox: models.SessionMailbox,
		},
		Principal: principal,
	}
}

func (s *CredentialService) resolveDelegated(ctx context.Context, req ResolveRequest) (*ResolvedCredentials, error) {
	record, revision, err := s.TokenRepository.GetTokenWithRevision(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	record, err = s.TokenRefresher.EnsureFresh(ctx, record, revision)
	if err != nil {
		return nil, err
	}

	client := s.ClientFactory.WithAccessToken(record.AccessToken)

	// The delegated token belongs to a specific user; calls should target
	// that user's mailbox explicitly so downstream candidate lists have a
	// concrete address to work with.
	mailbox := models.SessionMailbox
	if resolvedMailbox, mailboxErr := client.GetUserMailbox(ctx, req.UserID); mailboxErr == nil && resolvedMailbox != "" {
		mailbox = resolvedMailbox
	} else if mailboxErr != nil {
		slog.WarnContext(ctx, "could not resolve delegated user mailbox; using session pseudo-mailbox",
			logging.ErrKey, mailboxErr, "user_id", req.UserID)
	}

	slog.DebugContext(ctx, "resolved delegated authorization", "user_id", req.UserID, "mailbox", mailbox)

	return &ResolvedCredentials{
		Auth: &domain.AuthContext{
			Mode:          models.AuthModeDelegatedUser,
			Client:        client,
			TargetMailbox: mailbox,
		},
	}, nil
}

func (s *CredentialService) resolveApplication(ctx context.Context, req ResolveRequest, tenantID string) (*ResolvedCredentials, error) {
	record, err := s.CredentialRepository.GetCredential(ctx, tenantID)
	if err != nil || !record.Valid() {
		slog.WarnContext(ctx, "no usable application credentials for tenant",
			logging.ErrKey, err, "tenant_id", tenantID)
		return nil, domain.NewUnauthorizedError(fmt.Sprintf("Unauthorized: No credentials for %s", tenantID), err)
	}

	// Application mode never uses "me"; it must target a concrete mailbox.
	mailbox := utils.CoalesceString(req.MailboxHint, req.OrganizerHint, record.CoordinatorMailbox)
	if mailbox == "" {
		slog.WarnContext(ctx, "application credentials present but no target mailbox resolvable",
			"tenant_id", tenantID)
		return nil, domain.NewUnauthorizedError(fmt.Sprintf("Unauthorized: No target mailbox resolvable for %s", tenantID))
	}

	slog.DebugContext(ctx, "resolved application authorization", "tenant_id", tenantID, "mailbox", mailbox)

	return &ResolvedCredentials{
		Auth: &domain.AuthContext{
			Mode:          models.AuthModeApplication,
			Client:        s.ClientFactory.WithClientCredentials(record),
			TargetMailbox: mailbox,
		},
		CoordinatorMailbox: record.CoordinatorMailbox,
	}, nil
}

// sessionPrincipal extracts the acting identity from a session token's claims
// without verifying the signature. Verification belongs to the upstream
// provider; the claim is used only for logs and candidate mailbox hints.
func sessionPrincipal(token string) string {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return ""
	}

	for _, claim := range []string{"preferred_username", "upn", "email"} {
		if value, ok := claims[claim].(string); ok && value != "" {
			return value
		}
	}
	return ""
}
