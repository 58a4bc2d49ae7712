// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/tellus-ops/attendance-service/internal/domain"
	"github.com/tellus-ops/attendance-service/internal/domain/models"
	"github.com/tellus-ops/attendance-service/internal/logging"
	"github.com/tellus-ops/attendance-service/pkg/constants"
	"github.com/tellus-ops/attendance-service/pkg/utils"
)

// AttendanceRequest is one inbound attendance lookup: a calendar event
// reference plus zero or more hints.
type AttendanceRequest struct {
	EventID         string
	OnlineMeetingID string
	JoinURL         string
	OrganizerEmail  string
	MailboxEmail    string
	UserID          string
	TenantID        string
	SessionToken    string
}

// AttendanceResult is the final roster for a resolved meeting.
type AttendanceResult struct {
	MeetingID string
	Subject   string
	Roster    *models.AttendanceRoster
}

// AttendanceService orchestrates the full lookup: credential resolution,
// meeting identity resolution, then attendance aggregation. A roster snapshot
// is published after success, best effort.
type AttendanceService struct {
	CredentialResolver *CredentialService
	IdentityResolver   *MeetingIdentityService
	MessageBuilder     domain.MessageBuilder
	Config             ServiceConfig
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(
	credentialResolver *CredentialService,
	identityResolver *MeetingIdentityService,
	messageBuilder domain.MessageBuilder,
	config ServiceConfig,
) *AttendanceService {
	return &AttendanceService{
		CredentialResolver: credentialResolver,
		IdentityResolver:   identityResolver,
		MessageBuilder:     messageBuilder,
		Config:             config,
	}
}

// ServiceReady checks if the service is ready for use, including the message
// bus connection and the resolvers' backing stores.
func (s *AttendanceService) ServiceReady() bool {
	return s.CredentialResolver != nil &&
		s.CredentialResolver.ServiceReady() &&
		s.IdentityResolver != nil &&
		s.IdentityResolver.ServiceReady() &&
		s.MessageBuilder != nil &&
		s.MessageBuilder.IsReady()
}

// GetAttendance resolves the meeting identity for the request and aggregates
// its attendance reports into a roster.
func (s *AttendanceService) GetAttendance(ctx context.Context, req AttendanceRequest) (*AttendanceResult, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("attendance service is not available")
	}

	if req.EventID == "" && req.OnlineMeetingID == "" {
		return nil, domain.NewValidationError("Calendar Event ID is required")
	}

	// The resolution cascade can issue many upstream calls, each with its own
	// retry budget. One overall deadline bounds the whole request.
	timeout := s.Config.RequestTimeout
	if timeout <= 0 {
		timeout = time.Duration(constants.RequestTimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tenantID := utils.CoalesceString(req.TenantID, s.Config.DefaultTenantID, constants.DefaultTenantID)
	ctx = logging.AppendCtx(ctx, slog.String("tenant_id", tenantID))

	credentials, err := s.CredentialResolver.Resolve(ctx, ResolveRequest{
		SessionToken:  req.SessionToken,
		UserID:        req.UserID,
		TenantID:      tenantID,
		MailboxHint:   req.MailboxEmail,
		OrganizerHint: req.OrganizerEmail,
	})
	if err != nil {
		return nil, deadlineOr(ctx, err)
	}

	ctx = logging.AppendCtx(ctx, slog.String("auth_mode", credentials.Auth.Mode.String()))

	meeting, err := s.IdentityResolver.Resolve(ctx, credentials.Auth, IdentityInput{
		EventID:            req.EventID,
		OnlineMeetingID:    req.OnlineMeetingID,
		JoinURL:            req.JoinURL,
		MailboxHint:        req.MailboxEmail,
		OrganizerHint:      utils.CoalesceString(req.OrganizerEmail, credentials.Principal),
		CoordinatorMailbox: credentials.CoordinatorMailbox,
	})
	if err != nil {
		return nil, deadlineOr(ctx, err)
	}

	roster := s.Aggregate(ctx, credentials.Auth.Client, credentials.Auth.TargetMailbox, meeting.ID, constants.MaxAttendanceReports)

	result := &AttendanceResult{
		MeetingID: meeting.ID,
		Subject:   meeting.Subject,
		Roster:    roster,
	}

	s.publishSnapshot(ctx, tenantID, credentials.Auth.Mode, result)

	return result, nil
}

// deadlineOr substitutes a gateway-timeout error when the request deadline
// expired during resolution, so a timeout is not misreported as a credential
// or not-found failure.
func deadlineOr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.NewUpstreamError("upstream calls did not complete before the request deadline",
			http.StatusGatewayTimeout, ctxErr, err)
	}
	return err
}

// Aggregate fetches up to maxReports attendance reports for the meeting and
// merges per-participant records into a single roster. A fetch failure
// degrades to an empty roster rather than failing the whole request.
func (s *AttendanceService) Aggregate(ctx context.Context, client domain.CalendarClient, targetMailbox, meetingID string, maxReports int) *models.AttendanceRoster {
	reports, err := client.ListAttendanceReports(ctx, targetMailbox, meetingID, maxReports)
	if err != nil {
		slog.WarnContext(ctx, "attendance report fetch failed; returning empty roster",
			logging.ErrKey, err, "meeting_id", meetingID)
		reports = nil
	}

	byName := make(map[string]int)
	aggregates := make([]models.ParticipantAggregate, 0)

	for _, report := range reports {
		if report == nil {
			continue
		}
		for _, record := range report.Records {
			key := record.AggregateKey()
			if idx, seen := byName[key]; seen {
				aggregates[idx].TotalAttendanceSeconds += record.TotalAttendanceSeconds
				continue
			}
			byName[key] = len(aggregates)
			aggregates = append(aggregates, models.ParticipantAggregate{
				DisplayName:            key,
				EmailAddress:           record.EmailAddress,
				JoinTime:               record.JoinTime,
				TotalAttendanceSeconds: record.TotalAttendanceSeconds,
			})
		}
	}

	return &models.AttendanceRoster{
		Records: aggregates,
		Count:   len(aggregates),
	}
}

// publishSnapshot sends the roster summary for downstream dashboards. Failures
// are logged and never affect the response.
func (s *AttendanceService) publishSnapshot(ctx context.Context, tenantID string, mode models.AuthMode, result *AttendanceResult) {
	var totalSeconds int64
	for _, aggregate := range result.Roster.Records {
		totalSeconds += aggregate.TotalAttendanceSeconds
	}

	msg := &models.AttendanceSnapshotMessage{
		TenantID:         tenantID,
		MeetingID:        result.MeetingID,
		Subject:          result.Subject,
		ParticipantCount: result.Roster.Count,
		TotalSeconds:     totalSeconds,
		AuthMode:         mode.String(),
		GeneratedAt:      time.Now().UTC(),
	}

	if err := s.MessageBuilder.SendAttendanceSnapshot(ctx, msg); err != nil {
		slog.WarnContext(ctx, "error publishing attendance snapshot", logging.ErrKey, err,
			"meeting_id", result.MeetingID)
	}
}
