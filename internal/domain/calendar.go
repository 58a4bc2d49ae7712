// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"

	"github.com/tellus-ops/attendance-service/internal/domain/models"
)

// CalendarClient defines the upstream calendar/meetings provider operations
// needed by identity resolution and attendance aggregation. Every method is
// read-only against the provider.
type CalendarClient interface {
	// GetEvent fetches a calendar event by ID for a mailbox, selecting its
	// subject and embedded online-meeting metadata.
	GetEvent(ctx context.Context, mailbox, eventID string) (*models.CalendarEventRef, error)

	// ListCalendarView enumerates the mailbox's calendar view within the
	// given window, returning at most limit entries.
	ListCalendarView(ctx context.Context, mailbox string, start, end time.Time, limit int) ([]*models.CalendarEventRef, error)

	// FindOnlineMeetingByJoinURL queries the mailbox's online-meetings
	// collection filtered by exact join URL. A not-found result is an error
	// with ErrorTypeNotFound.
	FindOnlineMeetingByJoinURL(ctx context.Context, mailbox, joinURL string) (*models.OnlineMeetingRef, error)

	// ListRecentOnlineMeetings fetches up to limit of the mailbox's most
	// recent online meetings.
	ListRecentOnlineMeetings(ctx context.Context, mailbox string, limit int) ([]*models.OnlineMeetingRef, error)

	// ListAttendanceReports fetches up to limit attendance reports for an
	// online meeting, with their records expanded inline.
	ListAttendanceReports(ctx context.Context, mailbox, meetingID string, limit int) ([]*models.AttendanceReport, error)

	// GetUserMailbox resolves a user's primary mailbox address from their
	// directory profile.
	GetUserMailbox(ctx context.Context, userID string) (string, error)
}

// CalendarClientFactory builds provider clients bound to a specific
// authorization context. The credential resolver decides which constructor to
// use per request.
type CalendarClientFactory interface {
	// WithAccessToken returns a client authorized by a bearer access token
	// (interactive session or refreshed delegated token).
	WithAccessToken(accessToken string) CalendarClient

	// WithClientCredentials returns a client authorized by an application
	// token acquired through the client-credentials grant against the
	// tenant's directory.
	WithClientCredentials(record *models.CredentialRecord) CalendarClient
}

// AuthContext is the established authorization context for one request:
// as whom the upstream calls are made, through which client, and against
// which mailbox. Exactly one mode is active per request.
type AuthContext struct {
	Mode          models.AuthMode
	Client        CalendarClient
	TargetMailbox string
}
