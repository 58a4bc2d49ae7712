// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tellus-ops/attendance-service/internal/domain"
	"github.com/tellus-ops/attendance-service/internal/domain/mocks"
	"github.com/tellus-ops/attendance-service/internal/domain/models"
	"github.com/tellus-ops/attendance-service/pkg/constants"
)

func newIdentityServiceForTest(now time.Time) *MeetingIdentityService {
	svc := NewMeetingIdentityService()
	svc.now = func() time.Time { return now }
	return svc
}

func sessionAuth(client domain.CalendarClient) *domain.AuthContext {
	return &domain.AuthContext{
		Mode:          models.AuthModeSession,
		Client:        client,
		TargetMailbox: models.SessionMailbox,
	}
}

func appAuth(client domain.CalendarClient, mailbox string) *domain.AuthContext {
	return &domain.AuthContext{
		Mode:          models.AuthModeApplication,
		Client:        client,
		TargetMailbox: mailbox,
	}
}

func TestMeetingIdentityService_Resolve_HaveID(t *testing.T) {
	ctx := context.Background()
	svc := newIdentityServiceForTest(time.Now())
	client := &mocks.MockCalendarClient{}

	ref, err := svc.Resolve(ctx, sessionAuth(client), IdentityInput{OnlineMeetingID: "M1", EventID: "E1"})

	require.NoError(t, err)
	assert.Equal(t, "M1", ref.ID)
	// The id hint skips every other strategy: zero upstream calls.
	client.AssertNotCalled(t, "GetEvent", mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "ListCalendarView", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "FindOnlineMeetingByJoinURL", mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "ListRecentOnlineMeetings", mock.Anything, mock.Anything, mock.Anything)
}

func TestMeetingIdentityService_Resolve_FromCalendarEvent(t *testing.T) {
	ctx := context.Background()
	svc := newIdentityServiceForTest(time.Now())
	client := &mocks.MockCalendarClient{}

	client.On("GetEvent", mock.Anything, "me", "E1").Return(&models.CalendarEventRef{
		EventID:         "E1",
		Subject:         "Weekly Sync",
		OnlineMeetingID: "M2",
		JoinURL:         "https://teams.microsoft.com/l/meetup-join/abc",
	}, nil)

	ref, err := svc.Resolve(ctx, sessionAuth(client), IdentityInput{EventID: "E1"})

	require.NoError(t, err)
	assert.Equal(t, "M2", ref.ID)
	assert.Equal(t, "Weekly Sync", ref.Subject)
	client.AssertNotCalled(t, "ListCalendarView", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMeetingIdentityService_Resolve_FromDeepCalendarSearch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	svc := newIdentityServiceForTest(now)
	client := &mocks.MockCalendarClient{}

	client.On("GetEvent", mock.Anything, "me", "E1").
		Return(nil, domain.NewUpstreamError("event lookup failed", 404))
	client.On("ListCalendarView", mock.Anything, "me",
		now.AddDate(0, 0, -7), now.AddDate(0, 0, 1), constants.CalendarSearchMaxEntries).
		Return([]*models.CalendarEventRef{
			{EventID: "E0", Subject: "Other"},
			{EventID: "E1", Subject: "Weekly Sync", OnlineMeetingID: "M3"},
		}, nil)

	ref, err := svc.Resolve(ctx, sessionAuth(client), IdentityInput{EventID: "E1"})

	require.NoError(t, err)
	assert.Equal(t, "M3", ref.ID)
	assert.Equal(t, "Weekly Sync", ref.Subject)
}

func TestMeetingIdentityService_Resolve_FromJoinURLSearch(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	joinURL := "https://teams.microsoft.com/l/meetup-join/ABC/0?context=xyz"

	t.Run("manual scan matches a normalized URL on the second candidate", func(t *testing.T) {
		svc := newIdentityServiceForTest(now)
		client := &mocks.MockCalendarClient{}

		client.On("GetEvent", mock.Anything, "target@tellus.example", "E1").
			Return(nil, domain.NewUpstreamError("event lookup failed", 404))
		client.On("ListCalendarView", mock.Anything, "target@tellus.example",
			mock.Anything, mock.Anything, mock.Anything).
			Return(nil, domain.NewUpstreamError("calendar view failed", 403))

		// Method A fails for every candidate.
		client.On("FindOnlineMeetingByJoinURL", mock.Anything, mock.Anything, joinURL).
			Return(nil, domain.NewNotFoundError("no online meeting matches the join URL"))

		// Method B: the stored URL differs in case, query, and trailing suffix.
		client.On("ListRecentOnlineMeetings", mock.Anything, "target@tellus.example", constants.OnlineMeetingScanMaxEntries).
			Return([]*models.OnlineMeetingRef{}, nil)
		client.On("ListRecentOnlineMeetings", mock.Anything, "hint@tellus.example", constants.OnlineMeetingScanMaxEntries).
			Return([]*models.OnlineMeetingRef{
				{ID: "M4", JoinURL: "https://teams.microsoft.com/l/meetup-join/abc/"},
			}, nil)
		client.On("ListRecentOnlineMeetings", mock.Anything, mock.Anything, constants.OnlineMeetingScanMaxEntries).
			Return([]*models.OnlineMeetingRef{}, nil)

		ref, err := svc.Resolve(ctx, appAuth(client, "target@tellus.example"), IdentityInput{
			EventID:            "E1",
			JoinURL:            joinURL,
			MailboxHint:        "hint@tellus.example",
			OrganizerHint:      "organizer@tellus.example",
			CoordinatorMailbox: "coordinator@tellus.example",
		})

		require.NoError(t, err)
		assert.Equal(t, "M4", ref.ID)
	})

	t.Run("earlier candidate wins even when a later one also matches", func(t *testing.T) {
		svc := newIdentityServiceForTest(now)
		client := &mocks.MockCalendarClient{}

		client.On("FindOnlineMeetingByJoinURL", mock.Anything, "first@tellus.example", joinURL).
			Return(&models.OnlineMeetingRef{ID: "M-first", JoinURL: joinURL}, nil)
		client.On("FindOnlineMeetingByJoinURL", mock.Anything, "second@tellus.example", joinURL).
			Return(&models.OnlineMeetingRef{ID: "M-second", JoinURL: joinURL}, nil)
		client.On("ListRecentOnlineMeetings", mock.Anything, mock.Anything, mock.Anything).
			Return([]*models.OnlineMeetingRef{}, nil)

		ref, err := svc.Resolve(ctx, appAuth(client, "first@tellus.example"), IdentityInput{
			JoinURL:     joinURL,
			MailboxHint: "second@tellus.example",
		})

		require.NoError(t, err)
		assert.Equal(t, "M-first", ref.ID)
	})

	t.Run("session pseudo-mailbox is never probed", func(t *testing.T) {
		svc := newIdentityServiceForTest(now)
		client := &mocks.MockCalendarClient{}

		client.On("GetEvent", mock.Anything, "me", "E1").
			Return(nil, domain.NewUpstreamError("event lookup failed", 404))
		client.On("ListCalendarView", mock.Anything, "me", mock.Anything, mock.Anything, mock.Anything).
			Return([]*models.CalendarEventRef{}, nil)
		client.On("FindOnlineMeetingByJoinURL", mock.Anything, "hint@tellus.example", joinURL).
			Return(&models.OnlineMeetingRef{ID: "M5", JoinURL: joinURL}, nil)

		ref, err := svc.Resolve(ctx, sessionAuth(client), IdentityInput{
			EventID:     "E1",
			JoinURL:     joinURL,
			MailboxHint: "Hint@tellus.example",
		})

		require.NoError(t, err)
		assert.Equal(t, "M5", ref.ID)
		client.AssertNotCalled(t, "FindOnlineMeetingByJoinURL", mock.Anything, "me", mock.Anything)
	})
}

func TestMeetingIdentityService_Resolve_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newIdentityServiceForTest(time.Now())
	client := &mocks.MockCalendarClient{}

	client.On("GetEvent", mock.Anything, "me", "E1").
		Return(nil, domain.NewUpstreamError("event lookup failed", 404))
	client.On("ListCalendarView", mock.Anything, "me", mock.Anything, mock.Anything, mock.Anything).
		Return([]*models.CalendarEventRef{{EventID: "E1", Subject: "No Meeting"}}, nil)

	ref, err := svc.Resolve(ctx, sessionAuth(client), IdentityInput{EventID: "E1"})

	assert.Nil(t, ref)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, MeetingNotFoundGuidance, domainErr.Message)
	// No join URL was ever discovered, so the join-URL search never ran.
	client.AssertNotCalled(t, "FindOnlineMeetingByJoinURL", mock.Anything, mock.Anything, mock.Anything)
}
