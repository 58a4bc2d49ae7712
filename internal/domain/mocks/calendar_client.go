// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tellus-ops/attendance-service/internal/domain"
	"github.com/tellus-ops/attendance-service/internal/domain/models"
)

// MockCalendarClient implements domain.CalendarClient for testing
type MockCalendarClient struct {
	mock.Mock
}

func (m *MockCalendarClient) GetEvent(ctx context.Context, mailbox, eventID string) (*models.CalendarEventRef, error) {
	args := m.Called(ctx, mailbox, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CalendarEventRef), args.Error(1)
}

func (m *MockCalendarClient) ListCalendarView(ctx context.Context, mailbox string, start, end time.Time, limit int) ([]*models.CalendarEventRef, error) {
	args := m.Called(ctx, mailbox, start, end, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CalendarEventRef), args.Error(1)
}

func (m *MockCalendarClient) FindOnlineMeetingByJoinURL(ctx context.Context, mailbox, joinURL string) (*models.OnlineMeetingRef, error) {
	args := m.Called(ctx, mailbox, joinURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OnlineMeetingRef), args.Error(1)
}

func (m *MockCalendarClient) ListRecentOnlineMeetings(ctx context.Context, mailbox string, limit int) ([]*models.OnlineMeetingRef, error) {
	args := m.Called(ctx, mailbox, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OnlineMeetingRef), args.Error(1)
}

func (m *MockCalendarClient) ListAttendanceReports(ctx context.Context, mailbox, meetingID string, limit int) ([]*models.AttendanceReport, error) {
	args := m.Called(ctx, mailbox, meetingID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AttendanceReport), args.Error(1)
}

func (m *MockCalendarClient) GetUserMailbox(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// MockCalendarClientFactory implements domain.CalendarClientFactory for testing
type MockCalendarClientFactory struct {
	mock.Mock
}

func (m *MockCalendarClientFactory) WithAccessToken(accessToken string) domain.CalendarClient {
	args := m.Called(accessToken)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(domain.CalendarClient)
}

func (m *MockCalendarClientFactory) WithClientCredentials(record *models.CredentialRecord) domain.CalendarClient {
	args := m.Called(record)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(domain.CalendarClient)
}
