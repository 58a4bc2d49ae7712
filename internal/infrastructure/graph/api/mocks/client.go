// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tellus-ops/attendance-service/internal/infrastructure/graph/api"
)

// MockClientAPI implements api.ClientAPI for testing
type MockClientAPI struct {
	mock.Mock
}

func (m *MockClientAPI) GetEvent(ctx context.Context, mailbox, eventID string) (*api.EventResource, error) {
	args := m.Called(ctx, mailbox, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.EventResource), args.Error(1)
}

func (m *MockClientAPI) ListCalendarView(ctx context.Context, mailbox string, start, end time.Time, limit int) ([]api.EventResource, error) {
	args := m.Called(ctx, mailbox, start, end, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.EventResource), args.Error(1)
}

func (m *MockClientAPI) FilterOnlineMeetingsByJoinURL(ctx context.Context, mailbox, joinURL string) ([]api.OnlineMeetingResource, error) {
	args := m.Called(ctx, mailbox, joinURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.OnlineMeetingResource), args.Error(1)
}

func (m *MockClientAPI) ListOnlineMeetings(ctx context.Context, mailbox string, limit int) ([]api.OnlineMeetingResource, error) {
	args := m.Called(ctx, mailbox, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.OnlineMeetingResource), args.Error(1)
}

func (m *MockClientAPI) ListAttendanceReports(ctx context.Context, mailbox, meetingID string, limit int) ([]api.AttendanceReportResource, error) {
	args := m.Called(ctx, mailbox, meetingID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.AttendanceReportResource), args.Error(1)
}

func (m *MockClientAPI) GetUser(ctx context.Context, userID string) (*api.UserResource, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.UserResource), args.Error(1)
}
