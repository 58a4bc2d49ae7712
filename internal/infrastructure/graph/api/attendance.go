// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// AttendanceIdentity is the participant identity on an attendance record.
type AttendanceIdentity struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// AttendanceInterval is one join/leave span within an attendance record.
type AttendanceInterval struct {
	JoinDateTime      *time.Time `json:"joinDateTime,omitempty"`
	LeaveDateTime     *time.Time `json:"leaveDateTime,omitempty"`
	DurationInSeconds int64      `json:"durationInSeconds,omitempty"`
}

// AttendanceRecordResource represents one participant's attendance within a
// report as returned by the Graph API.
type AttendanceRecordResource struct {
	ID                       string               `json:"id,omitempty"`
	EmailAddress             string               `json:"emailAddress,omitempty"`
	TotalAttendanceInSeconds int64                `json:"totalAttendanceInSeconds"`
	Identity                 *AttendanceIdentity  `json:"identity,omitempty"`
	AttendanceIntervals      []AttendanceInterval `json:"attendanceIntervals,omitempty"`
}

// AttendanceReportResource represents a meeting attendance report with its
// records expanded inline.
type AttendanceReportResource struct {
	ID                   string                     `json:"id"`
	MeetingStartDateTime *time.Time                 `json:"meetingStartDateTime,omitempty"`
	MeetingEndDateTime   *time.Time                 `json:"meetingEndDateTime,omitempty"`
	TotalParticipantCount int                       `json:"totalParticipantCount,omitempty"`
	AttendanceRecords    []AttendanceRecordResource `json:"attendanceRecords,omitempty"`
}

// ListAttendanceReports fetches up to limit attendance reports for an online
// meeting with their records expanded.
// This is a pure API call with no business logic.
func (c *Client) ListAttendanceReports(ctx context.Context, mailbox, meetingID string, limit int) ([]AttendanceReportResource, error) {
	path := fmt.Sprintf("%s/onlineMeetings/%s/attendanceReports", mailboxPath(mailbox), url.PathEscape(meetingID))
	query := url.Values{
		"$expand": []string{"attendanceRecords"},
		"$top":    []string{strconv.Itoa(limit)},
	}

	var reports collection[AttendanceReportResource]
	if err := c.get(ctx, path, query, &reports); err != nil {
		return nil, err
	}

	return reports.Value, nil
}
