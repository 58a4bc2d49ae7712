// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

// Package graph adapts the raw Graph API client to the domain's calendar
// provider interface: upstream resource shapes are validated and normalized
// at this boundary before they enter the resolver or aggregator.
package graph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tellus-ops/attendance-service/internal/domain"
	"github.com/tellus-ops/attendance-service/internal/domain/models"
	"github.com/tellus-ops/attendance-service/internal/infrastructure/graph/api"
	"github.com/tellus-ops/attendance-service/pkg/utils"
)

// Provider implements domain.CalendarClient over the raw Graph API client.
type Provider struct {
	client api.ClientAPI
}

// Ensure Provider implements CalendarClient
var _ domain.CalendarClient = (*Provider)(nil)

// NewProvider wraps a raw Graph API client.
func NewProvider(client api.ClientAPI) *Provider {
	return &Provider{client: client}
}

// mapError converts a raw API error into a typed domain error, preserving the
// upstream status code for everything that is not a plain not-found.
func mapError(err error, operation string) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			return domain.NewNotFoundError(fmt.Sprintf("%s: not found", operation), err)
		default:
			return domain.NewUpstreamError(fmt.Sprintf("%s failed", operation), apiErr.StatusCode, err)
		}
	}
	return domain.NewUpstreamError(fmt.Sprintf("%s failed", operation), 0, err)
}

func eventRefFromResource(resource *api.EventResource) *models.CalendarEventRef {
	ref := &models.CalendarEventRef{
		EventID: resource.ID,
		Subject: resource.Subject,
	}
	if resource.OnlineMeeting != nil {
		ref.OnlineMeetingID = resource.OnlineMeeting.ID
		ref.JoinURL = resource.OnlineMeeting.JoinURL
	}
	return ref
}

func meetingRefFromResource(resource *api.OnlineMeetingResource) *models.OnlineMeetingRef {
	return &models.OnlineMeetingRef{
		ID:      resource.ID,
		Subject: resource.Subject,
		JoinURL: resource.JoinWebURL,
	}
}

// GetEvent fetches a calendar event and returns its normalized reference.
func (p *Provider) GetEvent(ctx context.Context, mailbox, eventID string) (*models.CalendarEventRef, error) {
	resource, err := p.client.GetEvent(ctx, mailbox, eventID)
	if err != nil {
		return nil, mapError(err, "get event")
	}
	return eventRefFromResource(resource), nil
}

// ListCalendarView enumerates the mailbox's calendar view within the window.
func (p *Provider) ListCalendarView(ctx context.Context, mailbox string, start, end time.Time, limit int) ([]*models.CalendarEventRef, error) {
	resources, err := p.client.ListCalendarView(ctx, mailbox, start, end, limit)
	if err != nil {
		return nil, mapError(err, "list calendar view")
	}

	refs := make([]*models.CalendarEventRef, 0, len(resources))
	for i := range resources {
		refs = append(refs, eventRefFromResource(&resources[i]))
	}
	return refs, nil
}

// FindOnlineMeetingByJoinURL queries the mailbox's online meetings by exact
// join URL; no match is a domain not-found error.
func (p *Provider) FindOnlineMeetingByJoinURL(ctx context.Context, mailbox, joinURL string) (*models.OnlineMeetingRef, error) {
	resources, err := p.client.FilterOnlineMeetingsByJoinURL(ctx, mailbox, joinURL)
	if err != nil {
		return nil, mapError(err, "filter online meetings")
	}
	if len(resources) == 0 {
		return nil, domain.NewNotFoundError("no online meeting matches the join URL")
	}
	return meetingRefFromResource(&resources[0]), nil
}

// ListRecentOnlineMeetings fetches up to limit of the mailbox's recent
// online meetings.
func (p *Provider) ListRecentOnlineMeetings(ctx context.Context, mailbox string, limit int) ([]*models.OnlineMeetingRef, error) {
	resources, err := p.client.ListOnlineMeetings(ctx, mailbox, limit)
	if err != nil {
		return nil, mapError(err, "list online meetings")
	}

	refs := make([]*models.OnlineMeetingRef, 0, len(resources))
	for i := range resources {
		refs = append(refs, meetingRefFromResource(&resources[i]))
	}
	return refs, nil
}

// ListAttendanceReports fetches attendance reports with expanded records and
// normalizes them into domain shapes. The join time of a record is the start
// of its first attendance interval.
func (p *Provider) ListAttendanceReports(ctx context.Context, mailbox, meetingID string, limit int) ([]*models.AttendanceReport, error) {
	resources, err := p.client.ListAttendanceReports(ctx, mailbox, meetingID, limit)
	if err != nil {
		return nil, mapError(err, "list attendance reports")
	}

	reports := make([]*models.AttendanceReport, 0, len(resources))
	for _, resource := range resources {
		report := &models.AttendanceReport{
			ReportID:         resource.ID,
			MeetingStartTime: resource.MeetingStartDateTime,
		}
		for _, record := range resource.AttendanceRecords {
			normalized := models.AttendanceRecord{
				EmailAddress:           record.EmailAddress,
				TotalAttendanceSeconds: record.TotalAttendanceInSeconds,
			}
			if record.Identity != nil {
				normalized.DisplayName = record.Identity.DisplayName
			}
			if len(record.AttendanceIntervals) > 0 {
				normalized.JoinTime = record.AttendanceIntervals[0].JoinDateTime
			}
			report.Records = append(report.Records, normalized)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// GetUserMailbox resolves a user's primary mailbox address from their
// directory profile, preferring the mail attribute over the principal name.
func (p *Provider) GetUserMailbox(ctx context.Context, userID string) (string, error) {
	user, err := p.client.GetUser(ctx, userID)
	if err != nil {
		return "", mapError(err, "get user")
	}
	return utils.CoalesceString(user.Mail, user.UserPrincipalName), nil
}
