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

// graphTimeFormat is the timestamp format the calendarView endpoint expects.
const graphTimeFormat = "2006-01-02T15:04:05"

// eventSelectFields are the only event fields the resolver needs.
const eventSelectFields = "id,subject,onlineMeeting"

// OnlineMeetingInfo is the online-meeting metadata embedded in a calendar
// event. Either field may be empty; the calendar and meeting subsystems are
// only loosely linked upstream.
type OnlineMeetingInfo struct {
	ID      string `json:"id,omitempty"`
	JoinURL string `json:"joinUrl,omitempty"`
}

// EventResource represents a calendar event returned by the Graph API
type EventResource struct {
	ID            string             `json:"id"`
	Subject       string             `json:"subject"`
	OnlineMeeting *OnlineMeetingInfo `json:"onlineMeeting,omitempty"`
}

// GetEvent fetches a single calendar event by ID for the given mailbox,
// selecting only the fields needed for meeting identity resolution.
// This is a pure API call with no business logic.
func (c *Client) GetEvent(ctx context.Context, mailbox, eventID string) (*EventResource, error) {
	path := fmt.Sprintf("%s/events/%s", mailboxPath(mailbox), url.PathEscape(eventID))
	query := url.Values{"$select": []string{eventSelectFields}}

	var event EventResource
	if err := c.get(ctx, path, query, &event); err != nil {
		return nil, err
	}

	return &event, nil
}

// ListCalendarView enumerates the mailbox's calendar view between start and
// end, returning at most limit entries.
// This is a pure API call with no business logic.
func (c *Client) ListCalendarView(ctx context.Context, mailbox string, start, end time.Time, limit int) ([]EventResource, error) {
	path := mailboxPath(mailbox) + "/calendarView"
	query := url.Values{
		"startDateTime": []string{start.UTC().Format(graphTimeFormat)},
		"endDateTime":   []string{end.UTC().Format(graphTimeFormat)},
		"$select":       []string{eventSelectFields},
		"$top":          []string{strconv.Itoa(limit)},
	}

	var events collection[EventResource]
	if err := c.get(ctx, path, query, &events); err != nil {
		return nil, err
	}

	return events.Value, nil
}
