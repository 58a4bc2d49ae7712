// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tellus-ops/attendance-service/internal/utils"
)

// OnlineMeetingResource represents an online meeting returned by the Graph API
type OnlineMeetingResource struct {
	ID         string `json:"id"`
	Subject    string `json:"subject,omitempty"`
	JoinWebURL string `json:"joinWebUrl,omitempty"`
}

// FilterOnlineMeetingsByJoinURL queries the mailbox's online-meetings
// collection filtered by exact join URL. The URL is stripped of its query
// string and single quotes are escaped before it enters the OData filter.
// This is a pure API call with no business logic.
func (c *Client) FilterOnlineMeetingsByJoinURL(ctx context.Context, mailbox, joinURL string) ([]OnlineMeetingResource, error) {
	filterURL := utils.EscapeODataQuote(utils.StripQuery(joinURL))
	path := mailboxPath(mailbox) + "/onlineMeetings"
	query := url.Values{
		"$filter": []string{fmt.Sprintf("JoinWebUrl eq '%s'", filterURL)},
	}

	var meetings collection[OnlineMeetingResource]
	if err := c.get(ctx, path, query, &meetings); err != nil {
		return nil, err
	}

	return meetings.Value, nil
}

// ListOnlineMeetings fetches up to limit of the mailbox's online meetings.
// This is a pure API call with no business logic.
func (c *Client) ListOnlineMeetings(ctx context.Context, mailbox string, limit int) ([]OnlineMeetingResource, error) {
	path := mailboxPath(mailbox) + "/onlineMeetings"
	query := url.Values{
		"$top": []string{strconv.Itoa(limit)},
	}

	var meetings collection[OnlineMeetingResource]
	if err := c.get(ctx, path, query, &meetings); err != nil {
		return nil, err
	}

	return meetings.Value, nil
}
