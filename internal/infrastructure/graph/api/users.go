// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"net/url"
)

// UserResource represents a directory user profile returned by the Graph API
type UserResource struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName,omitempty"`
	Mail              string `json:"mail,omitempty"`
	UserPrincipalName string `json:"userPrincipalName,omitempty"`
}

// GetUser fetches a directory user profile by ID or principal name.
// This is a pure API call with no business logic.
func (c *Client) GetUser(ctx context.Context, userID string) (*UserResource, error) {
	path := "/users/" + url.PathEscape(userID)
	query := url.Values{
		"$select": []string{"id,displayName,mail,userPrincipalName"},
	}

	var user UserResource
	if err := c.get(ctx, path, query, &user); err != nil {
		return nil, err
	}

	return &user, nil
}
