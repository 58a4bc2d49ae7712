// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/tellus-ops/attendance-service/internal/domain/models"
)

// MessageBuilder publishes service messages to downstream consumers.
type MessageBuilder interface {
	// IsReady reports whether the underlying connection can publish.
	IsReady() bool
	// SendAttendanceSnapshot publishes a roster summary after a successful
	// aggregation so the dashboard indexer can pick it up. Best effort;
	// failures must never affect the caller's response.
	SendAttendanceSnapshot(ctx context.Context, msg *models.AttendanceSnapshotMessage) error
}
