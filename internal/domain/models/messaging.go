// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package models

import "time"

// NATS subjects for messages that the service sends.
const (
	// AttendanceSnapshotSubject is the subject for attendance roster snapshots.
	AttendanceSnapshotSubject = "tellus.attendance.snapshot"
)

// AttendanceSnapshotMessage is the payload published after a successful
// aggregation so downstream dashboard indexers can pick up the roster summary
// without re-querying the provider.
type AttendanceSnapshotMessage struct {
	TenantID         string    `json:"tenant_id"`
	MeetingID        string    `json:"meeting_id"`
	Subject          string    `json:"subject,omitempty"`
	ParticipantCount int       `json:"participant_count"`
	TotalSeconds     int64     `json:"total_seconds"`
	AuthMode         string    `json:"auth_mode"`
	GeneratedAt      time.Time `json:"generated_at"`
}
