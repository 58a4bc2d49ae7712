// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package models

import "time"

// UnknownPersonName is the aggregation key used when an attendance record
// carries no participant identity at all.
const UnknownPersonName = "Unknown Person"

// AttendanceRecord describes a single participant's presence within one
// attendance report. A participant joining and leaving multiple times may
// appear in several reports, or several times within one.
type AttendanceRecord struct {
	DisplayName            string     `json:"displayName,omitempty"`
	EmailAddress           string     `json:"emailAddress,omitempty"`
	JoinTime               *time.Time `json:"joinTime,omitempty"`
	TotalAttendanceSeconds int64      `json:"totalAttendanceInSeconds"`
}

// AggregateKey returns the roster key for this record. Records without any
// identity aggregate under the fixed UnknownPersonName literal.
func (r *AttendanceRecord) AggregateKey() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return UnknownPersonName
}

// AttendanceReport is a provider-generated post-hoc report of who joined a
// meeting; a single meeting may have multiple reports (e.g. per session).
type AttendanceReport struct {
	ReportID         string             `json:"id"`
	MeetingStartTime *time.Time         `json:"meetingStartDateTime,omitempty"`
	Records          []AttendanceRecord `json:"attendanceRecords,omitempty"`
}

// ParticipantAggregate is one merged roster entry: all attendance records
// sharing the same display name across all reports, with their durations
// summed. Every other field retains the value of the first record seen.
type ParticipantAggregate struct {
	DisplayName            string     `json:"displayName"`
	EmailAddress           string     `json:"emailAddress,omitempty"`
	JoinTime               *time.Time `json:"joinTime,omitempty"`
	TotalAttendanceSeconds int64      `json:"totalAttendanceInSeconds"`
}

// AttendanceRoster is the final aggregation output. Records preserve
// first-seen insertion order; Count is the number of distinct keys.
type AttendanceRoster struct {
	Records []ParticipantAggregate `json:"attendanceRecords"`
	Count   int                    `json:"count"`
}
