// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttendanceRecord_AggregateKey(t *testing.T) {
	tests := []struct {
		name     string
		record   AttendanceRecord
		expected string
	}{
		{
			name:     "display name present",
			record:   AttendanceRecord{DisplayName: "Alice Example"},
			expected: "Alice Example",
		},
		{
			name:     "no identity falls back to unknown person",
			record:   AttendanceRecord{},
			expected: UnknownPersonName,
		},
		{
			name:     "email alone does not change the key",
			record:   AttendanceRecord{EmailAddress: "alice@example.com"},
			expected: UnknownPersonName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.record.AggregateKey())
		})
	}
}

func TestCalendarEventRef_HasOnlineMeeting(t *testing.T) {
	assert.True(t, (&CalendarEventRef{EventID: "E1", OnlineMeetingID: "M1"}).HasOnlineMeeting())
	assert.False(t, (&CalendarEventRef{EventID: "E1"}).HasOnlineMeeting())
	var nilRef *CalendarEventRef
	assert.False(t, nilRef.HasOnlineMeeting())
}
