// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package models

// CalendarEventRef is a reference to a scheduled calendar item on a mailbox.
// The online-meeting fields are populated progressively as resolution
// strategies succeed; an event may or may not embed an online meeting.
type CalendarEventRef struct {
	EventID         string `json:"event_id"`
	Subject         string `json:"subject,omitempty"`
	OnlineMeetingID string `json:"online_meeting_id,omitempty"`
	JoinURL         string `json:"join_url,omitempty"`
}

// HasOnlineMeeting reports whether the event embeds a concrete online-meeting
// identifier.
func (e *CalendarEventRef) HasOnlineMeeting() bool {
	return e != nil && e.OnlineMeetingID != ""
}

// OnlineMeetingRef is the provider-side object representing a virtual meeting
// instance, distinct from the calendar event that may reference it. A
// populated ID is the success condition of identity resolution.
type OnlineMeetingRef struct {
	ID      string `json:"id"`
	Subject string `json:"subject,omitempty"`
	JoinURL string `json:"join_url,omitempty"`
}
