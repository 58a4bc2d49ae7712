// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package constants

// Attendance resolution constraints
const (
	// DefaultTenantID is the tenant used when the caller does not supply one.
	DefaultTenantID = "tellus-teams"

	// CalendarSearchWindowPastDays is how far back the deep calendar search looks.
	CalendarSearchWindowPastDays = 7

	// CalendarSearchWindowFutureDays is how far forward the deep calendar search looks.
	CalendarSearchWindowFutureDays = 1

	// CalendarSearchMaxEntries caps the number of calendar view entries scanned.
	CalendarSearchMaxEntries = 100

	// OnlineMeetingScanMaxEntries caps the number of recent online meetings
	// compared by normalized join URL per candidate mailbox.
	OnlineMeetingScanMaxEntries = 50

	// MaxAttendanceReports caps the number of attendance reports merged per meeting.
	MaxAttendanceReports = 10

	// TokenRefreshLeewaySeconds is how close to expiry a delegated access
	// token must be before it is refreshed.
	TokenRefreshLeewaySeconds = 300

	// RequestTimeoutSeconds is the default overall deadline for one
	// attendance lookup, spanning the whole resolution cascade.
	RequestTimeoutSeconds = 60
)
