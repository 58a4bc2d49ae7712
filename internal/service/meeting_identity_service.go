// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/tellus-ops/attendance-service/internal/domain"
	"github.com/tellus-ops/attendance-service/internal/domain/models"
	"github.com/tellus-ops/attendance-service/internal/logging"
	"github.com/tellus-ops/attendance-service/internal/utils"
	"github.com/tellus-ops/attendance-service/pkg/concurrent"
	"github.com/tellus-ops/attendance-service/pkg/constants"
)

// MeetingNotFoundGuidance is the user-facing explanation returned when every
// resolution strategy is exhausted. Attendance data typically lags the meeting
// itself, so exhaustion is often a provider-side activation delay rather than
// a caller error.
const MeetingNotFoundGuidance = "attendance tracking not yet activated for this meeting"

// IdentityInput carries the calendar event reference and hints that identity
// resolution may use.
type IdentityInput struct {
	EventID         string
	OnlineMeetingID string
	JoinURL         string

	// Candidate mailbox sources for the join-URL fallback search.
	MailboxHint        string
	OrganizerHint      string
	CoordinatorMailbox string
}

// resolveState accumulates what the strategies learn along the way. The join
// URL in particular may arrive as a hint or be discovered by either calendar
// step, and the join-URL search uses whichever was found first.
type resolveState struct {
	auth    *domain.AuthContext
	input   IdentityInput
	joinURL string
}

// strategy is one idempotent, read-only resolution step. A false result means
// "this step did not resolve", never a propagating failure.
type strategy struct {
	name string
	fn   func(ctx context.Context, state *resolveState) (*models.OnlineMeetingRef, bool)
}

// MeetingIdentityService turns a calendar event reference plus optional hints
// into a concrete online-meeting identity via an ordered strategy cascade. It
// either terminates with a populated meeting ID or an explicit not-found
// failure; it never returns a partially resolved state.
type MeetingIdentityService struct {
	pool *concurrent.WorkerPool
	now  func() time.Time
}

// NewMeetingIdentityService creates a new MeetingIdentityService.
func NewMeetingIdentityService() *MeetingIdentityService {
	return &MeetingIdentityService{
		pool: concurrent.NewWorkerPool(4),
		now:  time.Now,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *MeetingIdentityService) ServiceReady() bool {
	return s.pool != nil
}

// Resolve runs the strategy cascade in order and stops at the first success.
// Upstream errors inside a strategy are logged and swallowed; only exhaustion
// of every strategy is the terminal not-found failure.
func (s *MeetingIdentityService) Resolve(ctx context.Context, auth *domain.AuthContext, input IdentityInput) (*models.OnlineMeetingRef, error) {
	state := &resolveState{
		auth:    auth,
		input:   input,
		joinURL: input.JoinURL,
	}

	strategies := []strategy{
		{name: "have_id", fn: s.fromHint},
		{name: "calendar_event", fn: s.fromCalendarEvent},
		{name: "deep_calendar_search", fn: s.fromDeepCalendarSearch},
		{name: "join_url_search", fn: s.fromJoinURLSearch},
	}

	for _, strat := range strategies {
		ref, resolved := strat.fn(ctx, state)
		if resolved {
			slog.DebugContext(ctx, "resolved online meeting identity",
				"strategy", strat.name, "meeting_id", ref.ID)
			return ref, nil
		}
	}

	slog.InfoContext(ctx, "meeting identity resolution exhausted all strategies",
		"event_id", input.EventID, "has_join_url", state.joinURL != "")

	return nil, domain.NewNotFoundError(MeetingNotFoundGuidance)
}

// fromHint is the cheapest and most authoritative path: an online-meeting id
// supplied by the caller skips every other strategy.
func (s *MeetingIdentityService) fromHint(_ context.Context, state *resolveState) (*models.OnlineMeetingRef, bool) {
	if state.input.OnlineMeetingID == "" {
		return nil, false
	}
	return &models.OnlineMeetingRef{ID: state.input.OnlineMeetingID, JoinURL: state.joinURL}, true
}

// fromCalendarEvent fetches the calendar event by id and succeeds when the
// event embeds an online-meeting id.
func (s *MeetingIdentityService) fromCalendarEvent(ctx context.Context, state *resolveState) (*models.OnlineMeetingRef, bool) {
	if state.input.EventID == "" {
		return nil, false
	}

	event, err := state.auth.Client.GetEvent(ctx, state.auth.TargetMailbox, state.input.EventID)
	if err != nil {
		slog.DebugContext(ctx, "calendar event lookup did not resolve",
			logging.ErrKey, err, "event_id", state.input.EventID)
		return nil, false
	}

	if event.JoinURL != "" && state.joinURL == "" {
		state.joinURL = event.JoinURL
	}

	if !event.HasOnlineMeeting() {
		return nil, false
	}

	return &models.OnlineMeetingRef{
		ID:      event.OnlineMeetingID,
		Subject: event.Subject,
		JoinURL: event.JoinURL,
	}, true
}

// fromDeepCalendarSearch enumerates the mailbox's calendar view over the past
// week plus the next day and scans for the original event id. This compensates
// for direct lookups that fail, such as a moved event or a recurring instance.
func (s *MeetingIdentityService) fromDeepCalendarSearch(ctx context.Context, state *resolveState) (*models.OnlineMeetingRef, bool) {
	if state.input.EventID == "" {
		return nil, false
	}

	now := s.now()
	start := now.AddDate(0, 0, -constants.CalendarSearchWindowPastDays)
	end := now.AddDate(0, 0, constants.CalendarSearchWindowFutureDays)

	events, err := state.auth.Client.ListCalendarView(ctx, state.auth.TargetMailbox, start, end, constants.CalendarSearchMaxEntries)
	if err != nil {
		slog.DebugContext(ctx, "deep calendar search did not resolve",
			logging.ErrKey, err, "event_id", state.input.EventID)
		return nil, false
	}

	for _, event := range events {
		if event == nil || event.EventID != state.input.EventID {
			continue
		}
		if event.JoinURL != "" && state.joinURL == "" {
			state.joinURL = event.JoinURL
		}
		if event.HasOnlineMeeting() {
			return &models.OnlineMeetingRef{
				ID:      event.OnlineMeetingID,
				Subject: event.Subject,
				JoinURL: event.JoinURL,
			}, true
		}
	}

	return nil, false
}

// fromJoinURLSearch probes candidate mailboxes for an online meeting matching
// the known join URL. Candidates are probed through the worker pool, but the
// winner is always the first successful candidate in original priority order,
// never the first to complete.
func (s *MeetingIdentityService) fromJoinURLSearch(ctx context.Context, state *resolveState) (*models.OnlineMeetingRef, bool) {
	if state.joinURL == "" {
		return nil, false
	}

	candidates := utils.CandidateMailboxes(
		state.auth.TargetMailbox,
		state.input.MailboxHint,
		state.input.OrganizerHint,
		state.input.CoordinatorMailbox,
	)
	if len(candidates) == 0 {
		return nil, false
	}

	results := make([]*models.OnlineMeetingRef, len(candidates))
	jobs := make([]func() error, len(candidates))
	for i, candidate := range candidates {
		i, candidate := i, candidate
		jobs[i] = func() error {
			results[i] = s.probeCandidate(ctx, state.auth.Client, candidate, state.joinURL)
			return nil
		}
	}
	s.pool.RunAll(ctx, jobs...)

	for i, ref := range results {
		if ref != nil {
			slog.DebugContext(ctx, "join URL search matched candidate mailbox",
				"candidate", candidates[i], "meeting_id", ref.ID)
			return ref, true
		}
	}

	return nil, false
}

// probeCandidate tries the direct join-URL filter first, then falls back to
// scanning the candidate's recent online meetings by normalized URL equality.
func (s *MeetingIdentityService) probeCandidate(ctx context.Context, client domain.CalendarClient, mailbox, joinURL string) *models.OnlineMeetingRef {
	ref, err := client.FindOnlineMeetingByJoinURL(ctx, mailbox, joinURL)
	if err == nil && ref != nil && ref.ID != "" {
		return ref
	}
	if err != nil && domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		slog.DebugContext(ctx, "direct join URL filter failed",
			logging.ErrKey, err, "mailbox", mailbox)
	}

	meetings, err := client.ListRecentOnlineMeetings(ctx, mailbox, constants.OnlineMeetingScanMaxEntries)
	if err != nil {
		slog.DebugContext(ctx, "online meeting scan failed",
			logging.ErrKey, err, "mailbox", mailbox)
		return nil
	}

	for _, meeting := range meetings {
		if meeting != nil && utils.JoinURLsEqual(meeting.JoinURL, joinURL) {
			return meeting
		}
	}

	return nil
}
