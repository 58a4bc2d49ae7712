// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tellus-ops/attendance-service/internal/domain"
	"github.com/tellus-ops/attendance-service/internal/logging"
	"github.com/tellus-ops/attendance-service/internal/service"
	"github.com/tellus-ops/attendance-service/pkg/constants"
)

// AttendanceHandler serves the attendance lookup endpoint and the service
// health probes.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
	}
}

// HandlerReady checks if the handler's services are ready.
func (h *AttendanceHandler) HandlerReady() bool {
	return h.attendanceService != nil && h.attendanceService.ServiceReady()
}

// attendanceResponse is the 200 payload shape.
type attendanceResponse struct {
	AttendanceRecords any    `json:"attendanceRecords"`
	MeetingID         string `json:"meetingId"`
	Subject           string `json:"subject,omitempty"`
	Count             int    `json:"count"`
}

// errorResponse is the payload shape for every non-200 response.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// GetAttendance handles GET /attendance.
func (h *AttendanceHandler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	req := service.AttendanceRequest{
		EventID:         query.Get("meetingId"),
		OnlineMeetingID: query.Get("onlineMeetingId"),
		JoinURL:         query.Get("joinUrl"),
		OrganizerEmail:  query.Get("organizerEmail"),
		MailboxEmail:    query.Get("mailboxEmail"),
		UserID:          query.Get("userId"),
		TenantID:        query.Get("tenantId"),
		SessionToken:    bearerToken(r),
	}

	result, err := h.attendanceService.GetAttendance(ctx, req)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, attendanceResponse{
		AttendanceRecords: result.Roster.Records,
		MeetingID:         result.MeetingID,
		Subject:           result.Subject,
		Count:             result.Roster.Count,
	})
}

// Livez handles GET /livez.
func (h *AttendanceHandler) Livez(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Readyz handles GET /readyz.
func (h *AttendanceHandler) Readyz(w http.ResponseWriter, _ *http.Request) {
	if !h.HandlerReady() {
		http.Error(w, "service not ready", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// writeError maps a domain error onto the wire contract.
func (h *AttendanceHandler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var domainErr *domain.DomainError
	message := err.Error()
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: message})
	case domain.ErrorTypeUnauthorized:
		writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: message})
	case domain.ErrorTypeNotFound:
		writeJSON(ctx, w, http.StatusNotFound, errorResponse{
			Error:   "Meeting Tracker Not Found",
			Message: message,
		})
	case domain.ErrorTypeUnavailable:
		writeJSON(ctx, w, http.StatusServiceUnavailable, errorResponse{Error: message})
	case domain.ErrorTypeUpstream:
		upstreamStatus := domain.GetUpstreamStatus(err)
		status := upstreamStatus
		if status < http.StatusInternalServerError {
			status = http.StatusInternalServerError
		}
		response := errorResponse{Error: message}
		if upstreamStatus > 0 {
			response.Details = upstreamStatus
		}
		writeJSON(ctx, w, status, response)
	default:
		writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: message})
	}
}

// bearerToken extracts the bearer token from the Authorization header, if any.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get(constants.AuthorizationHeader)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.ErrorContext(ctx, "error encoding response", logging.ErrKey, err)
	}
}
