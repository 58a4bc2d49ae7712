// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/tellus-ops/attendance-service/internal/domain/models"
	"github.com/tellus-ops/attendance-service/internal/logging"
)

// INatsConn is a NATS connection interface needed for the message builder.
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder is the builder for the message and sends it to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// IsReady reports whether the NATS connection can accept publishes.
func (m *MessageBuilder) IsReady() bool {
	return m.NatsConn != nil && m.NatsConn.IsConnected()
}

// sendMessage sends the message to the NATS server.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// SendAttendanceSnapshot publishes a roster summary for the dashboard indexer.
func (m *MessageBuilder) SendAttendanceSnapshot(ctx context.Context, msg *models.AttendanceSnapshotMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling snapshot message into JSON",
			logging.ErrKey, err, "subject", models.AttendanceSnapshotSubject)
		return err
	}

	slog.DebugContext(ctx, "constructed attendance snapshot message",
		"subject", models.AttendanceSnapshotSubject,
		"meeting_id", msg.MeetingID,
		"participant_count", msg.ParticipantCount,
	)

	return m.sendMessage(ctx, models.AttendanceSnapshotSubject, data)
}
