// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

// Package messaging provides NATS implementations of the messaging interfaces.
package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
	"github.com/meetwise/meetwise-meeting-service/internal/logging"
)

// INatsConn is the NATS connection interface needed by the message builder.
// It matches nats.Conn and allows for mocking in tests.
type INatsConn interface {
	Publish(subj string, data []byte) error
	IsConnected() bool
}

// MessageBuilder publishes service messages to NATS.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new message builder on the given connection.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{NatsConn: natsConn}
}

// SendTranscriptProcessing enqueues a transcript processing job for a meeting.
// The subject is bound to a JetStream work stream, so a successful publish
// hands the job to the durable consumer for at-least-once delivery.
func (m *MessageBuilder) SendTranscriptProcessing(ctx context.Context, data models.TranscriptJobData) error {
	if m.NatsConn == nil || !m.NatsConn.IsConnected() {
		return domain.NewUnavailableError("NATS connection is not available")
	}

	message := models.NewTranscriptJobMessage(data)
	payload, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling transcript job message",
			logging.ErrKey, err, "meeting_uid", data.MeetingID)
		return domain.NewInternalError("failed to marshal transcript job message", err)
	}

	if err := m.NatsConn.Publish(models.TranscriptProcessingSubject, payload); err != nil {
		slog.ErrorContext(ctx, "error publishing transcript job message",
			logging.ErrKey, err,
			"subject", models.TranscriptProcessingSubject,
			"meeting_uid", data.MeetingID,
		)
		return domain.NewInternalError("failed to publish transcript job message", err)
	}

	slog.DebugContext(ctx, "published transcript job message",
		"subject", models.TranscriptProcessingSubject,
		"meeting_uid", data.MeetingID,
	)
	return nil
}

// JetStreamMsg wraps a jetstream.Msg to implement the domain message
// interface consumed by the handlers.
type JetStreamMsg struct {
	msg jetstream.Msg
}

// NewJetStreamMsg wraps a JetStream message.
func NewJetStreamMsg(msg jetstream.Msg) *JetStreamMsg {
	return &JetStreamMsg{msg: msg}
}

func (j *JetStreamMsg) Subject() string {
	return j.msg.Subject()
}

func (j *JetStreamMsg) Data() []byte {
	return j.msg.Data()
}

func (j *JetStreamMsg) Ack() error {
	return j.msg.Ack()
}

func (j *JetStreamMsg) Nak() error {
	return j.msg.Nak()
}
