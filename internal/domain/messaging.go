// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
)

// Message represents a domain message interface. Jobs are delivered through a
// durable work stream; Ack removes the message, Nak hands it back to the
// runner for redelivery under its retry policy.
type Message interface {
	Subject() string
	Data() []byte
	Ack() error
	Nak() error
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// TranscriptJobSender enqueues transcript processing jobs on the job runner.
type TranscriptJobSender interface {
	SendTranscriptProcessing(ctx context.Context, data models.TranscriptJobData) error
}
