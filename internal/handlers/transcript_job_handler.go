// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

// Package handlers consumes NATS messages and routes them to the services.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
	"github.com/meetwise/meetwise-meeting-service/internal/logging"
	"github.com/meetwise/meetwise-meeting-service/pkg/concurrent"
)

// TranscriptProcessor runs the transcript pipeline for one job.
type TranscriptProcessor interface {
	Run(ctx context.Context, data models.TranscriptJobData) error
	ServiceReady() bool
}

// TranscriptJobHandler consumes transcript processing jobs from the work
// stream. Jobs for the same meeting are serialized through a keyed runner so
// a redelivery never races a still-running pipeline; unrelated meetings run
// concurrently.
type TranscriptJobHandler struct {
	pipeline TranscriptProcessor
	runner   *concurrent.KeyedRunner
}

// NewTranscriptJobHandler creates a new transcript job handler.
func NewTranscriptJobHandler(pipeline TranscriptProcessor) *TranscriptJobHandler {
	return &TranscriptJobHandler{
		pipeline: pipeline,
		runner:   concurrent.NewKeyedRunner(),
	}
}

// HandlerReady checks if the handler is ready to process messages.
func (h *TranscriptJobHandler) HandlerReady() bool {
	return h.pipeline != nil && h.pipeline.ServiceReady()
}

// HandleMessage processes one job delivery. The message is acked when the
// pipeline finishes or the payload is unusable, and nak'd on processing
// failure so the stream's delivery policy drives the retry.
func (h *TranscriptJobHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	ctx = logging.AppendCtx(ctx, slog.String("subject", msg.Subject()))

	if !h.HandlerReady() {
		slog.ErrorContext(ctx, "transcript job handler is not ready")
		h.nak(ctx, msg)
		return
	}

	data, err := parseTranscriptJob(msg.Data())
	if err != nil {
		// A malformed job will never become valid; drop it instead of
		// redelivering forever.
		slog.ErrorContext(ctx, "dropping malformed transcript job", logging.ErrKey, err)
		h.ack(ctx, msg)
		return
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", data.MeetingID))

	err = h.runner.Do(data.MeetingID, func() error {
		return h.pipeline.Run(ctx, data)
	})
	if err != nil {
		slog.ErrorContext(ctx, "transcript job failed", logging.ErrKey, err)
		h.nak(ctx, msg)
		return
	}

	h.ack(ctx, msg)
}

func (h *TranscriptJobHandler) ack(ctx context.Context, msg domain.Message) {
	if err := msg.Ack(); err != nil {
		slog.WarnContext(ctx, "failed to ack message", logging.ErrKey, err)
	}
}

func (h *TranscriptJobHandler) nak(ctx context.Context, msg domain.Message) {
	if err := msg.Nak(); err != nil {
		slog.WarnContext(ctx, "failed to nak message", logging.ErrKey, err)
	}
}

func parseTranscriptJob(payload []byte) (models.TranscriptJobData, error) {
	var message models.TranscriptJobMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		return models.TranscriptJobData{}, fmt.Errorf("invalid transcript job payload: %w", err)
	}
	if message.Name != models.TranscriptJobName {
		return models.TranscriptJobData{}, fmt.Errorf("unexpected job name '%s'", message.Name)
	}
	if message.Data.MeetingID == "" || message.Data.TranscriptURL == "" {
		return models.TranscriptJobData{}, fmt.Errorf("transcript job is missing the meeting id or transcript URL")
	}
	return message.Data, nil
}
