// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"log/slog"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
	"github.com/meetwise/meetwise-meeting-service/internal/logging"
)

// NatsTranscriptJobRepository stores pipeline checkpoints in NATS KV keyed by
// meeting UID. Checkpoints carry the raw transcript body so they are encoded
// with msgpack instead of JSON to keep entries compact.
type NatsTranscriptJobRepository struct {
	*NatsBaseRepository[models.TranscriptJobCheckpoint]
}

// NewNatsTranscriptJobRepository creates a new NATS transcript job repository
func NewNatsTranscriptJobRepository(kvStore INatsKeyValue) *NatsTranscriptJobRepository {
	return &NatsTranscriptJobRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.TranscriptJobCheckpoint](kvStore, "transcript job"),
	}
}

func (r *NatsTranscriptJobRepository) Get(ctx context.Context, meetingUID string) (*models.TranscriptJobCheckpoint, error) {
	entry, err := r.GetRaw(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	var checkpoint models.TranscriptJobCheckpoint
	if err := msgpack.Unmarshal(entry.Value(), &checkpoint); err != nil {
		slog.ErrorContext(ctx, "error unmarshaling transcript job checkpoint",
			logging.ErrKey, err, "meeting_uid", meetingUID)
		return nil, domain.NewInternalError("failed to unmarshal transcript job checkpoint", err)
	}

	return &checkpoint, nil
}

func (r *NatsTranscriptJobRepository) Save(ctx context.Context, checkpoint *models.TranscriptJobCheckpoint) error {
	if !r.IsReady() {
		return domain.NewUnavailableError("transcript job repository is not available")
	}

	data, err := msgpack.Marshal(checkpoint)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling transcript job checkpoint",
			logging.ErrKey, err, "meeting_uid", checkpoint.MeetingUID)
		return domain.NewInternalError("failed to marshal transcript job checkpoint", err)
	}

	if _, err := r.kvStore.Put(ctx, checkpoint.MeetingUID, data); err != nil {
		slog.ErrorContext(ctx, "error saving transcript job checkpoint",
			logging.ErrKey, err, "meeting_uid", checkpoint.MeetingUID)
		return domain.NewInternalError("failed to save transcript job checkpoint", err)
	}

	return nil
}

func (r *NatsTranscriptJobRepository) Delete(ctx context.Context, meetingUID string) error {
	return r.NatsBaseRepository.Delete(ctx, meetingUID)
}
