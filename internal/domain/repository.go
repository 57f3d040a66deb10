// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
)

// MeetingRepository defines the interface for meeting storage operations.
// This interface can be implemented by different storage backends (NATS KV,
// PostgreSQL, etc.)
type MeetingRepository interface {
	Create(ctx context.Context, meeting *models.Meeting) error
	Exists(ctx context.Context, meetingUID string) (bool, error)

	Get(ctx context.Context, meetingUID string) (*models.Meeting, error)
	GetWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error)

	// Update performs an optimistic-concurrency update at the given revision.
	// A concurrent modification yields a conflict error; callers use that as
	// the "no row updated" signal for guarded transitions.
	Update(ctx context.Context, meeting *models.Meeting, revision uint64) error

	ListAll(ctx context.Context) ([]*models.Meeting, error)
}

// AgentRepository defines the interface for agent storage operations.
// Agents are read-only from the webhook and pipeline flows.
type AgentRepository interface {
	Get(ctx context.Context, agentUID string) (*models.Agent, error)
	Exists(ctx context.Context, agentUID string) (bool, error)

	// ListByUIDs fetches the agents matching the given UIDs in a single pass.
	// Missing UIDs are skipped, not errors.
	ListByUIDs(ctx context.Context, uids []string) ([]*models.Agent, error)
}

// UserRepository defines the interface for user storage operations.
type UserRepository interface {
	Get(ctx context.Context, userUID string) (*models.User, error)

	// ListByUIDs fetches the users matching the given UIDs in a single pass.
	// Missing UIDs are skipped, not errors.
	ListByUIDs(ctx context.Context, uids []string) ([]*models.User, error)
}

// TranscriptJobRepository stores pipeline checkpoints keyed by meeting UID.
type TranscriptJobRepository interface {
	Get(ctx context.Context, meetingUID string) (*models.TranscriptJobCheckpoint, error)
	Save(ctx context.Context, checkpoint *models.TranscriptJobCheckpoint) error
	Delete(ctx context.Context, meetingUID string) error
}
