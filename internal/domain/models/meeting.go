// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// MeetingStatus is the lifecycle status of a meeting.
//
// Statuses move along a single forward path:
//
//	upcoming -> active -> processing -> completed
//
// with cancelled reachable as an alternate terminal state from any status
// prior to completed. The guard predicates below are the contract for every
// webhook-driven transition; webhook delivery is at-least-once and may be
// duplicated or reordered, so each transition must be safely rejectable.
type MeetingStatus string

const (
	// MeetingStatusUpcoming is a scheduled meeting that has not started.
	MeetingStatusUpcoming MeetingStatus = "upcoming"
	// MeetingStatusActive is a meeting with a live call session.
	MeetingStatusActive MeetingStatus = "active"
	// MeetingStatusProcessing is an ended meeting awaiting transcript processing.
	MeetingStatusProcessing MeetingStatus = "processing"
	// MeetingStatusCompleted is a meeting whose summary has been persisted.
	MeetingStatusCompleted MeetingStatus = "completed"
	// MeetingStatusCancelled is a meeting cancelled before completion.
	MeetingStatusCancelled MeetingStatus = "cancelled"
)

// IsValid checks whether the status is one of the enumerated values.
func (s MeetingStatus) IsValid() bool {
	switch s {
	case MeetingStatusUpcoming, MeetingStatusActive, MeetingStatusProcessing,
		MeetingStatusCompleted, MeetingStatusCancelled:
		return true
	}
	return false
}

// Meeting is the key-value store representation of a meeting.
type Meeting struct {
	UID           string        `json:"uid"`
	AgentUID      string        `json:"agent_uid"`
	UserUID       string        `json:"user_uid,omitempty"`
	Title         string        `json:"title,omitempty"`
	Status        MeetingStatus `json:"status"`
	TranscriptURL string        `json:"transcript_url,omitempty"`
	RecordingURL  string        `json:"recording_url,omitempty"`
	Summary       string        `json:"summary,omitempty"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	EndedAt       *time.Time    `json:"ended_at,omitempty"`
	CreatedAt     *time.Time    `json:"created_at,omitempty"`
	UpdatedAt     *time.Time    `json:"updated_at,omitempty"`
}

// CanStart reports whether a session-started event may transition the meeting
// to active. A meeting already completed, active, cancelled or processing must
// not be re-started; this doubles as protection against duplicate start events.
func (m *Meeting) CanStart() bool {
	switch m.Status {
	case MeetingStatusCompleted, MeetingStatusActive, MeetingStatusCancelled, MeetingStatusProcessing:
		return false
	}
	return true
}

// CanEnd reports whether a session-ended event may transition the meeting to
// processing. Only an active meeting can end.
func (m *Meeting) CanEnd() bool {
	return m.Status == MeetingStatusActive
}

// IsTerminal reports whether the meeting has reached a terminal status.
func (m *Meeting) IsTerminal() bool {
	return m.Status == MeetingStatusCompleted || m.Status == MeetingStatusCancelled
}
