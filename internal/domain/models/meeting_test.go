// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeetingStatus_IsValid(t *testing.T) {
	valid := []MeetingStatus{
		MeetingStatusUpcoming,
		MeetingStatusActive,
		MeetingStatusProcessing,
		MeetingStatusCompleted,
		MeetingStatusCancelled,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "expected %q to be valid", s)
	}

	assert.False(t, MeetingStatus("archived").IsValid())
	assert.False(t, MeetingStatus("").IsValid())
}

func TestMeeting_CanStart(t *testing.T) {
	tests := []struct {
		status   MeetingStatus
		canStart bool
	}{
		{MeetingStatusUpcoming, true},
		{MeetingStatusActive, false},
		{MeetingStatusProcessing, false},
		{MeetingStatusCompleted, false},
		{MeetingStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			m := &Meeting{UID: "m1", Status: tt.status}
			assert.Equal(t, tt.canStart, m.CanStart())
		})
	}
}

func TestMeeting_CanEnd(t *testing.T) {
	tests := []struct {
		status MeetingStatus
		canEnd bool
	}{
		{MeetingStatusUpcoming, false},
		{MeetingStatusActive, true},
		{MeetingStatusProcessing, false},
		{MeetingStatusCompleted, false},
		{MeetingStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			m := &Meeting{UID: "m1", Status: tt.status}
			assert.Equal(t, tt.canEnd, m.CanEnd())
		})
	}
}

func TestMeeting_IsTerminal(t *testing.T) {
	assert.True(t, (&Meeting{Status: MeetingStatusCompleted}).IsTerminal())
	assert.True(t, (&Meeting{Status: MeetingStatusCancelled}).IsTerminal())
	assert.False(t, (&Meeting{Status: MeetingStatusActive}).IsTerminal())
	assert.False(t, (&Meeting{Status: MeetingStatusProcessing}).IsTerminal())
	assert.False(t, (&Meeting{Status: MeetingStatusUpcoming}).IsTerminal())
}
