// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranscriptJobCheckpoint_StepDone(t *testing.T) {
	tests := []struct {
		name          string
		completedStep TranscriptJobStep
		step          TranscriptJobStep
		done          bool
	}{
		{"nothing completed", "", TranscriptJobStepFetch, false},
		{"fetch done, fetch queried", TranscriptJobStepFetch, TranscriptJobStepFetch, true},
		{"fetch done, parse queried", TranscriptJobStepFetch, TranscriptJobStepParse, false},
		{"resolve done, parse queried", TranscriptJobStepResolve, TranscriptJobStepParse, true},
		{"resolve done, summarize queried", TranscriptJobStepResolve, TranscriptJobStepSummarize, false},
		{"persist done, persist queried", TranscriptJobStepPersist, TranscriptJobStepPersist, true},
		{"persist done, fetch queried", TranscriptJobStepPersist, TranscriptJobStepFetch, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &TranscriptJobCheckpoint{MeetingUID: "m1", CompletedStep: tt.completedStep}
			assert.Equal(t, tt.done, c.StepDone(tt.step))
		})
	}
}

func TestTranscriptJobCheckpoint_StepDone_Nil(t *testing.T) {
	var c *TranscriptJobCheckpoint
	assert.False(t, c.StepDone(TranscriptJobStepFetch))
}

func TestTranscriptJobSteps_Order(t *testing.T) {
	steps := TranscriptJobSteps()
	assert.Equal(t, []TranscriptJobStep{
		TranscriptJobStepFetch,
		TranscriptJobStepParse,
		TranscriptJobStepResolve,
		TranscriptJobStepSummarize,
		TranscriptJobStepPersist,
	}, steps)

	// Mutating the returned slice must not affect the canonical order.
	steps[0] = TranscriptJobStepPersist
	assert.Equal(t, TranscriptJobStepFetch, TranscriptJobSteps()[0])
}
