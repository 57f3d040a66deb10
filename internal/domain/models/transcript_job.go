// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// TranscriptJobStep identifies one step of the transcript processing pipeline.
// Steps run strictly in order; each step's result is checkpointed before the
// next begins so that a redelivered job resumes instead of repeating work.
type TranscriptJobStep string

const (
	TranscriptJobStepFetch     TranscriptJobStep = "fetch"
	TranscriptJobStepParse     TranscriptJobStep = "parse"
	TranscriptJobStepResolve   TranscriptJobStep = "resolve"
	TranscriptJobStepSummarize TranscriptJobStep = "summarize"
	TranscriptJobStepPersist   TranscriptJobStep = "persist"
)

// transcriptJobStepOrder is the fixed execution order of the pipeline.
var transcriptJobStepOrder = []TranscriptJobStep{
	TranscriptJobStepFetch,
	TranscriptJobStepParse,
	TranscriptJobStepResolve,
	TranscriptJobStepSummarize,
	TranscriptJobStepPersist,
}

// TranscriptJobSteps returns the pipeline steps in execution order.
func TranscriptJobSteps() []TranscriptJobStep {
	steps := make([]TranscriptJobStep, len(transcriptJobStepOrder))
	copy(steps, transcriptJobStepOrder)
	return steps
}

// TranscriptJobCheckpoint is the durable state of one pipeline execution,
// keyed by meeting UID. It is written to the job checkpoint bucket after every
// completed step so a process restart or redelivery resumes from the last
// completed step.
type TranscriptJobCheckpoint struct {
	MeetingUID    string            `msgpack:"meeting_uid"`
	TranscriptURL string            `msgpack:"transcript_url"`
	CompletedStep TranscriptJobStep `msgpack:"completed_step,omitempty"`
	RawTranscript []byte            `msgpack:"raw_transcript,omitempty"`
	Items         []TranscriptItem  `msgpack:"items,omitempty"`
	Summary       string            `msgpack:"summary,omitempty"`
	UpdatedAt     time.Time         `msgpack:"updated_at"`
}

// StepDone reports whether the given step has already completed in this
// checkpoint.
func (c *TranscriptJobCheckpoint) StepDone(step TranscriptJobStep) bool {
	if c == nil || c.CompletedStep == "" {
		return false
	}
	for _, s := range transcriptJobStepOrder {
		if s == step {
			return true
		}
		if s == c.CompletedStep {
			return false
		}
	}
	return false
}
