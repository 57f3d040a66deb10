// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package models

// NATS subjects used by the meeting service.
const (
	// TranscriptProcessingSubject is the subject for transcript processing
	// job trigger messages, consumed by the durable job consumer.
	TranscriptProcessingSubject = "meetwise.meetings.processing"
)

// TranscriptJobName is the job name carried in the trigger message.
const TranscriptJobName = "meetings/processing"

// TranscriptJobMessage is the job trigger message published when a meeting's
// transcript becomes available.
type TranscriptJobMessage struct {
	Name string            `json:"name"`
	Data TranscriptJobData `json:"data"`
}

// TranscriptJobData is the payload of a transcript processing job.
type TranscriptJobData struct {
	MeetingID     string `json:"meetingId"`
	TranscriptURL string `json:"transcriptUrl"`
}

// NewTranscriptJobMessage builds a job trigger message for the given meeting
// and transcript URL.
func NewTranscriptJobMessage(data TranscriptJobData) TranscriptJobMessage {
	return TranscriptJobMessage{
		Name: TranscriptJobName,
		Data: data,
	}
}
