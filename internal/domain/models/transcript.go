// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package models

// TranscriptItem is one utterance from the call platform's transcript file.
// The file is newline-delimited JSON, one item per line, ordered by time.
// SpeakerName is resolved in-process during pipeline execution and is not
// part of the wire format.
type TranscriptItem struct {
	SpeakerID   string  `json:"speaker_id" msgpack:"speaker_id"`
	Type        string  `json:"type,omitempty" msgpack:"type"`
	Text        string  `json:"text" msgpack:"text"`
	StartTS     float64 `json:"start_ts" msgpack:"start_ts"`
	StopTS      float64 `json:"stop_ts" msgpack:"stop_ts"`
	SpeakerName string  `json:"-" msgpack:"speaker_name"`
}

// Speaker is a resolved identity for a transcript speaker: either a human
// user or an agent, unified for lookup.
type Speaker struct {
	ID   string
	Name string
}

// UnknownSpeakerName is the fallback display name used when a transcript
// speaker id matches neither a user nor an agent.
const UnknownSpeakerName = "Unknown"
