// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Call platform webhook event kinds. Unrecognized kinds decode to an explicit
// unknown variant and are accepted without mutation; new event kinds from the
// platform must not break the endpoint.
const (
	CallEventSessionStarted     = "call.session_started"
	CallEventParticipantLeft    = "call.session_participant_left"
	CallEventSessionEnded       = "call.session_ended"
	CallEventTranscriptionReady = "call.transcription_ready"
	CallEventRecordingReady     = "call.recording_ready"
)

// CallInfo is the call object embedded in session events. The meeting UID is
// carried in the call's custom data, set when the call is created.
type CallInfo struct {
	CID    string     `json:"cid"`
	Custom CallCustom `json:"custom"`
}

// CallCustom is the custom payload attached to a call at creation time.
type CallCustom struct {
	MeetingID string `json:"meetingId"`
}

// SessionStartedEvent is the payload for call.session_started events.
type SessionStartedEvent struct {
	Call      CallInfo  `json:"call"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ParticipantLeftEvent is the payload for call.session_participant_left events.
type ParticipantLeftEvent struct {
	CallCID   string    `json:"call_cid"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionEndedEvent is the payload for call.session_ended events.
type SessionEndedEvent struct {
	CallCID   string    `json:"call_cid"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CallTranscription describes a finished transcription file.
type CallTranscription struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

// TranscriptionReadyEvent is the payload for call.transcription_ready events.
type TranscriptionReadyEvent struct {
	CallCID           string            `json:"call_cid"`
	CallTranscription CallTranscription `json:"call_transcription"`
	CreatedAt         time.Time         `json:"created_at"`
}

// CallRecording describes a finished call recording.
type CallRecording struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

// RecordingReadyEvent is the payload for call.recording_ready events.
type RecordingReadyEvent struct {
	CallCID       string        `json:"call_cid"`
	CallRecording CallRecording `json:"call_recording"`
	CreatedAt     time.Time     `json:"created_at"`
}

// CallWebhookEvent is the closed tagged-variant decoding of a call platform
// webhook payload. Exactly one variant pointer is set for recognized event
// kinds; Unknown is true for everything else.
type CallWebhookEvent struct {
	Type string

	SessionStarted     *SessionStartedEvent
	ParticipantLeft    *ParticipantLeftEvent
	SessionEnded       *SessionEndedEvent
	TranscriptionReady *TranscriptionReadyEvent
	RecordingReady     *RecordingReadyEvent

	Unknown bool
}

// ParseCallWebhookEvent decodes the raw webhook body into a tagged variant.
// A missing type field or undecodable JSON is an error; an unrecognized type
// is not.
func ParseCallWebhookEvent(data []byte) (*CallWebhookEvent, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}
	if envelope.Type == "" {
		return nil, fmt.Errorf("webhook payload missing type field")
	}

	event := &CallWebhookEvent{Type: envelope.Type}

	switch envelope.Type {
	case CallEventSessionStarted:
		var payload SessionStartedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", envelope.Type, err)
		}
		event.SessionStarted = &payload
	case CallEventParticipantLeft:
		var payload ParticipantLeftEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", envelope.Type, err)
		}
		event.ParticipantLeft = &payload
	case CallEventSessionEnded:
		var payload SessionEndedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", envelope.Type, err)
		}
		event.SessionEnded = &payload
	case CallEventTranscriptionReady:
		var payload TranscriptionReadyEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", envelope.Type, err)
		}
		event.TranscriptionReady = &payload
	case CallEventRecordingReady:
		var payload RecordingReadyEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", envelope.Type, err)
		}
		event.RecordingReady = &payload
	default:
		event.Unknown = true
	}

	return event, nil
}

// MeetingUIDFromCID extracts the meeting UID from a call CID of the form
// "<call type>:<meeting uid>". Returns an empty string when the CID does not
// carry one.
func MeetingUIDFromCID(cid string) string {
	_, uid, found := strings.Cut(cid, ":")
	if !found {
		return ""
	}
	return uid
}

// SplitCID splits a call CID into its call type and call ID parts.
func SplitCID(cid string) (callType, callID string, ok bool) {
	callType, callID, ok = strings.Cut(cid, ":")
	if callType == "" || callID == "" {
		return "", "", false
	}
	return callType, callID, ok
}
