// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallWebhookEvent(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		check   func(t *testing.T, event *CallWebhookEvent)
		wantErr bool
	}{
		{
			name: "session started",
			body: `{"type":"call.session_started","session_id":"s1","call":{"cid":"default:m1","custom":{"meetingId":"m1"}}}`,
			check: func(t *testing.T, event *CallWebhookEvent) {
				require.NotNil(t, event.SessionStarted)
				assert.Equal(t, "m1", event.SessionStarted.Call.Custom.MeetingID)
				assert.Equal(t, "default:m1", event.SessionStarted.Call.CID)
				assert.False(t, event.Unknown)
			},
		},
		{
			name: "participant left",
			body: `{"type":"call.session_participant_left","call_cid":"default:m1","session_id":"s1"}`,
			check: func(t *testing.T, event *CallWebhookEvent) {
				require.NotNil(t, event.ParticipantLeft)
				assert.Equal(t, "default:m1", event.ParticipantLeft.CallCID)
			},
		},
		{
			name: "session ended",
			body: `{"type":"call.session_ended","call_cid":"default:m1"}`,
			check: func(t *testing.T, event *CallWebhookEvent) {
				require.NotNil(t, event.SessionEnded)
				assert.Equal(t, "default:m1", event.SessionEnded.CallCID)
			},
		},
		{
			name: "transcription ready",
			body: `{"type":"call.transcription_ready","call_cid":"default:m1","call_transcription":{"url":"https://x/t.jsonl"}}`,
			check: func(t *testing.T, event *CallWebhookEvent) {
				require.NotNil(t, event.TranscriptionReady)
				assert.Equal(t, "https://x/t.jsonl", event.TranscriptionReady.CallTranscription.URL)
			},
		},
		{
			name: "recording ready",
			body: `{"type":"call.recording_ready","call_cid":"default:m1","call_recording":{"url":"https://x/r.mp4"}}`,
			check: func(t *testing.T, event *CallWebhookEvent) {
				require.NotNil(t, event.RecordingReady)
				assert.Equal(t, "https://x/r.mp4", event.RecordingReady.CallRecording.URL)
			},
		},
		{
			name: "unknown event kind",
			body: `{"type":"call.reaction_new","call_cid":"default:m1"}`,
			check: func(t *testing.T, event *CallWebhookEvent) {
				assert.True(t, event.Unknown)
				assert.Equal(t, "call.reaction_new", event.Type)
				assert.Nil(t, event.SessionStarted)
			},
		},
		{
			name:    "missing type field",
			body:    `{"call_cid":"default:m1"}`,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			body:    `{"type":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ParseCallWebhookEvent([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, event)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, event)
			tt.check(t, event)
		})
	}
}

func TestMeetingUIDFromCID(t *testing.T) {
	assert.Equal(t, "m1", MeetingUIDFromCID("default:m1"))
	assert.Equal(t, "abc:def", MeetingUIDFromCID("default:abc:def"))
	assert.Equal(t, "", MeetingUIDFromCID("no-separator"))
	assert.Equal(t, "", MeetingUIDFromCID(""))
}
