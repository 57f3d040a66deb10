// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
)

// WebhookValidator validates inbound call-platform webhook authenticity.
// The signature is computed over the exact raw request body; callers must not
// re-serialize the payload before validation.
type WebhookValidator interface {
	ValidateSignature(body []byte, signature, apiKey string) error
}

// CallTransport is the call-platform control surface used by lifecycle
// handlers. The transport itself (media, sessions) is the platform's concern.
type CallTransport interface {
	// EndCall instructs the platform to end the call session identified by
	// the given call CID.
	EndCall(ctx context.Context, callCID string) error
}

// TranscriptSource fetches transcript file content from a URL.
type TranscriptSource interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// TranscriptParser decodes a raw transcript file into ordered items.
type TranscriptParser interface {
	Parse(data []byte) ([]models.TranscriptItem, error)
}

// Summarizer generates a meeting summary from serialized transcript text via
// a hosted text-completion service.
type Summarizer interface {
	SummarizeTranscript(ctx context.Context, transcript string) (string, error)
}

// SpeechResponder generates a short conversational reply to a finalized
// voice-assistant utterance.
type SpeechResponder interface {
	RespondToSpeech(ctx context.Context, text string) (string, error)
}
