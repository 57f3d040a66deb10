// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
)

// VoiceAssistantService answers finalized voice-assistant utterances with a
// short conversational reply. This path has no persisted state and no retry
// logic; failures surface directly to the caller.
type VoiceAssistantService struct {
	responder domain.SpeechResponder
}

// NewVoiceAssistantService creates a new voice assistant service.
func NewVoiceAssistantService(responder domain.SpeechResponder) *VoiceAssistantService {
	return &VoiceAssistantService{responder: responder}
}

// ServiceReady checks if the service dependencies are wired.
func (s *VoiceAssistantService) ServiceReady() bool {
	return s.responder != nil
}

// ProcessSpeech generates a reply to the given utterance.
func (s *VoiceAssistantService) ProcessSpeech(ctx context.Context, text string) (string, error) {
	if !s.ServiceReady() {
		return "", domain.NewUnavailableError("voice assistant service is not ready")
	}

	if strings.TrimSpace(text) == "" {
		return "", domain.NewValidationError("text is required")
	}

	reply, err := s.responder.RespondToSpeech(ctx, text)
	if err != nil {
		return "", err
	}

	slog.DebugContext(ctx, "generated voice assistant reply", "reply_length", len(reply))
	return reply, nil
}
