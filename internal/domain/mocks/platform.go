// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
)

// MockWebhookValidator implements WebhookValidator for testing
type MockWebhookValidator struct {
	mock.Mock
}

func (m *MockWebhookValidator) ValidateSignature(body []byte, signature, apiKey string) error {
	args := m.Called(body, signature, apiKey)
	return args.Error(0)
}

// MockCallTransport implements CallTransport for testing
type MockCallTransport struct {
	mock.Mock
}

func (m *MockCallTransport) EndCall(ctx context.Context, callCID string) error {
	args := m.Called(ctx, callCID)
	return args.Error(0)
}

// MockTranscriptSource implements TranscriptSource for testing
type MockTranscriptSource struct {
	mock.Mock
}

func (m *MockTranscriptSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockTranscriptParser implements TranscriptParser for testing
type MockTranscriptParser struct {
	mock.Mock
}

func (m *MockTranscriptParser) Parse(data []byte) ([]models.TranscriptItem, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TranscriptItem), args.Error(1)
}

// MockSummarizer implements Summarizer for testing
type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) SummarizeTranscript(ctx context.Context, transcript string) (string, error) {
	args := m.Called(ctx, transcript)
	return args.String(0), args.Error(1)
}

// MockSpeechResponder implements SpeechResponder for testing
type MockSpeechResponder struct {
	mock.Mock
}

func (m *MockSpeechResponder) RespondToSpeech(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}
