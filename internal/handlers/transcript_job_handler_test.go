// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
	"github.com/meetwise/meetwise-meeting-service/internal/domain/mocks"
	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
)

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Run(ctx context.Context, data models.TranscriptJobData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *mockProcessor) ServiceReady() bool {
	args := m.Called()
	return args.Bool(0)
}

func jobPayload(t *testing.T, meetingID, transcriptURL string) []byte {
	t.Helper()
	payload, err := json.Marshal(models.NewTranscriptJobMessage(models.TranscriptJobData{
		MeetingID:     meetingID,
		TranscriptURL: transcriptURL,
	}))
	require.NoError(t, err)
	return payload
}

func TestTranscriptJobHandler_HandleMessage(t *testing.T) {
	processor := &mockProcessor{}
	handler := NewTranscriptJobHandler(processor)

	msg := mocks.NewMockMessage(jobPayload(t, "m1", "https://x/t.jsonl"), models.TranscriptProcessingSubject)
	processor.On("ServiceReady").Return(true)
	processor.On("Run", mock.Anything, models.TranscriptJobData{
		MeetingID:     "m1",
		TranscriptURL: "https://x/t.jsonl",
	}).Return(nil).Once()
	msg.On("Ack").Return(nil).Once()

	handler.HandleMessage(context.Background(), msg)

	processor.AssertExpectations(t)
	msg.AssertExpectations(t)
}

func TestTranscriptJobHandler_ProcessingFailureNaks(t *testing.T) {
	processor := &mockProcessor{}
	handler := NewTranscriptJobHandler(processor)

	msg := mocks.NewMockMessage(jobPayload(t, "m1", "https://x/t.jsonl"), models.TranscriptProcessingSubject)
	processor.On("ServiceReady").Return(true)
	processor.On("Run", mock.Anything, mock.Anything).
		Return(domain.NewUnavailableError("transcript download failed")).Once()
	msg.On("Nak").Return(nil).Once()

	handler.HandleMessage(context.Background(), msg)

	processor.AssertExpectations(t)
	msg.AssertExpectations(t)
}

func TestTranscriptJobHandler_MalformedJobIsDropped(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "invalid json", payload: []byte(`{not json`)},
		{name: "wrong job name", payload: []byte(`{"name":"meetings/other","data":{"meetingId":"m1","transcriptUrl":"u"}}`)},
		{name: "missing meeting id", payload: []byte(`{"name":"meetings/processing","data":{"transcriptUrl":"u"}}`)},
		{name: "missing transcript url", payload: []byte(`{"name":"meetings/processing","data":{"meetingId":"m1"}}`)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			processor := &mockProcessor{}
			handler := NewTranscriptJobHandler(processor)

			msg := mocks.NewMockMessage(tc.payload, models.TranscriptProcessingSubject)
			processor.On("ServiceReady").Return(true)
			msg.On("Ack").Return(nil).Once()

			handler.HandleMessage(context.Background(), msg)

			processor.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
			msg.AssertExpectations(t)
		})
	}
}

func TestTranscriptJobHandler_NotReadyNaks(t *testing.T) {
	processor := &mockProcessor{}
	handler := NewTranscriptJobHandler(processor)

	msg := mocks.NewMockMessage(jobPayload(t, "m1", "https://x/t.jsonl"), models.TranscriptProcessingSubject)
	processor.On("ServiceReady").Return(false)
	msg.On("Nak").Return(nil).Once()

	handler.HandleMessage(context.Background(), msg)

	processor.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	msg.AssertExpectations(t)
}

func TestTranscriptJobHandler_HandlerReady(t *testing.T) {
	assert.False(t, NewTranscriptJobHandler(nil).HandlerReady())

	processor := &mockProcessor{}
	processor.On("ServiceReady").Return(true)
	assert.True(t, NewTranscriptJobHandler(processor).HandlerReady())
}
