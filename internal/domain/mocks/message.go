// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
)

// MockMessage implements Message for testing
type MockMessage struct {
	mock.Mock
	data    []byte
	subject string
}

func (m *MockMessage) Subject() string {
	return m.subject
}

func (m *MockMessage) Data() []byte {
	return m.data
}

func (m *MockMessage) Ack() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMessage) Nak() error {
	args := m.Called()
	return args.Error(0)
}

// NewMockMessage creates a mock message for testing
func NewMockMessage(data []byte, subject string) *MockMessage {
	return &MockMessage{
		data:    data,
		subject: subject,
	}
}

// MockTranscriptJobSender implements TranscriptJobSender for testing
type MockTranscriptJobSender struct {
	mock.Mock
}

func (m *MockTranscriptJobSender) SendTranscriptProcessing(ctx context.Context, data models.TranscriptJobData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}
