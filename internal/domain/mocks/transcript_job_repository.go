// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
)

// MockTranscriptJobRepository implements TranscriptJobRepository for testing
type MockTranscriptJobRepository struct {
	mock.Mock
}

func (m *MockTranscriptJobRepository) Get(ctx context.Context, meetingUID string) (*models.TranscriptJobCheckpoint, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TranscriptJobCheckpoint), args.Error(1)
}

func (m *MockTranscriptJobRepository) Save(ctx context.Context, checkpoint *models.TranscriptJobCheckpoint) error {
	args := m.Called(ctx, checkpoint)
	return args.Error(0)
}

func (m *MockTranscriptJobRepository) Delete(ctx context.Context, meetingUID string) error {
	args := m.Called(ctx, meetingUID)
	return args.Error(0)
}
