// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
)

func TestNatsMeetingRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsMeetingRepository(newMockNatsKeyValue())

	meeting := &models.Meeting{
		UID:      "m1",
		AgentUID: "agent-1",
		UserUID:  "user-1",
		Title:    "Weekly sync",
		Status:   models.MeetingStatusUpcoming,
	}

	require.NoError(t, repo.Create(ctx, meeting))

	got, err := repo.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", got.UID)
	assert.Equal(t, models.MeetingStatusUpcoming, got.Status)
	assert.Equal(t, "Weekly sync", got.Title)

	exists, err := repo.Exists(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNatsMeetingRepository_GetNotFound(t *testing.T) {
	repo := NewNatsMeetingRepository(newMockNatsKeyValue())

	_, err := repo.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestNatsMeetingRepository_UpdateWithRevision(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsMeetingRepository(newMockNatsKeyValue())

	meeting := &models.Meeting{UID: "m1", Status: models.MeetingStatusUpcoming}
	require.NoError(t, repo.Create(ctx, meeting))

	got, revision, err := repo.GetWithRevision(ctx, "m1")
	require.NoError(t, err)

	got.Status = models.MeetingStatusActive
	require.NoError(t, repo.Update(ctx, got, revision))

	updated, err := repo.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusActive, updated.Status)
}

func TestNatsMeetingRepository_UpdateStaleRevisionConflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsMeetingRepository(newMockNatsKeyValue())

	meeting := &models.Meeting{UID: "m1", Status: models.MeetingStatusUpcoming}
	require.NoError(t, repo.Create(ctx, meeting))

	got, revision, err := repo.GetWithRevision(ctx, "m1")
	require.NoError(t, err)

	// A concurrent writer bumps the revision.
	got.Status = models.MeetingStatusActive
	require.NoError(t, repo.Update(ctx, got, revision))

	got.Status = models.MeetingStatusCancelled
	err = repo.Update(ctx, got, revision)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
}

func TestNatsMeetingRepository_ListAll(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsMeetingRepository(newMockNatsKeyValue())

	require.NoError(t, repo.Create(ctx, &models.Meeting{UID: "m1"}))
	require.NoError(t, repo.Create(ctx, &models.Meeting{UID: "m2"}))

	meetings, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, meetings, 2)
}

func TestNatsMeetingRepository_NotReady(t *testing.T) {
	repo := NewNatsMeetingRepository(nil)

	_, err := repo.Get(context.Background(), "m1")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
}
