// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
	"github.com/meetwise/meetwise-meeting-service/internal/domain/mocks"
	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
)

type webhookServiceMocks struct {
	meetingRepo   *mocks.MockMeetingRepository
	agentRepo     *mocks.MockAgentRepository
	validator     *mocks.MockWebhookValidator
	callTransport *mocks.MockCallTransport
	jobSender     *mocks.MockTranscriptJobSender
}

func newWebhookService() (*MeetingWebhookService, *webhookServiceMocks) {
	m := &webhookServiceMocks{
		meetingRepo:   &mocks.MockMeetingRepository{},
		agentRepo:     &mocks.MockAgentRepository{},
		validator:     &mocks.MockWebhookValidator{},
		callTransport: &mocks.MockCallTransport{},
		jobSender:     &mocks.MockTranscriptJobSender{},
	}
	svc := NewMeetingWebhookService(
		m.meetingRepo, m.agentRepo, m.validator, m.callTransport, m.jobSender,
		ServiceConfig{},
	)
	return svc, m
}

func (m *webhookServiceMocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.meetingRepo.AssertExpectations(t)
	m.agentRepo.AssertExpectations(t)
	m.validator.AssertExpectations(t)
	m.callTransport.AssertExpectations(t)
	m.jobSender.AssertExpectations(t)
}

func sessionStartedBody(meetingUID string) []byte {
	return fmt.Appendf(nil,
		`{"type":"call.session_started","call":{"cid":"default:%s","custom":{"meetingId":"%s"}},"session_id":"s1"}`,
		meetingUID, meetingUID)
}

func TestHandleWebhook_MissingHeaders(t *testing.T) {
	svc, m := newWebhookService()

	err := svc.HandleWebhook(context.Background(), []byte(`{}`), "", "")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))

	// No validation, parsing or store access happened.
	m.assertExpectations(t)
}

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	svc, m := newWebhookService()
	body := sessionStartedBody("m1")

	m.validator.On("ValidateSignature", body, "bad-sig", "key").
		Return(domain.NewUnauthorizedError("invalid webhook signature"))

	err := svc.HandleWebhook(context.Background(), body, "bad-sig", "key")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUnauthorized, domain.GetErrorType(err))

	m.meetingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestHandleWebhook_MalformedJSON(t *testing.T) {
	svc, m := newWebhookService()
	body := []byte(`{not json`)

	m.validator.On("ValidateSignature", body, "sig", "key").Return(nil)

	err := svc.HandleWebhook(context.Background(), body, "sig", "key")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	m.assertExpectations(t)
}

func TestHandleWebhook_UnknownEventIsAccepted(t *testing.T) {
	svc, m := newWebhookService()
	body := []byte(`{"type":"call.reaction_added","call_cid":"default:m1"}`)

	m.validator.On("ValidateSignature", body, "sig", "key").Return(nil)

	err := svc.HandleWebhook(context.Background(), body, "sig", "key")
	assert.NoError(t, err)

	m.meetingRepo.AssertNotCalled(t, "GetWithRevision", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestHandleWebhook_SessionStarted(t *testing.T) {
	svc, m := newWebhookService()
	body := sessionStartedBody("m1")

	meeting := &models.Meeting{UID: "m1", AgentUID: "agent-1", Status: models.MeetingStatusUpcoming}

	m.validator.On("ValidateSignature", body, "sig", "key").Return(nil)
	m.meetingRepo.On("GetWithRevision", mock.Anything, "m1").Return(meeting, uint64(3), nil)
	m.agentRepo.On("Exists", mock.Anything, "agent-1").Return(true, nil)
	m.meetingRepo.On("Update", mock.Anything, mock.MatchedBy(func(updated *models.Meeting) bool {
		return updated.UID == "m1" &&
			updated.Status == models.MeetingStatusActive &&
			updated.StartedAt != nil
	}), uint64(3)).Return(nil)

	err := svc.HandleWebhook(context.Background(), body, "sig", "key")
	assert.NoError(t, err)
	m.assertExpectations(t)
}

func TestHandleWebhook_SessionStarted_MissingMeetingID(t *testing.T) {
	svc, m := newWebhookService()
	body := []byte(`{"type":"call.session_started","call":{"cid":"default:m1","custom":{}}}`)

	m.validator.On("ValidateSignature", body, "sig", "key").Return(nil)

	err := svc.HandleWebhook(context.Background(), body, "sig", "key")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	m.assertExpectations(t)
}

func TestHandleWebhook_SessionStarted_DuplicateDeliveryRejected(t *testing.T) {
	svc, m := newWebhookService()
	body := sessionStartedBody("m1")

	// The first delivery already moved the meeting to active.
	meeting := &models.Meeting{UID: "m1", AgentUID: "agent-1", Status: models.MeetingStatusActive}

	m.validator.On("ValidateSignature", body, "sig", "key").Return(nil)
	m.meetingRepo.On("GetWithRevision", mock.Anything, "m1").Return(meeting, uint64(4), nil)

	err := svc.HandleWebhook(context.Background(), body, "sig", "key")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))

	m.meetingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestHandleWebhook_SessionStarted_GuardedStatuses(t *testing.T) {
	for _, status := range []models.MeetingStatus{
		models.MeetingStatusActive,
		models.MeetingStatusProcessing,
		models.MeetingStatusCompleted,
		models.MeetingStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			svc, m := newWebhookService()
			body := sessionStartedBody("m1")

			meeting := &models.Meeting{UID: "m1", AgentUID: "agent-1", Status: status}
			m.validator.On("ValidateSignature", body, "sig", "key").Return(nil)
			m.meetingRepo.On("GetWithRevision", mock.Anything, "m1").Return(meeting, uint64(1), nil)

			err := svc.HandleWebhook(context.Background(), body, "sig", "key")
			require.Error(t, err)
			assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
			m.assertExpectations(t)
		})
	}
}

func TestHandleWebhook_SessionStarted_AgentNotFound(t *testing.T) {
	svc, m := newWebhookService()
	body := sessionStartedBody("m1")

	meeting := &models.Meeting{UID: "m1", AgentUID: "agent-1", Status: models.MeetingStatusUpcoming}

	m.validator.On("ValidateSignature", body, "sig", "key").Return(nil)
	m.meetingRepo.On("GetWithRevision", mock.Anything, "m1").Return(meeting, uint64(1), nil)
	m.agentRepo.On("Exists", mock.Anything, "agent-1").Return(false, nil)

	err := svc.HandleWebhook(context.Background(), body, "sig", "key")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))

	m.meetingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestHandleWebhook_ParticipantLeft(t *testing.T) {
	svc, m := newWebhookService()
	body := []byte(`{"type":"call.session_participant_left","call_cid":"default:m1","session_id":"s1"}`)

	m.validator.On("ValidateSignature", body, "sig", "key").Return(nil)
	m.callTransport.On("EndCall", mock.Anything, "default:m1").Return(nil)

	err := svc.HandleWebhook(context.Background(), body, "sig", "key")
	assert.NoError(t, err)
	m.assertExpectations(t)
}

func TestHandleWebhook_SessionEnded(t *testing.T) {
	svc, m := newWebhookService()
	body := []byte(`{"type":"call.session_ended","call_cid":"default:m1","session_id":"s1"}`)

	meeting := &models.Meeting{UID: "m1", Status: models.MeetingStatusActive}

	m.validator.On("ValidateSignature", body, "sig", "key").Return(nil)
	m.meetingRepo.On("GetWithRevision", mock.Anything, "m1").Return(meeting, uint64(7), nil)
	m.meetingRepo.On("Update", mock.Anything, mock.MatchedBy(func(updated *models.Meeting) bool {
		return updated.Status == models.MeetingStatusProcessing && updated.EndedAt != nil
	}), uint64(7)).Return(nil)

	err := svc.HandleWebhook(context.Background(), body, "sig", "key")
	assert.NoError(t, err)
	m.assertExpectations(t)
}

func TestHandleWebhook_SessionEnded_NotActive(t *testing.T) {
	svc, m := newWebhookService()
	body := []byte(`{"type":"call.session_ended","call_cid":"default:m1"}`)

	meeting := &models.Meeting{UID: "m1", Status: models.MeetingStatusProcessing}

	m.validator.On("ValidateSignature", body, "sig", "key").Return(nil)
	m.meetingRepo.On("GetWithRevision", mock.Anything, "m1").Return(meeting, uint64(9), nil)

	err := svc.HandleWebhook(context.Background(), body, "sig", "key")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))

	m.meetingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestHandleWebhook_TranscriptionReady(t *testing.T) {
	svc, m := newWebhookService()
	body := []byte(`{"type":"call.transcription_ready","call_cid":"default:m1","call_transcription":{"url":"https://x/t.jsonl"}}`)

	meeting := &models.Meeting{UID: "m1", Status: models.MeetingStatusProcessing}

	m.validator.On("ValidateSignature", body, "sig", "key").Return(nil)
	m.meetingRepo.On("GetWithRevision", mock.Anything, "m1").Return(meeting, uint64(2), nil)
	m.meetingRepo.On("Update", mock.Anything, mock.MatchedBy(func(updated *models.Meeting) bool {
		return updated.TranscriptURL == "https://x/t.jsonl"
	}), uint64(2)).Return(nil)
	m.jobSender.On("SendTranscriptProcessing", mock.Anything, models.TranscriptJobData{
		MeetingID:     "m1",
		TranscriptURL: "https://x/t.jsonl",
	}).Return(nil).Once()

	err := svc.HandleWebhook(context.Background(), body, "sig", "key")
	assert.NoError(t, err)
	m.assertExpectations(t)
}

func TestHandleWebhook_TranscriptionReady_MeetingNotFound(t *testing.T) {
	svc, m := newWebhookService()
	body := []byte(`{"type":"call.transcription_ready","call_cid":"default:ghost","call_transcription":{"url":"https://x/t.jsonl"}}`)

	m.validator.On("ValidateSignature", body, "sig", "key").Return(nil)
	m.meetingRepo.On("GetWithRevision", mock.Anything, "ghost").
		Return(nil, uint64(0), domain.NewNotFoundError("meeting with key 'ghost' not found"))

	err := svc.HandleWebhook(context.Background(), body, "sig", "key")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))

	m.jobSender.AssertNotCalled(t, "SendTranscriptProcessing", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestHandleWebhook_TranscriptionReady_ConflictSkipsJob(t *testing.T) {
	svc, m := newWebhookService()
	body := []byte(`{"type":"call.transcription_ready","call_cid":"default:m1","call_transcription":{"url":"https://x/t.jsonl"}}`)

	meeting := &models.Meeting{UID: "m1", Status: models.MeetingStatusProcessing}

	m.validator.On("ValidateSignature", body, "sig", "key").Return(nil)
	m.meetingRepo.On("GetWithRevision", mock.Anything, "m1").Return(meeting, uint64(2), nil)
	m.meetingRepo.On("Update", mock.Anything, mock.Anything, uint64(2)).
		Return(domain.NewConflictError("meeting has been modified"))

	err := svc.HandleWebhook(context.Background(), body, "sig", "key")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))

	m.jobSender.AssertNotCalled(t, "SendTranscriptProcessing", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestHandleWebhook_RecordingReady(t *testing.T) {
	svc, m := newWebhookService()
	body := []byte(`{"type":"call.recording_ready","call_cid":"default:m1","call_recording":{"url":"https://x/r.mp4"}}`)

	meeting := &models.Meeting{UID: "m1", Status: models.MeetingStatusProcessing}

	m.validator.On("ValidateSignature", body, "sig", "key").Return(nil)
	m.meetingRepo.On("GetWithRevision", mock.Anything, "m1").Return(meeting, uint64(5), nil)
	m.meetingRepo.On("Update", mock.Anything, mock.MatchedBy(func(updated *models.Meeting) bool {
		return updated.RecordingURL == "https://x/r.mp4"
	}), uint64(5)).Return(nil)

	err := svc.HandleWebhook(context.Background(), body, "sig", "key")
	assert.NoError(t, err)

	m.jobSender.AssertNotCalled(t, "SendTranscriptProcessing", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}
