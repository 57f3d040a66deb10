// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
	"github.com/meetwise/meetwise-meeting-service/internal/logging"
	"github.com/meetwise/meetwise-meeting-service/pkg/utils"
)

// MeetingWebhookService validates, dispatches and applies call platform
// webhook events to the meeting store.
//
// Webhook delivery is at-least-once and may be duplicated or reordered. Every
// transition is therefore guarded twice: by a status predicate on the meeting
// model and by the store's revision check on the write. Two near-simultaneous
// duplicate deliveries both pass the predicate but only one write succeeds.
type MeetingWebhookService struct {
	meetingRepo   domain.MeetingRepository
	agentRepo     domain.AgentRepository
	validator     domain.WebhookValidator
	callTransport domain.CallTransport
	jobSender     domain.TranscriptJobSender
	config        ServiceConfig
}

// NewMeetingWebhookService creates a new webhook service.
func NewMeetingWebhookService(
	meetingRepo domain.MeetingRepository,
	agentRepo domain.AgentRepository,
	validator domain.WebhookValidator,
	callTransport domain.CallTransport,
	jobSender domain.TranscriptJobSender,
	config ServiceConfig,
) *MeetingWebhookService {
	return &MeetingWebhookService{
		meetingRepo:   meetingRepo,
		agentRepo:     agentRepo,
		validator:     validator,
		callTransport: callTransport,
		jobSender:     jobSender,
		config:        config,
	}
}

// ServiceReady checks if the service dependencies are wired.
func (s *MeetingWebhookService) ServiceReady() bool {
	return s.meetingRepo != nil &&
		s.agentRepo != nil &&
		s.validator != nil &&
		s.callTransport != nil &&
		s.jobSender != nil
}

// HandleWebhook validates and dispatches one raw webhook delivery. The body
// must be the exact bytes received on the wire; the signature is computed over
// them.
func (s *MeetingWebhookService) HandleWebhook(ctx context.Context, body []byte, signature, apiKey string) error {
	if !s.ServiceReady() {
		return domain.NewUnavailableError("webhook service is not ready")
	}

	if signature == "" || apiKey == "" {
		return domain.NewValidationError("missing webhook signature or API key header")
	}

	if err := s.validator.ValidateSignature(body, signature, apiKey); err != nil {
		return err
	}

	event, err := models.ParseCallWebhookEvent(body)
	if err != nil {
		return domain.NewValidationError("invalid webhook payload", err)
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_type", event.Type))

	switch {
	case event.SessionStarted != nil:
		return s.handleSessionStarted(ctx, event.SessionStarted)
	case event.ParticipantLeft != nil:
		return s.handleParticipantLeft(ctx, event.ParticipantLeft)
	case event.SessionEnded != nil:
		return s.handleSessionEnded(ctx, event.SessionEnded)
	case event.TranscriptionReady != nil:
		return s.handleTranscriptionReady(ctx, event.TranscriptionReady)
	case event.RecordingReady != nil:
		return s.handleRecordingReady(ctx, event.RecordingReady)
	default:
		// Unknown event kinds are acknowledged without mutation so new
		// platform events never break the endpoint.
		slog.DebugContext(ctx, "ignoring unrecognized webhook event")
		return nil
	}
}

func (s *MeetingWebhookService) handleSessionStarted(ctx context.Context, event *models.SessionStartedEvent) error {
	meetingUID := event.Call.Custom.MeetingID
	if meetingUID == "" {
		return domain.NewValidationError("session started event is missing the meeting id")
	}
	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, revision, err := s.meetingRepo.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return err
	}

	if !meeting.CanStart() {
		slog.InfoContext(ctx, "rejecting session start for non-startable meeting",
			"status", meeting.Status)
		return domain.NewNotFoundError(
			fmt.Sprintf("no startable meeting with UID '%s'", meetingUID))
	}

	if !s.config.SkipAgentValidation {
		exists, err := s.agentRepo.Exists(ctx, meeting.AgentUID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NewNotFoundError(
				fmt.Sprintf("agent with UID '%s' not found", meeting.AgentUID))
		}
	}

	now := time.Now().UTC()
	startedAt := event.CreatedAt
	if startedAt.IsZero() {
		startedAt = now
	}

	meeting.Status = models.MeetingStatusActive
	meeting.StartedAt = utils.TimePtr(startedAt)
	meeting.UpdatedAt = utils.TimePtr(now)

	if err := s.meetingRepo.Update(ctx, meeting, revision); err != nil {
		return err
	}

	slog.InfoContext(ctx, "meeting session started", "status", meeting.Status)
	return nil
}

func (s *MeetingWebhookService) handleParticipantLeft(ctx context.Context, event *models.ParticipantLeftEvent) error {
	if event.CallCID == "" {
		return domain.NewValidationError("participant left event is missing the call cid")
	}
	ctx = logging.AppendCtx(ctx, slog.String("call_cid", event.CallCID))

	if err := s.callTransport.EndCall(ctx, event.CallCID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "requested call end after participant left")
	return nil
}

func (s *MeetingWebhookService) handleSessionEnded(ctx context.Context, event *models.SessionEndedEvent) error {
	meetingUID := models.MeetingUIDFromCID(event.CallCID)
	if meetingUID == "" {
		return domain.NewValidationError("session ended event is missing the meeting id")
	}
	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, revision, err := s.meetingRepo.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return err
	}

	if !meeting.CanEnd() {
		slog.InfoContext(ctx, "ignoring session end for non-active meeting",
			"status", meeting.Status)
		return domain.NewNotFoundError(
			fmt.Sprintf("no active meeting with UID '%s'", meetingUID))
	}

	now := time.Now().UTC()
	endedAt := event.CreatedAt
	if endedAt.IsZero() {
		endedAt = now
	}

	meeting.Status = models.MeetingStatusProcessing
	meeting.EndedAt = utils.TimePtr(endedAt)
	meeting.UpdatedAt = utils.TimePtr(now)

	if err := s.meetingRepo.Update(ctx, meeting, revision); err != nil {
		return err
	}

	slog.InfoContext(ctx, "meeting session ended", "status", meeting.Status)
	return nil
}

func (s *MeetingWebhookService) handleTranscriptionReady(ctx context.Context, event *models.TranscriptionReadyEvent) error {
	meetingUID := models.MeetingUIDFromCID(event.CallCID)
	if meetingUID == "" {
		return domain.NewValidationError("transcription ready event is missing the meeting id")
	}
	if event.CallTranscription.URL == "" {
		return domain.NewValidationError("transcription ready event is missing the transcript URL")
	}
	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, revision, err := s.meetingRepo.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return err
	}

	meeting.TranscriptURL = event.CallTranscription.URL
	meeting.UpdatedAt = utils.TimePtr(time.Now().UTC())

	// The revision-guarded update is the concurrency gate: a duplicate
	// delivery that lost the race fails here and never enqueues a second job.
	if err := s.meetingRepo.Update(ctx, meeting, revision); err != nil {
		return err
	}

	if err := s.jobSender.SendTranscriptProcessing(ctx, models.TranscriptJobData{
		MeetingID:     meetingUID,
		TranscriptURL: event.CallTranscription.URL,
	}); err != nil {
		return err
	}

	slog.InfoContext(ctx, "transcript stored and processing job enqueued",
		"transcript_url", event.CallTranscription.URL)
	return nil
}

func (s *MeetingWebhookService) handleRecordingReady(ctx context.Context, event *models.RecordingReadyEvent) error {
	meetingUID := models.MeetingUIDFromCID(event.CallCID)
	if meetingUID == "" {
		return domain.NewValidationError("recording ready event is missing the meeting id")
	}
	if event.CallRecording.URL == "" {
		return domain.NewValidationError("recording ready event is missing the recording URL")
	}
	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, revision, err := s.meetingRepo.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return err
	}

	meeting.RecordingURL = event.CallRecording.URL
	meeting.UpdatedAt = utils.TimePtr(time.Now().UTC())

	if err := s.meetingRepo.Update(ctx, meeting, revision); err != nil {
		return err
	}

	slog.InfoContext(ctx, "recording URL stored", "recording_url", event.CallRecording.URL)
	return nil
}
