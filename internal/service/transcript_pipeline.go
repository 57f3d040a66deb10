// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
	"github.com/meetwise/meetwise-meeting-service/internal/logging"
	"github.com/meetwise/meetwise-meeting-service/pkg/concurrent"
	"github.com/meetwise/meetwise-meeting-service/pkg/utils"
)

// TranscriptPipeline runs the transcript processing job for one meeting:
// fetch, parse, resolve speakers, summarize, persist. Each step's result is
// checkpointed before the next begins so a redelivered or restarted job
// resumes from the last completed step instead of repeating work.
type TranscriptPipeline struct {
	meetingRepo domain.MeetingRepository
	agentRepo   domain.AgentRepository
	userRepo    domain.UserRepository
	jobRepo     domain.TranscriptJobRepository
	source      domain.TranscriptSource
	parser      domain.TranscriptParser
	summarizer  domain.Summarizer
}

// NewTranscriptPipeline creates a new transcript processing pipeline.
func NewTranscriptPipeline(
	meetingRepo domain.MeetingRepository,
	agentRepo domain.AgentRepository,
	userRepo domain.UserRepository,
	jobRepo domain.TranscriptJobRepository,
	source domain.TranscriptSource,
	parser domain.TranscriptParser,
	summarizer domain.Summarizer,
) *TranscriptPipeline {
	return &TranscriptPipeline{
		meetingRepo: meetingRepo,
		agentRepo:   agentRepo,
		userRepo:    userRepo,
		jobRepo:     jobRepo,
		source:      source,
		parser:      parser,
		summarizer:  summarizer,
	}
}

// ServiceReady checks if the pipeline dependencies are wired.
func (p *TranscriptPipeline) ServiceReady() bool {
	return p.meetingRepo != nil &&
		p.agentRepo != nil &&
		p.userRepo != nil &&
		p.jobRepo != nil &&
		p.source != nil &&
		p.parser != nil &&
		p.summarizer != nil
}

// Run executes the pipeline for one job delivery. Returning an error hands
// the job back to the runner, whose redelivery policy owns retries; completed
// steps are skipped on the next delivery.
func (p *TranscriptPipeline) Run(ctx context.Context, data models.TranscriptJobData) error {
	if !p.ServiceReady() {
		return domain.NewUnavailableError("transcript pipeline is not ready")
	}
	if data.MeetingID == "" || data.TranscriptURL == "" {
		return domain.NewValidationError("transcript job is missing the meeting id or transcript URL")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", data.MeetingID))
	ctx = logging.AppendCtx(ctx, slog.String("transcript_url", data.TranscriptURL))

	checkpoint, err := p.loadCheckpoint(ctx, data)
	if err != nil {
		return err
	}

	steps := []struct {
		step models.TranscriptJobStep
		run  func(context.Context, *models.TranscriptJobCheckpoint) error
	}{
		{models.TranscriptJobStepFetch, p.stepFetch},
		{models.TranscriptJobStepParse, p.stepParse},
		{models.TranscriptJobStepResolve, p.stepResolve},
		{models.TranscriptJobStepSummarize, p.stepSummarize},
		{models.TranscriptJobStepPersist, p.stepPersist},
	}

	for _, s := range steps {
		if checkpoint.StepDone(s.step) {
			slog.DebugContext(ctx, "skipping completed pipeline step", "step", s.step)
			continue
		}

		if err := s.run(ctx, checkpoint); err != nil {
			slog.ErrorContext(ctx, "pipeline step failed",
				"step", s.step, logging.ErrKey, err)
			return err
		}

		checkpoint.CompletedStep = s.step
		checkpoint.UpdatedAt = time.Now().UTC()
		if err := p.jobRepo.Save(ctx, checkpoint); err != nil {
			return err
		}

		slog.DebugContext(ctx, "pipeline step completed", "step", s.step)
	}

	// The checkpoint has served its purpose once the summary is persisted.
	if err := p.jobRepo.Delete(ctx, data.MeetingID); err != nil {
		slog.WarnContext(ctx, "failed to delete completed checkpoint", logging.ErrKey, err)
	}

	slog.InfoContext(ctx, "transcript pipeline completed")
	return nil
}

// loadCheckpoint returns the stored checkpoint for the meeting, or a fresh one
// when none exists or the transcript URL changed since it was written.
func (p *TranscriptPipeline) loadCheckpoint(ctx context.Context, data models.TranscriptJobData) (*models.TranscriptJobCheckpoint, error) {
	checkpoint, err := p.jobRepo.Get(ctx, data.MeetingID)
	if err != nil {
		if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
			return nil, err
		}
		checkpoint = nil
	}

	if checkpoint != nil && checkpoint.TranscriptURL == data.TranscriptURL {
		slog.DebugContext(ctx, "resuming from checkpoint", "completed_step", checkpoint.CompletedStep)
		return checkpoint, nil
	}

	return &models.TranscriptJobCheckpoint{
		MeetingUID:    data.MeetingID,
		TranscriptURL: data.TranscriptURL,
	}, nil
}

func (p *TranscriptPipeline) stepFetch(ctx context.Context, checkpoint *models.TranscriptJobCheckpoint) error {
	raw, err := p.source.Fetch(ctx, checkpoint.TranscriptURL)
	if err != nil {
		return err
	}
	checkpoint.RawTranscript = raw
	return nil
}

func (p *TranscriptPipeline) stepParse(_ context.Context, checkpoint *models.TranscriptJobCheckpoint) error {
	items, err := p.parser.Parse(checkpoint.RawTranscript)
	if err != nil {
		return err
	}
	checkpoint.Items = items
	return nil
}

// stepResolve annotates every transcript item with a display name. Users and
// agents are looked up concurrently; a speaker matching neither falls back to
// the literal "Unknown" rather than failing the step.
func (p *TranscriptPipeline) stepResolve(ctx context.Context, checkpoint *models.TranscriptJobCheckpoint) error {
	speakerIDs := distinctSpeakerIDs(checkpoint.Items)

	var (
		users  []*models.User
		agents []*models.Agent
	)
	pool := concurrent.NewWorkerPool(2)
	err := pool.Run(ctx,
		func() error {
			var err error
			users, err = p.userRepo.ListByUIDs(ctx, speakerIDs)
			return err
		},
		func() error {
			var err error
			agents, err = p.agentRepo.ListByUIDs(ctx, speakerIDs)
			return err
		},
	)
	if err != nil {
		return err
	}

	speakers := make(map[string]string, len(speakerIDs))
	for _, user := range users {
		speakers[user.UID] = user.Name
	}
	for _, agent := range agents {
		if _, ok := speakers[agent.UID]; !ok {
			speakers[agent.UID] = agent.Name
		}
	}

	for i := range checkpoint.Items {
		name, ok := speakers[checkpoint.Items[i].SpeakerID]
		if !ok || name == "" {
			name = models.UnknownSpeakerName
		}
		checkpoint.Items[i].SpeakerName = name
	}

	return nil
}

func (p *TranscriptPipeline) stepSummarize(ctx context.Context, checkpoint *models.TranscriptJobCheckpoint) error {
	summary, err := p.summarizer.SummarizeTranscript(ctx, SerializeTranscript(checkpoint.Items))
	if err != nil {
		return err
	}
	if strings.TrimSpace(summary) == "" {
		return domain.NewInternalError("summarizer returned an empty summary")
	}
	checkpoint.Summary = summary
	return nil
}

// stepPersist writes the summary to the meeting and marks it completed. This
// is the only point at which a meeting reaches completed status. The write is
// an idempotent overwrite so checkpoint redelivery after a crash is safe.
func (p *TranscriptPipeline) stepPersist(ctx context.Context, checkpoint *models.TranscriptJobCheckpoint) error {
	if strings.TrimSpace(checkpoint.Summary) == "" {
		return domain.NewInternalError("refusing to complete meeting without a summary")
	}

	meeting, revision, err := p.meetingRepo.GetWithRevision(ctx, checkpoint.MeetingUID)
	if err != nil {
		return err
	}

	meeting.Summary = checkpoint.Summary
	meeting.Status = models.MeetingStatusCompleted
	meeting.UpdatedAt = utils.TimePtr(time.Now().UTC())

	return p.meetingRepo.Update(ctx, meeting, revision)
}

func distinctSpeakerIDs(items []models.TranscriptItem) []string {
	seen := make(map[string]struct{}, len(items))
	var ids []string
	for _, item := range items {
		if item.SpeakerID == "" {
			continue
		}
		if _, ok := seen[item.SpeakerID]; ok {
			continue
		}
		seen[item.SpeakerID] = struct{}{}
		ids = append(ids, item.SpeakerID)
	}
	sort.Strings(ids)
	return ids
}

// SerializeTranscript renders enriched transcript items as the text submitted
// to the summarizer, one line per utterance with a timestamp and speaker name.
func SerializeTranscript(items []models.TranscriptItem) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "[%s] %s: %s\n", formatTimestamp(item.StartTS), item.SpeakerName, item.Text)
	}
	return b.String()
}

func formatTimestamp(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
