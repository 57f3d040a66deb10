// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
	"github.com/meetwise/meetwise-meeting-service/internal/infrastructure/auth"
	"github.com/meetwise/meetwise-meeting-service/internal/logging"
	"github.com/meetwise/meetwise-meeting-service/internal/middleware"
	"github.com/meetwise/meetwise-meeting-service/internal/service"
	"github.com/meetwise/meetwise-meeting-service/pkg/constants"
)

// maxSpeechBodySize bounds the process-speech request body.
const maxSpeechBodySize = 1 << 20 // 1 MiB

// connChecker reports live NATS connectivity for the readiness probe.
type connChecker interface {
	IsConnected() bool
}

// MeetingsAPI is the HTTP surface of the meeting service.
type MeetingsAPI struct {
	auth           *auth.JWTAuth
	webhookService *service.MeetingWebhookService
	voiceService   *service.VoiceAssistantService
	natsConn       connChecker
}

// NewMeetingsAPI creates the HTTP API for the meeting service.
func NewMeetingsAPI(
	jwtAuth *auth.JWTAuth,
	webhookService *service.MeetingWebhookService,
	voiceService *service.VoiceAssistantService,
	natsConn connChecker,
) *MeetingsAPI {
	return &MeetingsAPI{
		auth:           jwtAuth,
		webhookService: webhookService,
		voiceService:   voiceService,
		natsConn:       natsConn,
	}
}

// RegisterRoutes mounts the API routes on the given router.
func (s *MeetingsAPI) RegisterRoutes(r chi.Router) {
	r.Post("/webhooks/call", s.handleCallWebhook)
	r.Post("/api/ai/process-speech", s.handleProcessSpeech)
	r.Get("/livez", s.handleLivez)
	r.Get("/readyz", s.handleReadyz)
}

// handleCallWebhook receives call platform webhook events. The raw body is
// captured by [middleware.WebhookBodyCaptureMiddleware] because the signature
// is computed over the exact bytes the platform sent.
func (s *MeetingsAPI) handleCallWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, ok := middleware.GetRawBodyFromContext(ctx)
	if !ok {
		writeError(ctx, w, domain.NewInternalError("webhook body was not captured"))
		return
	}

	signature := r.Header.Get(constants.WebhookSignatureHeader)
	apiKey := r.Header.Get(constants.WebhookAPIKeyHeader)

	err := s.webhookService.HandleWebhook(ctx, body, signature, apiKey)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// processSpeechRequest is the voice assistant request payload.
type processSpeechRequest struct {
	Text string `json:"text"`
}

// processSpeechResponse is the voice assistant response payload.
type processSpeechResponse struct {
	Response string `json:"response"`
	Success  bool   `json:"success"`
}

// handleProcessSpeech generates a conversational reply to a finalized
// voice-assistant utterance. Requires a bearer token.
func (s *MeetingsAPI) handleProcessSpeech(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := bearerToken(r)
	if !ok {
		writeError(ctx, w, domain.NewUnauthorizedError("missing bearer token"))
		return
	}
	principal, err := s.auth.ParsePrincipal(ctx, token, slog.Default())
	if err != nil {
		writeError(ctx, w, domain.NewUnauthorizedError("invalid bearer token", err))
		return
	}
	ctx = context.WithValue(ctx, constants.PrincipalContextID, principal)
	ctx = logging.AppendCtx(ctx, slog.String("principal", principal))

	var req processSpeechRequest
	err = json.NewDecoder(io.LimitReader(r.Body, maxSpeechBodySize)).Decode(&req)
	if err != nil {
		writeError(ctx, w, domain.NewValidationError("invalid request body", err))
		return
	}

	reply, err := s.voiceService.ProcessSpeech(ctx, req.Text)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, processSpeechResponse{
		Response: reply,
		Success:  true,
	})
}

// handleLivez reports process liveness.
func (s *MeetingsAPI) handleLivez(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReadyz reports whether the service dependencies are usable.
func (s *MeetingsAPI) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	ready := s.webhookService.ServiceReady() &&
		s.voiceService.ServiceReady() &&
		s.natsConn != nil && s.natsConn.IsConnected()
	if !ready {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("service unavailable"))
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// bearerToken extracts the bearer token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(constants.AuthorizationHeader)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// errorResponse is the JSON error payload.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps a domain error to an HTTP status and writes the JSON error
// payload.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := httpStatus(domain.GetErrorType(err))
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", logging.ErrKey, err)
	} else {
		slog.DebugContext(ctx, "request rejected", logging.ErrKey, err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// httpStatus maps a domain error type to an HTTP status code.
func httpStatus(errorType domain.ErrorType) int {
	switch errorType {
	case domain.ErrorTypeValidation:
		return http.StatusBadRequest
	case domain.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	case domain.ErrorTypeConflict:
		return http.StatusConflict
	case domain.ErrorTypeQuota:
		return http.StatusTooManyRequests
	case domain.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error encoding response")
	}
}
