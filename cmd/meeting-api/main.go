// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

// Package main is the meeting service API that receives call platform
// webhooks, processes transcript summarization jobs, and serves the voice
// assistant endpoint.
package main

import (
	"context"
	_ "expvar"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/meetwise/meetwise-meeting-service/internal/handlers"
	"github.com/meetwise/meetwise-meeting-service/internal/infrastructure/ai"
	"github.com/meetwise/meetwise-meeting-service/internal/infrastructure/callplatform"
	"github.com/meetwise/meetwise-meeting-service/internal/infrastructure/messaging"
	"github.com/meetwise/meetwise-meeting-service/internal/infrastructure/transcript"
	"github.com/meetwise/meetwise-meeting-service/internal/logging"
	"github.com/meetwise/meetwise-meeting-service/internal/service"
	"github.com/meetwise/meetwise-meeting-service/pkg/utils"
)

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up OpenTelemetry SDK")
		os.Exit(1)
	}

	// Set up JWT validator needed by the process-speech security handler.
	jwtAuth, err := setupJWTAuth(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up JWT authentication")
		os.Exit(1)
	}

	// Setup NATS connection
	natsConn, err := setupNATS(env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}
	js, err := jetstream.New(natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating JetStream context")
		return
	}

	// Get the key-value stores for the service.
	repos, err := getKeyValueStores(ctx, js)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	// Initialize infrastructure clients
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	webhookValidator := callplatform.NewWebhookValidator(callplatform.WebhookValidatorConfig{
		APIKey:        env.Webhook.APIKey,
		SigningSecret: env.Webhook.SigningSecret,
	})
	callClient := callplatform.NewClient(callplatform.ClientConfig{
		BaseURL:      env.CallPlatform.BaseURL,
		ClientID:     env.CallPlatform.ClientID,
		ClientSecret: env.CallPlatform.ClientSecret,
		TokenURL:     env.CallPlatform.TokenURL,
		Timeout:      env.CallPlatform.Timeout,
	})
	aiClient := ai.NewClient(ai.ClientConfig{
		APIKey:  env.AI.APIKey,
		BaseURL: env.AI.BaseURL,
		Model:   env.AI.Model,
	})
	transcriptFetcher := transcript.NewFetcher(0)
	transcriptParser := transcript.NewParser()

	// Initialize services
	serviceConfig := service.ServiceConfig{
		SkipAgentValidation: env.SkipAgentValidation,
	}
	webhookService := service.NewMeetingWebhookService(
		repos.Meeting,
		repos.Agent,
		webhookValidator,
		callClient,
		messageBuilder,
		serviceConfig,
	)
	transcriptPipeline := service.NewTranscriptPipeline(
		repos.Meeting,
		repos.Agent,
		repos.User,
		repos.TranscriptJob,
		transcriptFetcher,
		transcriptParser,
		aiClient,
	)
	voiceService := service.NewVoiceAssistantService(aiClient)

	// Initialize handlers
	transcriptJobHandler := handlers.NewTranscriptJobHandler(transcriptPipeline)

	svc := NewMeetingsAPI(
		jwtAuth,
		webhookService,
		voiceService,
		natsConn,
	)

	httpServer := setupHTTPServer(flags, svc, &gracefulCloseWG)

	// Start consuming transcript processing jobs.
	err = setupJobConsumer(ctx, js, transcriptJobHandler, &gracefulCloseWG)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up job consumer")
		return
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, otelShutdown, &gracefulCloseWG, cancel)
}

// gracefulShutdown stops the HTTP server, drains the NATS connection, and
// flushes telemetry before the process exits.
func gracefulShutdown(
	httpServer *http.Server,
	natsConn *nats.Conn,
	otelShutdown func(context.Context) error,
	gracefulCloseWG *sync.WaitGroup,
	cancel context.CancelFunc,
) {
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down http server")
	}
	// Matches the Add for the http listener goroutine in setupHTTPServer.
	gracefulCloseWG.Done()

	if natsConn != nil && !natsConn.IsClosed() {
		err = natsConn.Drain()
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
		}
	}

	gracefulCloseWG.Wait()

	err = otelShutdown(shutdownCtx)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down OpenTelemetry SDK")
	}

	slog.Info("graceful shutdown complete")
}
