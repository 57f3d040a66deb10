// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
	"github.com/meetwise/meetwise-meeting-service/internal/handlers"
	"github.com/meetwise/meetwise-meeting-service/internal/infrastructure/auth"
	"github.com/meetwise/meetwise-meeting-service/internal/infrastructure/messaging"
	"github.com/meetwise/meetwise-meeting-service/internal/infrastructure/store"
	"github.com/meetwise/meetwise-meeting-service/internal/logging"
)

const (
	// jobStreamName is the JetStream work queue stream holding transcript
	// processing jobs.
	jobStreamName = "MEETWISE-JOBS"
	// jobConsumerName is the durable consumer for transcript processing jobs.
	jobConsumerName = "transcript-processor"
	// jobAckWait must exceed the worst-case pipeline run time so the server
	// does not redeliver a job that is still being worked on.
	jobAckWait = 10 * time.Minute
	// jobMaxDeliver bounds redelivery of failed jobs.
	jobMaxDeliver = 5

	natsDrainTimeout = 25 * time.Second
)

// setupJWTAuth configures JWT authentication for the service
func setupJWTAuth(env environment) (*auth.JWTAuth, error) {
	jwtAuthConfig := auth.JWTAuthConfig{
		JWKSURL:            env.JWT.JWKSURL,
		Issuer:             env.JWT.Issuer,
		Audience:           env.JWT.Audience,
		MockLocalPrincipal: env.JWT.MockLocalPrincipal,
	}
	return auth.NewJWTAuth(jwtAuthConfig)
}

// setupNATS establishes the NATS connection used for both KV storage and job
// messaging. The connection participates in graceful shutdown: closing it
// unexpectedly signals the done channel so the process exits rather than
// running without storage.
func setupNATS(env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	gracefulCloseWG.Add(1)
	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.DrainTimeout(natsDrainTimeout),
		nats.ConnectHandler(func(_ *nats.Conn) {
			slog.With("nats_url", env.NatsURL).Info("NATS connection established")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
			} else {
				slog.With(logging.ErrKey, err).Error("async NATS error outside subscription")
			}
		}),
		nats.ClosedHandler(func(conn *nats.Conn) {
			err := conn.LastError()
			if err != nil {
				slog.With(logging.ErrKey, err).Error("NATS connection closed")
			} else {
				slog.Info("NATS connection closed")
			}
			gracefulCloseWG.Done()
			select {
			case done <- syscall.SIGTERM:
			default:
			}
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, err
	}
	return natsConn, nil
}

// repositories bundles the NATS KV backed repositories for the service.
type repositories struct {
	Meeting       *store.NatsMeetingRepository
	Agent         *store.NatsAgentRepository
	User          *store.NatsUserRepository
	TranscriptJob *store.NatsTranscriptJobRepository
}

// getKeyValueStores ensures the KV buckets exist and returns the repositories
// backed by them.
func getKeyValueStores(ctx context.Context, js jetstream.JetStream) (*repositories, error) {
	buckets := map[string]jetstream.KeyValue{}
	for _, name := range []string{
		store.KVStoreNameMeetings,
		store.KVStoreNameAgents,
		store.KVStoreNameUsers,
		store.KVStoreNameTranscriptJobs,
	} {
		bucket, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket: name,
		})
		if err != nil {
			slog.With(logging.ErrKey, err, "bucket", name).Error("error ensuring KV bucket")
			return nil, err
		}
		buckets[name] = bucket
	}

	return &repositories{
		Meeting:       store.NewNatsMeetingRepository(buckets[store.KVStoreNameMeetings]),
		Agent:         store.NewNatsAgentRepository(buckets[store.KVStoreNameAgents]),
		User:          store.NewNatsUserRepository(buckets[store.KVStoreNameUsers]),
		TranscriptJob: store.NewNatsTranscriptJobRepository(buckets[store.KVStoreNameTranscriptJobs]),
	}, nil
}

// setupJobConsumer provisions the transcript job work queue and starts the
// durable consumer that feeds the transcript job handler. The consumer stops
// when ctx is cancelled.
func setupJobConsumer(ctx context.Context, js jetstream.JetStream, handler *handlers.TranscriptJobHandler, gracefulCloseWG *sync.WaitGroup) error {
	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      jobStreamName,
		Subjects:  []string{models.TranscriptProcessingSubject},
		Retention: jetstream.WorkQueuePolicy,
	})
	if err != nil {
		slog.With(logging.ErrKey, err, "stream", jobStreamName).Error("error ensuring job stream")
		return err
	}

	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:    jobConsumerName,
		AckPolicy:  jetstream.AckExplicitPolicy,
		AckWait:    jobAckWait,
		MaxDeliver: jobMaxDeliver,
	})
	if err != nil {
		slog.With(logging.ErrKey, err, "consumer", jobConsumerName).Error("error ensuring job consumer")
		return err
	}

	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		handler.HandleMessage(ctx, messaging.NewJetStreamMsg(msg))
	})
	if err != nil {
		slog.With(logging.ErrKey, err, "consumer", jobConsumerName).Error("error starting job consumer")
		return err
	}

	gracefulCloseWG.Add(1)
	go func() {
		defer gracefulCloseWG.Done()
		<-ctx.Done()
		consumeCtx.Stop()
	}()

	slog.With("stream", jobStreamName, "consumer", jobConsumerName).Info("transcript job consumer started")
	return nil
}
