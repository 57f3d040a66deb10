// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/meetwise/meetwise-meeting-service/internal/logging"
)

// flags are the command line flags for the meeting service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the meeting service.
type environment struct {
	Port    string
	NatsURL string

	Webhook      webhookConfig
	CallPlatform callPlatformConfig
	AI           aiConfig
	JWT          jwtConfig

	SkipAgentValidation bool
}

// webhookConfig holds the inbound webhook validation secrets.
type webhookConfig struct {
	APIKey        string
	SigningSecret string
}

// callPlatformConfig holds the call platform API credentials.
type callPlatformConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Timeout      time.Duration
}

// aiConfig holds the completion API configuration. The API key may be absent;
// its absence is reported as a distinct misconfiguration error when the AI
// surface is used, not at startup.
type aiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// jwtConfig holds the bearer token validation configuration.
type jwtConfig struct {
	JWKSURL            string
	Issuer             string
	Audience           string
	MockLocalPrincipal string
}

// parseFlags parses command line flags for the meeting service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by
	// [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the meeting service
func parseEnv() environment {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://nats:4222"
	}

	return environment{
		Port:                port,
		NatsURL:             natsURL,
		Webhook:             parseWebhookConfig(),
		CallPlatform:        parseCallPlatformConfig(),
		AI:                  parseAIConfig(),
		JWT:                 parseJWTConfig(),
		SkipAgentValidation: os.Getenv("SKIP_AGENT_VALIDATION") == "true",
	}
}

func parseWebhookConfig() webhookConfig {
	apiKey := os.Getenv("CALL_PLATFORM_API_KEY")
	if apiKey == "" {
		slog.Error("CALL_PLATFORM_API_KEY environment variable is required but not set")
		os.Exit(1)
	}

	signingSecret := os.Getenv("CALL_PLATFORM_API_SECRET")
	if signingSecret == "" {
		slog.Error("CALL_PLATFORM_API_SECRET environment variable is required but not set")
		os.Exit(1)
	}

	return webhookConfig{
		APIKey:        apiKey,
		SigningSecret: signingSecret,
	}
}

func parseCallPlatformConfig() callPlatformConfig {
	baseURL := os.Getenv("CALL_PLATFORM_BASE_URL")
	if baseURL == "" {
		baseURL = "https://video.meetwise.dev"
	}

	tokenURL := os.Getenv("CALL_PLATFORM_TOKEN_URL")
	if tokenURL == "" {
		tokenURL = baseURL + "/oauth/token"
	}

	timeout := 10 * time.Second
	if raw := os.Getenv("CALL_PLATFORM_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			slog.With(logging.ErrKey, err, "value", raw).Error("invalid CALL_PLATFORM_TIMEOUT, using default")
		} else {
			timeout = parsed
		}
	}

	return callPlatformConfig{
		BaseURL:      baseURL,
		ClientID:     os.Getenv("CALL_PLATFORM_CLIENT_ID"),
		ClientSecret: os.Getenv("CALL_PLATFORM_CLIENT_SECRET"),
		TokenURL:     tokenURL,
		Timeout:      timeout,
	}
}

func parseAIConfig() aiConfig {
	return aiConfig{
		APIKey:  os.Getenv("AI_API_KEY"),
		BaseURL: os.Getenv("AI_BASE_URL"),
		Model:   os.Getenv("AI_MODEL"),
	}
}

func parseJWTConfig() jwtConfig {
	return jwtConfig{
		JWKSURL:            os.Getenv("JWKS_URL"),
		Issuer:             os.Getenv("JWT_ISSUER"),
		Audience:           os.Getenv("JWT_AUDIENCE"),
		MockLocalPrincipal: os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL"),
	}
}
