// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

// Package ai implements the hosted text-completion client used for meeting
// summaries and voice-assistant replies.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"

	defaultModel = "claude-haiku-4-5"

	summaryMaxTokens   = 4096
	summaryTemperature = 0.3

	speechMaxTokens   = 256
	speechTemperature = 0.3
)

const summarySystemPrompt = `You are a meeting summarizer. Given a meeting transcript with named speakers and timestamps, produce a markdown document with exactly these sections:

## Overview
A narrative paragraph describing what the meeting was about and what was decided.

## Topics
A timestamped breakdown of the themes discussed, one bullet per topic in the form "[mm:ss] Topic — short description".`

const speechSystemPrompt = `You are a helpful voice assistant participating in a live meeting. Reply to the user's utterance in one or two short conversational sentences. Do not use markdown or lists.`

// ClientConfig holds the configuration for the completion client.
type ClientConfig struct {
	// APIKey authenticates requests. Required.
	APIKey string
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
	// Model overrides the completion model.
	Model string
	// Timeout bounds each completion call. Defaults to 60 seconds.
	Timeout time.Duration
}

// Client talks to the hosted text-completion API. It implements both the
// summarizer and the speech responder interfaces.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a new completion client.
func NewClient(config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// SummarizeTranscript generates a markdown summary of the given transcript
// text. The transcript lines carry resolved speaker names.
func (c *Client) SummarizeTranscript(ctx context.Context, transcript string) (string, error) {
	return c.complete(ctx, completionRequest{
		Model:       c.config.Model,
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
		System:      summarySystemPrompt,
		Messages: []message{
			{Role: "user", Content: "Here is the meeting transcript to summarize:\n\n" + transcript},
		},
	})
}

// RespondToSpeech generates a short conversational reply to a finalized
// voice-assistant utterance.
func (c *Client) RespondToSpeech(ctx context.Context, text string) (string, error) {
	return c.complete(ctx, completionRequest{
		Model:       c.config.Model,
		MaxTokens:   speechMaxTokens,
		Temperature: speechTemperature,
		System:      speechSystemPrompt,
		Messages: []message{
			{Role: "user", Content: text},
		},
	})
}

func (c *Client) complete(ctx context.Context, reqBody completionRequest) (string, error) {
	if c.config.APIKey == "" {
		return "", domain.NewInternalError("completion API key is not configured")
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", domain.NewInternalError("failed to marshal completion request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return "", domain.NewInternalError("failed to build completion request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.config.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.NewUnavailableError("completion request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewInternalError("failed to read completion response", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", domain.NewQuotaError("completion API quota exhausted")
	case resp.StatusCode != http.StatusOK:
		return "", domain.NewInternalError(
			fmt.Sprintf("completion API returned status %d: %s", resp.StatusCode, string(respBody)))
	}

	var apiResp completionResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", domain.NewInternalError("failed to parse completion response", err)
	}

	var text string
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	if text == "" {
		return "", domain.NewInternalError("completion API returned an empty response")
	}

	return text, nil
}

type completionRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}
