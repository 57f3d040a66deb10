// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

// Package callplatform integrates with the hosted call platform: webhook
// signature validation and the server-side call REST API.
package callplatform

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
)

// WebhookValidatorConfig holds the secrets used to validate inbound webhooks.
type WebhookValidatorConfig struct {
	// APIKey must match the x-api-key header sent by the platform.
	APIKey string
	// SigningSecret is the HMAC secret shared with the platform.
	SigningSecret string
}

// WebhookValidator validates call platform webhook requests.
type WebhookValidator struct {
	config WebhookValidatorConfig
}

// NewWebhookValidator creates a new webhook validator.
func NewWebhookValidator(config WebhookValidatorConfig) *WebhookValidator {
	return &WebhookValidator{config: config}
}

// ValidateSignature checks the webhook API key and the HMAC-SHA256 signature
// computed over the raw request body. The signature header carries the hex
// encoded digest.
func (v *WebhookValidator) ValidateSignature(body []byte, signature, apiKey string) error {
	if v.config.APIKey == "" || v.config.SigningSecret == "" {
		return domain.NewUnavailableError("webhook validation is not configured")
	}

	if apiKey == "" || signature == "" {
		return domain.NewUnauthorizedError("missing webhook credentials")
	}

	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(v.config.APIKey)) != 1 {
		return domain.NewUnauthorizedError("invalid webhook API key")
	}

	mac := hmac.New(sha256.New, []byte(v.config.SigningSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domain.NewUnauthorizedError("invalid webhook signature")
	}

	return nil
}
