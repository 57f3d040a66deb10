// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

// Package service implements the meeting lifecycle and transcript processing
// business logic.
package service

// ServiceConfig holds option toggles shared across the services.
type ServiceConfig struct {
	// SkipAgentValidation disables agent existence checks on session start.
	// For local development only.
	SkipAgentValidation bool
}
