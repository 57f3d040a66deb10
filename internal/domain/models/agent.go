// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// Agent is the key-value store representation of an AI meeting agent.
// Agents are referenced, never mutated, by the webhook and pipeline flows.
type Agent struct {
	UID          string     `json:"uid"`
	UserUID      string     `json:"user_uid"`
	Name         string     `json:"name"`
	Instructions string     `json:"instructions"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}
