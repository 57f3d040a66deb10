// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
)

// NatsAgentRepository is the NATS KV implementation of the agent repository
type NatsAgentRepository struct {
	*NatsBaseRepository[models.Agent]
}

// NewNatsAgentRepository creates a new NATS agent repository
func NewNatsAgentRepository(kvStore INatsKeyValue) *NatsAgentRepository {
	return &NatsAgentRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Agent](kvStore, "agent"),
	}
}

func (r *NatsAgentRepository) Get(ctx context.Context, agentUID string) (*models.Agent, error) {
	return r.NatsBaseRepository.Get(ctx, EncodeKey(agentUID))
}

func (r *NatsAgentRepository) Exists(ctx context.Context, agentUID string) (bool, error) {
	return r.NatsBaseRepository.Exists(ctx, EncodeKey(agentUID))
}

// ListByUIDs fetches the given agents, skipping any that do not exist.
func (r *NatsAgentRepository) ListByUIDs(ctx context.Context, agentUIDs []string) ([]*models.Agent, error) {
	agents := make([]*models.Agent, 0, len(agentUIDs))
	for _, uid := range agentUIDs {
		agent, err := r.Get(ctx, uid)
		if err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
				continue
			}
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, nil
}
