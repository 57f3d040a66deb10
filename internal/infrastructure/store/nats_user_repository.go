// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
)

// NatsUserRepository is the NATS KV implementation of the user repository.
// User UIDs come from the call platform and are not guaranteed to be safe
// NATS KV keys, so they are encoded before use.
type NatsUserRepository struct {
	*NatsBaseRepository[models.User]
}

// NewNatsUserRepository creates a new NATS user repository
func NewNatsUserRepository(kvStore INatsKeyValue) *NatsUserRepository {
	return &NatsUserRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.User](kvStore, "user"),
	}
}

func (r *NatsUserRepository) Get(ctx context.Context, userUID string) (*models.User, error) {
	return r.NatsBaseRepository.Get(ctx, EncodeKey(userUID))
}

// ListByUIDs fetches the given users, skipping any that do not exist.
func (r *NatsUserRepository) ListByUIDs(ctx context.Context, userUIDs []string) ([]*models.User, error) {
	users := make([]*models.User, 0, len(userUIDs))
	for _, uid := range userUIDs {
		user, err := r.Get(ctx, uid)
		if err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
				continue
			}
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
