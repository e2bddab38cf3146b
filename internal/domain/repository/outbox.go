package repository

import (
	"context"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// StatusOutboxRepository hands out history entries that still have to be published.
type StatusOutboxRepository interface {
	ClaimPending(ctx context.Context, limit int) ([]model.StatusEvent, error)
	MarkDispatched(ctx context.Context, id int64) error
	Release(ctx context.Context, id int64) error
}
