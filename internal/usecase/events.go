package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/domain/repository"
)

// StatusEventUseCase moves status history from the outbox to the event publisher.
type StatusEventUseCase struct {
	outbox    repository.StatusOutboxRepository
	publisher EventPublisher
}

// NewStatusEventUseCase constructs StatusEventUseCase.
func NewStatusEventUseCase(outbox repository.StatusOutboxRepository, publisher EventPublisher) *StatusEventUseCase {
	return &StatusEventUseCase{outbox: outbox, publisher: publisher}
}

// Pending claims up to limit unpublished events.
func (u *StatusEventUseCase) Pending(ctx context.Context, limit int) ([]model.StatusEvent, error) {
	return u.outbox.ClaimPending(ctx, limit)
}

// Dispatch publishes a claimed event. A failed publish returns the event to the
// outbox so a later poll retries it.
func (u *StatusEventUseCase) Dispatch(ctx context.Context, event model.StatusEvent) error {
	if err := u.publisher.Publish(ctx, event); err != nil {
		if relErr := u.outbox.Release(ctx, event.ID); relErr != nil {
			return errors.Join(fmt.Errorf("publish status event: %w", err), fmt.Errorf("release status event: %w", relErr))
		}
		return fmt.Errorf("publish status event: %w", err)
	}
	if err := u.outbox.MarkDispatched(ctx, event.ID); err != nil {
		return fmt.Errorf("mark status event dispatched: %w", err)
	}
	return nil
}
