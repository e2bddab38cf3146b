package repository

import (
	"context"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// RequestRepository is the request ledger: requests, their lines and status history.
// Reads on unknown ids return empty results, never ErrNotFound.
type RequestRepository interface {
	// Create stores the request, its lines and the initial history entry in one transaction.
	Create(ctx context.Context, request *model.Request, lines []model.OrderLine) (int64, error)
	// Transition moves a request to status and appends one history entry.
	// Returns false for unknown ids. Re-applying the current status records nothing.
	Transition(ctx context.Context, id int64, status model.ProcessStatus, note string) (bool, *model.ProcessStatus, error)
	List(ctx context.Context) ([]model.Request, error)
	Get(ctx context.Context, id int64) (*model.Request, error)
	Lines(ctx context.Context, id int64) ([]model.OrderLine, error)
	Status(ctx context.Context, id int64) (*model.ProcessStatus, error)
	History(ctx context.Context, id int64) ([]model.StatusHistoryEntry, error)
}
