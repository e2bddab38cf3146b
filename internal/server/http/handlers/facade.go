package handlers

import (
	"context"

	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/domain/taxonomy"
)

// RequestFacade encapsulates request ledger operations exposed via HTTP.
type RequestFacade interface {
	SubmitRequest(ctx context.Context, in model.RequestInput) (*model.SubmitResult, error)
	Requests(ctx context.Context) ([]model.Request, error)
	Request(ctx context.Context, id int64) (*model.Request, error)
	RequestLines(ctx context.Context, id int64) ([]model.OrderLine, error)
	RequestStatus(ctx context.Context, id int64) (model.ProcessStatus, error)
	RequestHistory(ctx context.Context, id int64) ([]model.StatusHistoryEntry, error)
	TransitionRequest(ctx context.Context, id int64, status model.ProcessStatus, note string) (model.ProcessStatus, error)
}

// IntakeFacade provides autofill, line preview and classification.
type IntakeFacade interface {
	Autofill(ctx context.Context, in model.AutofillInput) (*model.OfferDraft, error)
	Classify(ctx context.Context, in model.ClassificationInput) model.Classification
	PreviewLines(raw []model.RawLine) ([]model.OrderLine, float64)
	Taxonomy() []taxonomy.Entry
}

// HealthFacade reports whether the service can reach its database.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// ProcurementFacade aggregates the full set of operations used across handlers.
type ProcurementFacade interface {
	RequestFacade
	IntakeFacade
	HealthFacade
}
