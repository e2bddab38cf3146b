package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/domain/taxonomy"
)

// RequestFacadeStub provides controllable behaviour for request endpoints.
type RequestFacadeStub struct {
	SubmitFn     func(context.Context, model.RequestInput) (*model.SubmitResult, error)
	RequestsFn   func(context.Context) ([]model.Request, error)
	RequestFn    func(context.Context, int64) (*model.Request, error)
	LinesFn      func(context.Context, int64) ([]model.OrderLine, error)
	StatusFn     func(context.Context, int64) (model.ProcessStatus, error)
	HistoryFn    func(context.Context, int64) ([]model.StatusHistoryEntry, error)
	TransitionFn func(context.Context, int64, model.ProcessStatus, string) (model.ProcessStatus, error)
}

// SubmitRequest delegates to provided function or returns request 1.
func (s RequestFacadeStub) SubmitRequest(ctx context.Context, in model.RequestInput) (*model.SubmitResult, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, in)
	}
	return &model.SubmitResult{ID: 1}, nil
}

// Requests returns predefined requests.
func (s RequestFacadeStub) Requests(ctx context.Context) ([]model.Request, error) {
	if s.RequestsFn != nil {
		return s.RequestsFn(ctx)
	}
	return []model.Request{{ID: 1, SubmitStatus: model.SubmitStatusSubmitted, ProcessStatus: model.ProcessStatusOpen}}, nil
}

// Request returns a request with the given id.
func (s RequestFacadeStub) Request(ctx context.Context, id int64) (*model.Request, error) {
	if s.RequestFn != nil {
		return s.RequestFn(ctx, id)
	}
	return &model.Request{ID: id, SubmitStatus: model.SubmitStatusSubmitted, ProcessStatus: model.ProcessStatusOpen}, nil
}

// RequestLines returns a single line for the request.
func (s RequestFacadeStub) RequestLines(ctx context.Context, id int64) ([]model.OrderLine, error) {
	if s.LinesFn != nil {
		return s.LinesFn(ctx, id)
	}
	return []model.OrderLine{{ID: 1, RequestID: id, Description: "Chair", UnitPrice: 10, Quantity: 1, Unit: "pcs", LineTotal: 10}}, nil
}

// RequestStatus returns Open unless overridden.
func (s RequestFacadeStub) RequestStatus(ctx context.Context, id int64) (model.ProcessStatus, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, id)
	}
	return model.ProcessStatusOpen, nil
}

// RequestHistory returns the initial history entry.
func (s RequestFacadeStub) RequestHistory(ctx context.Context, id int64) ([]model.StatusHistoryEntry, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, id)
	}
	note := "Initial status"
	return []model.StatusHistoryEntry{{ID: 1, RequestID: id, NewStatus: model.ProcessStatusOpen, ChangedAt: time.Unix(0, 0), Note: &note}}, nil
}

// TransitionRequest reports Open as the previous status.
func (s RequestFacadeStub) TransitionRequest(ctx context.Context, id int64, status model.ProcessStatus, note string) (model.ProcessStatus, error) {
	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, id, status, note)
	}
	return model.ProcessStatusOpen, nil
}

// IntakeFacadeStub simulates autofill and classification.
type IntakeFacadeStub struct {
	AutofillFn func(context.Context, model.AutofillInput) (*model.OfferDraft, error)
	ClassifyFn func(context.Context, model.ClassificationInput) model.Classification
	PreviewFn  func([]model.RawLine) ([]model.OrderLine, float64)
}

// Autofill returns a draft echoing the input title.
func (s IntakeFacadeStub) Autofill(ctx context.Context, in model.AutofillInput) (*model.OfferDraft, error) {
	if s.AutofillFn != nil {
		return s.AutofillFn(ctx, in)
	}
	return &model.OfferDraft{Title: in.Title, Currency: model.CurrencyEUR}, nil
}

// Classify returns the miscellaneous services group.
func (s IntakeFacadeStub) Classify(ctx context.Context, in model.ClassificationInput) model.Classification {
	if s.ClassifyFn != nil {
		return s.ClassifyFn(ctx, in)
	}
	return model.Classification{ID: "009", Name: "Miscellaneous Services", Confidence: 0.2, Source: model.ClassificationSourceFallback}
}

// PreviewLines multiplies price by quantity for every line.
func (s IntakeFacadeStub) PreviewLines(raw []model.RawLine) ([]model.OrderLine, float64) {
	if s.PreviewFn != nil {
		return s.PreviewFn(raw)
	}
	var (
		lines    []model.OrderLine
		subtotal float64
	)
	for _, r := range raw {
		total := r.UnitPrice.Float() * r.Quantity.Float()
		lines = append(lines, model.OrderLine{Description: r.Description, UnitPrice: r.UnitPrice.Float(), Quantity: r.Quantity.Float(), Unit: r.Unit, LineTotal: total})
		subtotal += total
	}
	return lines, subtotal
}

// Taxonomy returns the full commodity group table.
func (s IntakeFacadeStub) Taxonomy() []taxonomy.Entry {
	return taxonomy.All()
}

// HealthFacadeStub reports readiness.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// ProcurementFacadeStub aggregates the stubs used by HTTP handlers.
type ProcurementFacadeStub struct {
	RequestFacadeStub
	IntakeFacadeStub
	HealthFacadeStub
}

// WorkerFacadeStub mimics worker interactions with the procurement facade.
type WorkerFacadeStub struct {
	Events     [][]model.StatusEvent
	PendingFn  func(context.Context, int) ([]model.StatusEvent, error)
	DispatchFn func(context.Context, model.StatusEvent) error
	Dispatched []model.StatusEvent
	mu         sync.Mutex
	pendingCnt int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// PendingStatusEvents returns batches from configured queue.
func (s *WorkerFacadeStub) PendingStatusEvents(ctx context.Context, limit int) ([]model.StatusEvent, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.pendingCnt, 1)
	if int(call) <= len(s.Events) {
		return s.Events[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// DispatchStatusEvent records dispatched events.
func (s *WorkerFacadeStub) DispatchStatusEvent(ctx context.Context, event model.StatusEvent) error {
	if s.DispatchFn != nil {
		return s.DispatchFn(ctx, event)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Dispatched = append(s.Dispatched, event)
	return nil
}
