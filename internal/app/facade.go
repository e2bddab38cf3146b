package app

import (
	"context"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/domain/taxonomy"
	"github.com/polkiloo/procurement/internal/usecase"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type ProcurementFacade struct {
	requests   *usecase.RequestUseCase
	intake     *usecase.IntakeUseCase
	classifier *usecase.Classifier
	events     *usecase.StatusEventUseCase
	health     HealthChecker
}

func NewProcurementFacade(requests *usecase.RequestUseCase, intake *usecase.IntakeUseCase, classifier *usecase.Classifier, events *usecase.StatusEventUseCase, health HealthChecker) *ProcurementFacade {
	return &ProcurementFacade{requests: requests, intake: intake, classifier: classifier, events: events, health: health}
}

func (f *ProcurementFacade) SubmitRequest(ctx context.Context, in model.RequestInput) (*model.SubmitResult, error) {
	return f.requests.Submit(ctx, in)
}

func (f *ProcurementFacade) Requests(ctx context.Context) ([]model.Request, error) {
	return f.requests.List(ctx)
}

func (f *ProcurementFacade) Request(ctx context.Context, id int64) (*model.Request, error) {
	request, err := f.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domainErrors.ErrNotFound
	}
	return request, nil
}

func (f *ProcurementFacade) RequestLines(ctx context.Context, id int64) ([]model.OrderLine, error) {
	if _, err := f.Request(ctx, id); err != nil {
		return nil, err
	}
	return f.requests.Lines(ctx, id)
}

func (f *ProcurementFacade) RequestStatus(ctx context.Context, id int64) (model.ProcessStatus, error) {
	status, err := f.requests.Status(ctx, id)
	if err != nil {
		return "", err
	}
	if status == nil {
		return "", domainErrors.ErrNotFound
	}
	return *status, nil
}

func (f *ProcurementFacade) RequestHistory(ctx context.Context, id int64) ([]model.StatusHistoryEntry, error) {
	if _, err := f.Request(ctx, id); err != nil {
		return nil, err
	}
	return f.requests.History(ctx, id)
}

// TransitionRequest returns the status the request had before the call.
func (f *ProcurementFacade) TransitionRequest(ctx context.Context, id int64, status model.ProcessStatus, note string) (model.ProcessStatus, error) {
	found, old, err := f.requests.Transition(ctx, id, status, note)
	if err != nil {
		return "", err
	}
	if !found || old == nil {
		return "", domainErrors.ErrNotFound
	}
	return *old, nil
}

func (f *ProcurementFacade) Autofill(ctx context.Context, in model.AutofillInput) (*model.OfferDraft, error) {
	return f.intake.Autofill(ctx, in)
}

func (f *ProcurementFacade) Classify(ctx context.Context, in model.ClassificationInput) model.Classification {
	return f.classifier.Classify(ctx, in)
}

func (f *ProcurementFacade) PreviewLines(raw []model.RawLine) ([]model.OrderLine, float64) {
	return usecase.AggregateLines(raw)
}

func (f *ProcurementFacade) Taxonomy() []taxonomy.Entry {
	return taxonomy.All()
}

func (f *ProcurementFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

func (f *ProcurementFacade) PendingStatusEvents(ctx context.Context, limit int) ([]model.StatusEvent, error) {
	return f.events.Pending(ctx, limit)
}

func (f *ProcurementFacade) DispatchStatusEvent(ctx context.Context, event model.StatusEvent) error {
	return f.events.Dispatch(ctx, event)
}
