package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/config"
	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/domain/taxonomy"
	testhelpers "github.com/polkiloo/procurement/internal/test"
	"github.com/polkiloo/procurement/internal/usecase"
)

type facadeDeps struct {
	ledger    *testhelpers.MemoryLedger
	oracle    *testhelpers.OracleStub
	publisher *testhelpers.PublisherStub
	health    *testhelpers.HealthFacadeStub
}

func newFacade() (*ProcurementFacade, facadeDeps) {
	deps := facadeDeps{
		ledger:    testhelpers.NewMemoryLedger(),
		oracle:    &testhelpers.OracleStub{Err: domainErrors.ErrOracleUnavailable},
		publisher: &testhelpers.PublisherStub{},
		health:    &testhelpers.HealthFacadeStub{},
	}
	cfg := &config.Config{OracleTimeout: time.Second}
	logger := zap.NewNop()

	classifier := usecase.NewClassifier(deps.oracle, cfg, logger)
	intake := usecase.NewIntakeUseCase(usecase.IntakeParams{
		Oracle:    deps.oracle,
		Redactor:  testhelpers.RedactorStub{},
		Documents: testhelpers.DocumentExtractorStub{},
		Titles:    usecase.NewTitleSuggester(deps.oracle, cfg, logger),
		Config:    cfg,
		Logger:    logger,
	})
	facade := NewProcurementFacade(
		usecase.NewRequestUseCase(deps.ledger, classifier),
		intake,
		classifier,
		usecase.NewStatusEventUseCase(deps.ledger, deps.publisher),
		deps.health,
	)
	return facade, deps
}

func submission() model.RequestInput {
	return model.RequestInput{
		Header: model.RequestHeader{
			RequestorName:    "Jane Doe",
			Department:       "IT",
			Title:            "Laptops",
			VendorName:       "Hardware AG",
			VendorVATID:      "DE987654321",
			CommodityGroupID: "029",
			TotalCost:        2500,
		},
		Lines: []model.RawLine{
			{Description: "Laptop", UnitPrice: model.NewAmount(1000), Quantity: model.NewAmount(2), Unit: "pcs"},
		},
		SubmitStatus: model.SubmitStatusSubmitted,
	}
}

func TestProcurementFacadeRequests(t *testing.T) {
	facade, _ := newFacade()
	ctx := context.Background()

	res, err := facade.SubmitRequest(ctx, submission())
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}
	if res.Subtotal != 2000 {
		t.Fatalf("expected subtotal 2000, got %v", res.Subtotal)
	}

	req, err := facade.Request(ctx, res.ID)
	if err != nil {
		t.Fatalf("request returned error: %v", err)
	}
	group, _ := taxonomy.Lookup("029")
	if req.Currency != model.CurrencyEUR || req.CommodityGroupName != group.Name() {
		t.Fatalf("unexpected request %+v", req)
	}

	list, err := facade.Requests(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one request, got %v err=%v", list, err)
	}

	lines, err := facade.RequestLines(ctx, res.ID)
	if err != nil || len(lines) != 1 || lines[0].LineTotal != 2000 {
		t.Fatalf("unexpected lines %v err=%v", lines, err)
	}

	old, err := facade.TransitionRequest(ctx, res.ID, model.ProcessStatusInProgress, "ordered")
	if err != nil {
		t.Fatalf("transition returned error: %v", err)
	}
	if old != model.ProcessStatusOpen {
		t.Fatalf("expected previous status Open, got %q", old)
	}

	status, err := facade.RequestStatus(ctx, res.ID)
	if err != nil || status != model.ProcessStatusInProgress {
		t.Fatalf("expected In Progress, got %q err=%v", status, err)
	}

	history, err := facade.RequestHistory(ctx, res.ID)
	if err != nil || len(history) != 2 {
		t.Fatalf("expected two history entries, got %v err=%v", history, err)
	}
}

func TestProcurementFacadeUnknownRequest(t *testing.T) {
	facade, _ := newFacade()
	ctx := context.Background()

	if _, err := facade.Request(ctx, 42); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := facade.RequestLines(ctx, 42); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for lines, got %v", err)
	}
	if _, err := facade.RequestHistory(ctx, 42); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for history, got %v", err)
	}
	if _, err := facade.RequestStatus(ctx, 42); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for status, got %v", err)
	}
	if _, err := facade.TransitionRequest(ctx, 42, model.ProcessStatusClosed, ""); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for transition, got %v", err)
	}
	if _, err := facade.TransitionRequest(ctx, 42, model.ProcessStatus("Done"), ""); !errors.Is(err, domainErrors.ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
}

func TestProcurementFacadeRepositoryErrors(t *testing.T) {
	facade, deps := newFacade()
	deps.ledger.CreateErr = errors.New("db down")
	if _, err := facade.SubmitRequest(context.Background(), submission()); err == nil {
		t.Fatal("expected create error")
	}
}

func TestProcurementFacadeIntake(t *testing.T) {
	facade, _ := newFacade()
	ctx := context.Background()

	cls := facade.Classify(ctx, model.ClassificationInput{Title: "Adobe Creative Cloud license"})
	if cls.Source != model.ClassificationSourceFallback || cls.ID != "031" {
		t.Fatalf("unexpected classification %+v", cls)
	}

	lines, subtotal := facade.PreviewLines([]model.RawLine{
		{Description: "Cable", UnitPrice: model.NewAmount(2.5), Quantity: model.NewAmount(4)},
		{Description: " "},
	})
	if len(lines) != 2 || subtotal != 10 {
		t.Fatalf("unexpected preview %v %v", lines, subtotal)
	}

	if len(facade.Taxonomy()) != 50 {
		t.Fatalf("expected full taxonomy, got %d entries", len(facade.Taxonomy()))
	}

	if _, err := facade.Autofill(ctx, model.AutofillInput{Text: "offer"}); !errors.Is(err, domainErrors.ErrConsentRequired) {
		t.Fatalf("expected consent error, got %v", err)
	}
	draft, err := facade.Autofill(ctx, model.AutofillInput{Text: "  ", Title: "Mine", Consent: true})
	if err != nil || draft.Title != "Mine" {
		t.Fatalf("unexpected draft %+v err=%v", draft, err)
	}
}

func TestProcurementFacadeStatusEvents(t *testing.T) {
	facade, deps := newFacade()
	ctx := context.Background()

	if _, err := facade.SubmitRequest(ctx, submission()); err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	events, err := facade.PendingStatusEvents(ctx, 10)
	if err != nil || len(events) != 1 {
		t.Fatalf("expected one pending event, got %v err=%v", events, err)
	}
	if err := facade.DispatchStatusEvent(ctx, events[0]); err != nil {
		t.Fatalf("dispatch returned error: %v", err)
	}
	if len(deps.publisher.Published()) != 1 {
		t.Fatal("expected event to be published")
	}
	if deps.ledger.Undispatched() != 0 {
		t.Fatalf("expected no undispatched events, got %d", deps.ledger.Undispatched())
	}
}

func TestProcurementFacadeHealthCheck(t *testing.T) {
	facade, deps := newFacade()
	if err := facade.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	deps.health.Err = errors.New("unreachable")
	if err := facade.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check error")
	}
}
