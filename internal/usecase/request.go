package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/domain/repository"
	"github.com/polkiloo/procurement/internal/domain/taxonomy"
)

// RequestUseCase drives the request ledger.
type RequestUseCase struct {
	requests   repository.RequestRepository
	classifier *Classifier
}

// NewRequestUseCase constructs RequestUseCase.
func NewRequestUseCase(requests repository.RequestRepository, classifier *Classifier) *RequestUseCase {
	return &RequestUseCase{requests: requests, classifier: classifier}
}

// Submit cleans the lines, resolves the commodity group and stores the request as Open.
// Submitted requests must pass ValidateSubmission; drafts are stored as they are.
func (u *RequestUseCase) Submit(ctx context.Context, in model.RequestInput) (*model.SubmitResult, error) {
	if !in.SubmitStatus.Valid() {
		return nil, domainErrors.ErrInvalidSubmitStatus
	}

	header := trimHeader(in.Header)
	if header.Currency == "" {
		header.Currency = model.CurrencyEUR
	} else {
		c, ok := model.ParseCurrency(string(header.Currency))
		if !ok {
			return nil, domainErrors.ErrInvalidCurrency
		}
		header.Currency = c
	}
	header.PositionsNet = positiveOrNil(header.PositionsNet)
	header.ShippingNet = positiveOrNil(header.ShippingNet)
	header.TaxAmount = positiveOrNil(header.TaxAmount)

	lines, subtotal := AggregateLines(in.Lines)

	var classification *model.Classification
	if header.CommodityGroupID != "" {
		entry, ok := taxonomy.Lookup(header.CommodityGroupID)
		if !ok {
			return nil, domainErrors.ErrUnknownCommodityGroup
		}
		header.CommodityGroupID = entry.ID
		header.CommodityGroupName = entry.Name()
	} else {
		cls := u.classifier.Classify(ctx, model.ClassificationInput{
			Title:  header.Title,
			Vendor: header.VendorName,
			Lines:  lines,
		})
		header.CommodityGroupID = cls.ID
		header.CommodityGroupName = cls.Name
		classification = &cls
	}

	if in.SubmitStatus == model.SubmitStatusSubmitted {
		if problems := ValidateSubmission(header, lines, subtotal); len(problems) > 0 {
			return nil, &domainErrors.ValidationError{Problems: problems}
		}
	}

	request := &model.Request{
		RequestHeader: header,
		SubmitStatus:  in.SubmitStatus,
		ProcessStatus: model.ProcessStatusOpen,
		TotalIsGross:  true,
	}
	id, err := u.requests.Create(ctx, request, lines)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].RequestID = id
	}

	return &model.SubmitResult{ID: id, Lines: lines, Subtotal: subtotal, Classification: classification}, nil
}

// Transition moves a request to a new process status.
// found is false for unknown ids; old is the status before the call.
func (u *RequestUseCase) Transition(ctx context.Context, id int64, status model.ProcessStatus, note string) (bool, *model.ProcessStatus, error) {
	if !status.Valid() {
		return false, nil, domainErrors.ErrInvalidStatus
	}
	return u.requests.Transition(ctx, id, status, note)
}

// List returns requests newest first.
func (u *RequestUseCase) List(ctx context.Context) ([]model.Request, error) {
	return u.requests.List(ctx)
}

// Get returns a request or nil when it does not exist.
func (u *RequestUseCase) Get(ctx context.Context, id int64) (*model.Request, error) {
	return u.requests.Get(ctx, id)
}

// Lines returns the order lines of a request in insertion order.
func (u *RequestUseCase) Lines(ctx context.Context, id int64) ([]model.OrderLine, error) {
	return u.requests.Lines(ctx, id)
}

// Status returns the current process status or nil for unknown ids.
func (u *RequestUseCase) Status(ctx context.Context, id int64) (*model.ProcessStatus, error) {
	return u.requests.Status(ctx, id)
}

// History returns status history oldest first.
func (u *RequestUseCase) History(ctx context.Context, id int64) ([]model.StatusHistoryEntry, error) {
	return u.requests.History(ctx, id)
}

func trimHeader(h model.RequestHeader) model.RequestHeader {
	h.RequestorName = strings.TrimSpace(h.RequestorName)
	h.Department = strings.TrimSpace(h.Department)
	h.Title = strings.TrimSpace(h.Title)
	h.VendorName = strings.TrimSpace(h.VendorName)
	h.VendorVATID = strings.TrimSpace(h.VendorVATID)
	h.CommodityGroupID = strings.TrimSpace(h.CommodityGroupID)
	h.Currency = model.Currency(strings.TrimSpace(string(h.Currency)))
	return h
}

func positiveOrNil(v *float64) *float64 {
	if v == nil || !(*v > 0) {
		return nil
	}
	return v
}
