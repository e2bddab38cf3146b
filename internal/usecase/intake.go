package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/config"
	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
)

const defaultUnit = "pcs"

const extractionRules = `You extract data from a vendor offer or invoice text for a procurement request.
Return ONLY data that fits the schema.

Important:
- The text is often copied from a PDF and has broken lines. Interpret it robustly.
- total_gross is the final amount including shipping and tax, NOT the sum of positions.
- positions_net is the net sum of positions without shipping and tax.
- shipping_net is the net shipping cost.
- tax_amount is the SUM of all tax amounts (e.g. VAT on positions plus VAT on shipping).
- Numbers as plain numbers without currency symbols. A decimal comma is allowed.
- quantity may be fractional (e.g. 1,28).
- If something is not clearly recognisable: null.
`

var offerSchema = func() model.Schema {
	nullableString := map[string]any{"type": []string{"string", "null"}}
	nullableNumber := map[string]any{"type": []string{"number", "string", "null"}}
	line := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"description": map[string]any{"type": "string"},
			"unit_price":  nullableNumber,
			"quantity":    nullableNumber,
			"unit":        nullableString,
		},
		"required":             []string{"description", "unit_price", "quantity", "unit"},
		"additionalProperties": false,
	}
	return model.Schema{
		Name: "extracted_offer",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"vendor_name":   nullableString,
				"vendor_vat_id": nullableString,
				"department":    nullableString,
				"order_lines":   map[string]any{"type": "array", "items": line},
				"positions_net": nullableNumber,
				"shipping_net":  nullableNumber,
				"tax_amount":    nullableNumber,
				"total_gross":   nullableNumber,
				"currency":      nullableString,
			},
			"required": []string{
				"vendor_name", "vendor_vat_id", "department", "order_lines",
				"positions_net", "shipping_net", "tax_amount", "total_gross", "currency",
			},
			"additionalProperties": false,
		},
	}
}()

var offerTextNormalizer = strings.NewReplacer("“", `"`, "”", `"`, "\u00a0", " ")

// IntakeUseCase prefills a request from a vendor offer.
type IntakeUseCase struct {
	oracle    Oracle
	redactor  Redactor
	documents DocumentExtractor
	titles    *TitleSuggester
	timeout   time.Duration
	logger    *zap.Logger
}

// IntakeParams groups IntakeUseCase dependencies.
type IntakeParams struct {
	fx.In

	Oracle    Oracle
	Redactor  Redactor
	Documents DocumentExtractor
	Titles    *TitleSuggester
	Config    *config.Config
	Logger    *zap.Logger
}

// NewIntakeUseCase constructs IntakeUseCase.
func NewIntakeUseCase(p IntakeParams) *IntakeUseCase {
	return &IntakeUseCase{
		oracle:    p.Oracle,
		redactor:  p.Redactor,
		documents: p.Documents,
		titles:    p.Titles,
		timeout:   p.Config.OracleTimeout,
		logger:    p.Logger,
	}
}

// Autofill extracts offer fields from text or a document. Blank input yields an
// empty draft. Only redacted text is sent to the oracle, and extraction errors
// never carry the document content.
func (u *IntakeUseCase) Autofill(ctx context.Context, in model.AutofillInput) (*model.OfferDraft, error) {
	if !in.Consent {
		return nil, domainErrors.ErrConsentRequired
	}

	text := in.Text
	if in.Document != nil {
		extracted, err := u.documents.Extract(in.Document, in.Filename)
		if err != nil {
			return nil, err
		}
		text = extracted
	}

	text = offerTextNormalizer.Replace(text)
	if strings.TrimSpace(text) == "" {
		return &model.OfferDraft{Title: strings.TrimSpace(in.Title)}, nil
	}

	offer, err := u.extract(ctx, u.redactor.Redact(text))
	if err != nil {
		u.logger.Warn("offer extraction failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrExtractionFailed, err)
	}

	draft := draftFromOffer(offer)
	draft.Title = strings.TrimSpace(in.Title)
	if draft.Title == "" {
		draft.Title = u.titles.Suggest(ctx, draft.VendorName, draft.Department, draft.Lines)
	}
	return draft, nil
}

func (u *IntakeUseCase) extract(ctx context.Context, text string) (*model.ExtractedOffer, error) {
	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	var offer model.ExtractedOffer
	if err := u.oracle.Request(ctx, model.Prompt{System: extractionRules, User: text}, offerSchema, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

func draftFromOffer(offer *model.ExtractedOffer) *model.OfferDraft {
	raw := make([]model.RawLine, 0, len(offer.OrderLines))
	for _, l := range offer.OrderLines {
		if strings.TrimSpace(l.Unit) == "" {
			l.Unit = defaultUnit
		}
		raw = append(raw, l)
	}
	lines, subtotal := AggregateLines(raw)

	draft := &model.OfferDraft{
		VendorName:   strings.TrimSpace(offer.VendorName),
		VendorVATID:  strings.TrimSpace(offer.VendorVATID),
		Department:   strings.TrimSpace(offer.Department),
		Lines:        lines,
		Subtotal:     subtotal,
		PositionsNet: offer.PositionsNet.Ptr(),
		ShippingNet:  offer.ShippingNet.Ptr(),
		TaxAmount:    offer.TaxAmount.Ptr(),
		TotalGross:   offer.TotalGross.Ptr(),
	}
	if c, ok := model.ParseCurrency(offer.Currency); ok {
		draft.Currency = c
	}
	return draft
}
