package model

import "time"

// ClassificationSource tells whether a commodity group came from the oracle or the keyword rules.
type ClassificationSource string

const (
	ClassificationSourceOracle   ClassificationSource = "oracle"
	ClassificationSourceFallback ClassificationSource = "fallback"
)

// Classification is the resolved commodity group for a request.
type Classification struct {
	ID         string               `json:"commodity_group_id"`
	Name       string               `json:"commodity_group_name"`
	Confidence float64              `json:"confidence"`
	Rationale  string               `json:"rationale"`
	Source     ClassificationSource `json:"source"`
}

// ClassificationInput is what the classifier looks at.
type ClassificationInput struct {
	Title  string
	Vendor string
	Lines  []OrderLine
}

// CommodityPick is the raw answer of the classification oracle.
type CommodityPick struct {
	ID         string  `json:"commodity_group_id"`
	Name       string  `json:"commodity_group_name"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"reasoning_short"`
}

// TitleInput is the reduced context sent for title suggestions.
type TitleInput struct {
	Vendor       string
	Department   string
	Descriptions []string
}

// ExtractedOffer mirrors the fields the extraction oracle returns. Every field is optional.
type ExtractedOffer struct {
	VendorName   string    `json:"vendor_name"`
	VendorVATID  string    `json:"vendor_vat_id"`
	Department   string    `json:"department"`
	OrderLines   []RawLine `json:"order_lines"`
	PositionsNet Amount    `json:"positions_net"`
	ShippingNet  Amount    `json:"shipping_net"`
	TaxAmount    Amount    `json:"tax_amount"`
	TotalGross   Amount    `json:"total_gross"`
	Currency     string    `json:"currency"`
}

// AutofillInput is offer text or an uploaded document to prefill a request from.
// Title is the title the user already typed; a title is only suggested when it is blank.
type AutofillInput struct {
	Text     string
	Document []byte
	Filename string
	Title    string
	Consent  bool
}

// OfferDraft is the autofill proposal shown to the user for review.
type OfferDraft struct {
	VendorName   string
	VendorVATID  string
	Department   string
	Title        string
	Currency     Currency
	Lines        []OrderLine
	Subtotal     float64
	PositionsNet *float64
	ShippingNet  *float64
	TaxAmount    *float64
	TotalGross   *float64
}

// StatusEvent is a history row waiting to be published.
type StatusEvent struct {
	ID        int64
	HistoryID int64
	RequestID int64
	OldStatus *ProcessStatus
	NewStatus ProcessStatus
	ChangedAt time.Time
	Note      *string
}

// Prompt is a system and user message pair sent to the language model.
type Prompt struct {
	System string
	User   string
}

// Schema is a named JSON schema the model answer must conform to.
type Schema struct {
	Name       string
	Definition map[string]any
}
