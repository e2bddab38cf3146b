package dto

import "github.com/polkiloo/procurement/internal/domain/taxonomy"

// TextIntakeRequest carries pasted offer text.
type TextIntakeRequest struct {
	Text    string `json:"text"`
	Title   string `json:"title"`
	Consent bool   `json:"consent"`
}

// OfferDraftResponse is an autofill proposal.
type OfferDraftResponse struct {
	VendorName   string         `json:"vendor_name"`
	VendorVATID  string         `json:"vendor_vat_id"`
	Department   string         `json:"department"`
	Title        string         `json:"title"`
	Currency     string         `json:"currency"`
	OrderLines   []LineResponse `json:"order_lines"`
	Subtotal     float64        `json:"subtotal"`
	PositionsNet *float64       `json:"positions_net"`
	ShippingNet  *float64       `json:"shipping_net"`
	TaxAmount    *float64       `json:"tax_amount"`
	TotalGross   *float64       `json:"total_gross"`
}

// LinesRequest carries raw order lines for a preview.
type LinesRequest struct {
	OrderLines []OrderLine `json:"order_lines"`
}

// LinesResponse is the cleaned preview of order lines.
type LinesResponse struct {
	OrderLines []LineResponse `json:"order_lines"`
	Subtotal   float64        `json:"subtotal"`
}

// ClassifyRequest carries the context used for classification.
type ClassifyRequest struct {
	Title      string      `json:"title"`
	VendorName string      `json:"vendor_name"`
	OrderLines []OrderLine `json:"order_lines"`
}

// TaxonomyResponse lists the commodity groups.
type TaxonomyResponse struct {
	Version string           `json:"version"`
	Entries []taxonomy.Entry `json:"entries"`
}
