package dto

import (
	"time"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// OrderLine describes a raw order line payload. Prices and quantities may be
// numbers or locale formatted strings.
type OrderLine struct {
	Description string       `json:"description"`
	UnitPrice   model.Amount `json:"unit_price"`
	Quantity    model.Amount `json:"quantity"`
	Unit        string       `json:"unit"`
}

// CreateRequest describes a new procurement request. An empty submit_status means Submitted.
type CreateRequest struct {
	RequestorName    string       `json:"requestor_name"`
	Department       string       `json:"department"`
	Title            string       `json:"title"`
	VendorName       string       `json:"vendor_name"`
	VendorVATID      string       `json:"vendor_vat_id"`
	Currency         string       `json:"currency"`
	CommodityGroupID string       `json:"commodity_group_id"`
	TotalCost        model.Amount `json:"total_cost"`
	PositionsNet     model.Amount `json:"positions_net"`
	ShippingNet      model.Amount `json:"shipping_net"`
	TaxAmount        model.Amount `json:"tax_amount"`
	OrderLines       []OrderLine  `json:"order_lines"`
	SubmitStatus     string       `json:"submit_status"`
}

// LineResponse is a stored or previewed order line.
type LineResponse struct {
	ID          int64   `json:"id,omitempty"`
	RequestID   int64   `json:"request_id,omitempty"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	LineTotal   float64 `json:"line_total"`
}

// SubmitResponse describes a stored request.
type SubmitResponse struct {
	ID             int64                 `json:"id"`
	OrderLines     []LineResponse        `json:"order_lines"`
	Subtotal       float64               `json:"subtotal"`
	Classification *model.Classification `json:"classification,omitempty"`
}

// RequestResponse is a request header.
type RequestResponse struct {
	ID                 int64     `json:"id"`
	RequestorName      string    `json:"requestor_name"`
	Department         string    `json:"department"`
	Title              string    `json:"title"`
	VendorName         string    `json:"vendor_name"`
	VendorVATID        string    `json:"vendor_vat_id"`
	Currency           string    `json:"currency"`
	CommodityGroupID   string    `json:"commodity_group_id"`
	CommodityGroupName string    `json:"commodity_group_name"`
	TotalCost          float64   `json:"total_cost"`
	PositionsNet       *float64  `json:"positions_net"`
	ShippingNet        *float64  `json:"shipping_net"`
	TaxAmount          *float64  `json:"tax_amount"`
	TotalIsGross       bool      `json:"total_is_gross"`
	SubmitStatus       string    `json:"submit_status"`
	ProcessStatus      string    `json:"process_status"`
	CreatedAt          time.Time `json:"created_at"`
}

// StatusResponse carries the current process status.
type StatusResponse struct {
	Status string `json:"status"`
}

// TransitionRequest asks for a new process status.
type TransitionRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// TransitionResponse reports the status before and after a transition.
type TransitionResponse struct {
	PreviousStatus string `json:"previous_status"`
	Status         string `json:"status"`
}

// HistoryResponse is one status history entry.
type HistoryResponse struct {
	ID        int64     `json:"id"`
	OldStatus *string   `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedAt time.Time `json:"changed_at"`
	Note      *string   `json:"note"`
}

// ErrorsResponse lists validation problems.
type ErrorsResponse struct {
	Errors []string `json:"errors"`
}
