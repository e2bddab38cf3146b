package model

import (
	"strings"
	"time"
)

// ProcessStatus describes where the procurement team is with a request.
type ProcessStatus string

const (
	ProcessStatusOpen       ProcessStatus = "Open"
	ProcessStatusInProgress ProcessStatus = "In Progress"
	ProcessStatusClosed     ProcessStatus = "Closed"
)

// Valid reports whether s is one of the known statuses.
func (s ProcessStatus) Valid() bool {
	switch s {
	case ProcessStatusOpen, ProcessStatusInProgress, ProcessStatusClosed:
		return true
	}
	return false
}

// ParseProcessStatus matches s against the known statuses ignoring case and surrounding space.
func ParseProcessStatus(s string) (ProcessStatus, bool) {
	for _, st := range []ProcessStatus{ProcessStatusOpen, ProcessStatusInProgress, ProcessStatusClosed} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// SubmitStatus is fixed when a request is created.
type SubmitStatus string

const (
	SubmitStatusDraft     SubmitStatus = "Draft"
	SubmitStatusSubmitted SubmitStatus = "Submitted"
)

// Valid reports whether s is Draft or Submitted.
func (s SubmitStatus) Valid() bool {
	return s == SubmitStatusDraft || s == SubmitStatusSubmitted
}

// Currency is an ISO code accepted for requests.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
)

// ParseCurrency normalises s and reports whether it is supported.
func ParseCurrency(s string) (Currency, bool) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CurrencyEUR, CurrencyUSD, CurrencyGBP:
		return c, true
	}
	return "", false
}

// RequestHeader carries the form fields of a request.
// Empty commodity fields mean the group is not chosen yet.
type RequestHeader struct {
	RequestorName      string
	Department         string
	Title              string
	VendorName         string
	VendorVATID        string
	Currency           Currency
	CommodityGroupID   string
	CommodityGroupName string
	TotalCost          float64
	PositionsNet       *float64
	ShippingNet        *float64
	TaxAmount          *float64
}

// Request is a persisted procurement request.
type Request struct {
	ID int64
	RequestHeader
	SubmitStatus  SubmitStatus
	ProcessStatus ProcessStatus
	TotalIsGross  bool
	CreatedAt     time.Time
}

// RawLine is an order line as typed or extracted, before cleaning.
type RawLine struct {
	Description string `json:"description"`
	UnitPrice   Amount `json:"unit_price"`
	Quantity    Amount `json:"quantity"`
	Unit        string `json:"unit"`
}

// OrderLine is a cleaned line item. LineTotal is always derived from price and quantity.
type OrderLine struct {
	ID          int64
	RequestID   int64
	Description string
	UnitPrice   float64
	Quantity    float64
	Unit        string
	LineTotal   float64
}

// StatusHistoryEntry records one change of ProcessStatus.
type StatusHistoryEntry struct {
	ID        int64
	RequestID int64
	OldStatus *ProcessStatus
	NewStatus ProcessStatus
	ChangedAt time.Time
	Note      *string
}

// RequestInput is what a caller hands over to create a request.
type RequestInput struct {
	Header       RequestHeader
	Lines        []RawLine
	SubmitStatus SubmitStatus
}

// SubmitResult describes a stored request.
type SubmitResult struct {
	ID             int64
	Lines          []OrderLine
	Subtotal       float64
	Classification *Classification
}
