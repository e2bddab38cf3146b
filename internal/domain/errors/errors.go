package errors

import (
	"errors"
	"strings"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidStatus         = errors.New("invalid process status")
	ErrInvalidSubmitStatus   = errors.New("invalid submit status")
	ErrInvalidCurrency       = errors.New("invalid currency")
	ErrUnknownCommodityGroup = errors.New("unknown commodity group")
	ErrOracleUnavailable     = errors.New("oracle unavailable")
	ErrExtractionFailed      = errors.New("offer extraction failed")
	ErrConsentRequired       = errors.New("consent to external processing required")
	ErrUnsupportedDocument   = errors.New("unsupported document type")
)

// ValidationError lists every rule a submission broke.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}
