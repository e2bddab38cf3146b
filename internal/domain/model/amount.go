package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Amount is a number that may arrive as a JSON number, a locale formatted
// string or null. Unparseable input decodes to an invalid Amount, never an error.
type Amount struct {
	Value float64
	Valid bool
}

// NewAmount wraps v as a valid Amount.
func NewAmount(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

// Float returns the value, or 0 when the amount is missing.
func (a Amount) Float() float64 {
	if !a.Valid {
		return 0
	}
	return a.Value
}

// Ptr returns nil for a missing amount.
func (a Amount) Ptr() *float64 {
	if !a.Valid {
		return nil
	}
	v := a.Value
	return &v
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if v, ok := ParseAmount(s); ok {
			*a = NewAmount(v)
		}
	default:
		if v, err := strconv.ParseFloat(string(data), 64); err == nil && isFinite(v) {
			*a = NewAmount(v)
		}
	}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

var currencyTokens = strings.NewReplacer(
	"€", "", "$", "", "£", "",
	"EUR", "", "USD", "", "GBP", "",
	"Euro", "", "euro", "",
)

// ParseAmount reads numbers such as "1.234,56 €", "EUR 12,5" or "$1,200.00".
// A comma is the decimal separator unless a dot follows the last comma.
func ParseAmount(s string) (float64, bool) {
	s = currencyTokens.Replace(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0, false
	}

	if comma := strings.LastIndex(s, ","); comma >= 0 {
		if dot := strings.LastIndex(s, "."); dot > comma {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
