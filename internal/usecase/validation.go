package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/polkiloo/procurement/internal/domain/model"
)

const minVATIDLength = 8

// ValidateSubmission checks a request before it may be stored as Submitted.
// Every rule is evaluated; the result lists all problems and is empty for a valid request.
func ValidateSubmission(header model.RequestHeader, lines []model.OrderLine, subtotal float64) []string {
	var problems []string

	required := []struct {
		field string
		value string
	}{
		{"requestor_name", header.RequestorName},
		{"department", header.Department},
		{"title", header.Title},
		{"vendor_name", header.VendorName},
		{"vendor_vat_id", header.VendorVATID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			problems = append(problems, "required field missing: "+r.field)
		}
	}

	if len([]rune(strings.TrimSpace(header.VendorVATID))) < minVATIDLength {
		problems = append(problems, "vendor_vat_id looks too short, please check it")
	}

	if len(lines) == 0 {
		problems = append(problems, "at least one order line is required")
	}
	for i, l := range lines {
		n := i + 1
		if strings.TrimSpace(l.Description) == "" {
			problems = append(problems, fmt.Sprintf("order line %d: description is missing", n))
		}
		if !(l.UnitPrice > 0) {
			problems = append(problems, fmt.Sprintf("order line %d: unit price must be > 0", n))
		}
		if !(l.Quantity > 0) {
			problems = append(problems, fmt.Sprintf("order line %d: quantity must be > 0", n))
		}
		if saturated(l.LineTotal) {
			problems = append(problems, fmt.Sprintf("order line %d: total is out of range", n))
		}
	}

	if !(header.TotalCost > 0) {
		problems = append(problems, "total cost must be > 0")
	}
	if saturated(subtotal) {
		problems = append(problems, "sum of order lines is out of range")
	}
	if header.TotalCost < RoundCents(subtotal) {
		problems = append(problems, "total cost is less than the sum of order lines (shipping or tax missing?)")
	}

	return problems
}

func saturated(v float64) bool {
	return math.Abs(v) >= math.MaxFloat64
}
