package usecase

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// AggregateLines cleans raw order lines and returns them with their subtotal.
// Missing or non-numeric prices and quantities count as 0; negative values pass through.
// Totals beyond the float64 range saturate at ±math.MaxFloat64.
func AggregateLines(raw []model.RawLine) ([]model.OrderLine, float64) {
	lines := make([]model.OrderLine, 0, len(raw))
	subtotal := decimal.Zero
	for _, r := range raw {
		price := r.UnitPrice.Float()
		qty := r.Quantity.Float()
		total := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(qty)).Round(2)
		subtotal = subtotal.Add(total)

		lines = append(lines, model.OrderLine{
			Description: strings.TrimSpace(r.Description),
			UnitPrice:   price,
			Quantity:    qty,
			Unit:        strings.TrimSpace(r.Unit),
			LineTotal:   toFloat(total),
		})
	}
	return lines, toFloat(subtotal.Round(2))
}

// RoundCents rounds v to two decimal places, half away from zero.
func RoundCents(v float64) float64 {
	return toFloat(decimal.NewFromFloat(v).Round(2))
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	if math.IsInf(f, 0) {
		return math.Copysign(math.MaxFloat64, f)
	}
	return f
}
