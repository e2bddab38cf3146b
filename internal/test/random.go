package test

import (
	"math"
	"math/rand/v2"

	"github.com/polkiloo/procurement/internal/domain/model"
)

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var units = []string{"pcs", "h", "m", "kg", "licence", ""}

// RandomASCIIString returns a pseudo-random ASCII string within the provided bounds.
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen + rand.IntN(maxLen-minLen+1)
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = asciiLetters[rand.IntN(len(asciiLetters))]
	}
	return string(buf)
}

// RandomRawLines builds n order lines with cent prices and quarter quantities.
func RandomRawLines(n int) []model.RawLine {
	lines := make([]model.RawLine, n)
	for i := range lines {
		price := math.Round(rand.Float64()*500000) / 100
		qty := float64(rand.IntN(80)) / 4
		lines[i] = model.RawLine{
			Description: RandomASCIIString(3, 24),
			UnitPrice:   model.NewAmount(price),
			Quantity:    model.NewAmount(qty),
			Unit:        units[rand.IntN(len(units))],
		}
	}
	return lines
}
