package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const percentMarker = "%"

// amountNoise holds the currency glyphs and group separators stripped before parsing.
var amountNoise = strings.NewReplacer("¥", "", "￥", "", ",", "")

const (
	reasonNotNumber = "not a number"
	reasonNotFinite = "not a finite number"
)

// ParseAmount converts free text such as "¥30,000" into an amount. It never fails:
// anything that does not parse yields zero. Negative values are returned as-is.
func ParseAmount(text string) Money {
	m, _ := parseAmount(text)
	return m
}

// ParseDiscount reads a discount token. A trailing percent marker selects a
// percentage; a malformed percentage degrades to Absolute(0), not Percent(0).
// Anything else is read like ParseAmount.
func ParseDiscount(text string) Discount {
	d, _ := parseDiscount(text)
	return d
}

// parseAmount reports a non-empty reason when text was present but unusable.
// Blank input is zero without a reason.
func parseAmount(text string) (Money, string) {
	cleaned := strings.TrimSpace(amountNoise.Replace(text))
	return parseNumber(cleaned)
}

func parseDiscount(text string) (Discount, string) {
	trimmed := strings.TrimSpace(text)
	if prefix, ok := strings.CutSuffix(trimmed, percentMarker); ok {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			return Absolute(decimal.Zero), reasonNotNumber
		}
		v, reason := parseNumber(prefix)
		if reason != "" {
			return Absolute(decimal.Zero), reason
		}
		return Percent(v), ""
	}
	v, reason := parseAmount(trimmed)
	return Absolute(v), reason
}

func parseNumber(s string) (Money, string) {
	if s == "" {
		return decimal.Zero, ""
	}
	s, ok := decimalDigits(s)
	if !ok {
		return decimal.Zero, reasonNotNumber
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return decimal.Zero, reasonNotNumber
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, reasonNotFinite
	}
	return decimal.NewFromFloat(f), ""
}

// decimalDigits narrows ParseFloat to decimal notation: hex literals are
// refused and a single underscore between two digits is dropped, so "1_000"
// reads as 1000.
func decimalDigits(s string) (string, bool) {
	if strings.ContainsAny(s, "xX") {
		return "", false
	}
	if !strings.Contains(s, "_") {
		return s, true
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b.WriteByte(s[i])
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", false
		}
	}
	return b.String(), true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
