package domain

import (
	"fmt"
	"math"
	"strings"
)

// Totals arithmetic for estimates. All functions are pure and accumulate
// in full floating precision; rounding happens only at formatting time.
// These are the single source of truth for every figure the API returns
// and the renderer prints.

// Subtotal sums rate x quantity over all items, ignoring the taxable
// flag. An empty list yields 0.
func Subtotal(items []LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Amount()
	}
	return sum
}

// TaxAmount sums rate x quantity x taxRatePercent/100 over taxable items
// only. Tax gating is per item: an exempt item contributes zero tax no
// matter the configured rate.
func TaxAmount(items []LineItem, taxRatePercent float64) float64 {
	var sum float64
	for _, item := range items {
		if item.Taxable {
			sum += item.Amount() * taxRatePercent / 100
		}
	}
	return sum
}

// DiscountAmount resolves a discount rule against a subtotal. A fixed
// discount is returned verbatim and may exceed the subtotal.
func DiscountAmount(subtotal float64, discount DiscountRule) float64 {
	if discount.Type == DiscountPercentage {
		return subtotal * discount.Value / 100
	}
	return discount.Value
}

// GrandTotal is subtotal + tax - discount. A fixed discount larger than
// subtotal plus tax produces a negative result, which is accepted and
// never clamped.
func GrandTotal(items []LineItem, taxRatePercent float64, discount DiscountRule) float64 {
	subtotal := Subtotal(items)
	return subtotal + TaxAmount(items, taxRatePercent) - DiscountAmount(subtotal, discount)
}

// roundHalfUp rounds to 2 fraction digits, halves away from zero.
func roundHalfUp(v float64) float64 {
	if v < 0 {
		return -math.Floor(-v*100+0.5) / 100
	}
	return math.Floor(v*100+0.5) / 100
}

// FormatAmount renders a monetary value with exactly 2 fraction digits,
// half-up, no grouping. Used for stored totals.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", roundHalfUp(v))
}

// FormatMoney renders a monetary value for display: "$1,234.56", with
// thousands grouping in the integer part.
func FormatMoney(v float64) string {
	s := FormatAmount(v)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	return sign + "$" + b.String() + fracPart
}
