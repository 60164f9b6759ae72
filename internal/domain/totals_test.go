package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtotal(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItem
		want  float64
	}{
		{
			name:  "empty list yields zero",
			items: nil,
			want:  0,
		},
		{
			name: "sums rate times quantity",
			items: []LineItem{
				{Rate: 100, Quantity: 2, Taxable: true},
				{Rate: 50, Quantity: 1, Taxable: false},
			},
			want: 250,
		},
		{
			name: "ignores taxable flag",
			items: []LineItem{
				{Rate: 10, Quantity: 3, Taxable: false},
			},
			want: 30,
		},
		{
			name: "zero quantity contributes nothing",
			items: []LineItem{
				{Rate: 999, Quantity: 0, Taxable: true},
				{Rate: 20, Quantity: 1},
			},
			want: 20,
		},
		{
			name: "negative rate propagates as credit line",
			items: []LineItem{
				{Rate: 100, Quantity: 1},
				{Rate: -25, Quantity: 2},
			},
			want: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Subtotal(tt.items), 1e-9)
		})
	}
}

func TestTaxAmount(t *testing.T) {
	tests := []struct {
		name    string
		items   []LineItem
		taxRate float64
		want    float64
	}{
		{
			name: "only taxable items scale with the rate",
			items: []LineItem{
				{Rate: 100, Quantity: 2, Taxable: true},
				{Rate: 50, Quantity: 1, Taxable: false},
			},
			taxRate: 10,
			want:    20, // 10% of 200, exempt item contributes zero
		},
		{
			name: "all exempt yields zero regardless of rate",
			items: []LineItem{
				{Rate: 100, Quantity: 5, Taxable: false},
			},
			taxRate: 25,
			want:    0,
		},
		{
			name:    "empty list yields zero",
			items:   nil,
			taxRate: 10,
			want:    0,
		},
		{
			name: "zero rate yields zero",
			items: []LineItem{
				{Rate: 100, Quantity: 1, Taxable: true},
			},
			taxRate: 0,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TaxAmount(tt.items, tt.taxRate), 1e-9)
		})
	}
}

func TestDiscountAmount(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		discount DiscountRule
		want     float64
	}{
		{
			name:     "percentage scales with subtotal",
			subtotal: 200,
			discount: DiscountRule{Type: DiscountPercentage, Value: 5},
			want:     10,
		},
		{
			name:     "percentage of zero subtotal is zero",
			subtotal: 0,
			discount: DiscountRule{Type: DiscountPercentage, Value: 5},
			want:     0,
		},
		{
			name:     "fixed is constant regardless of subtotal",
			subtotal: 100,
			discount: DiscountRule{Type: DiscountFixed, Value: 500},
			want:     500,
		},
		{
			name:     "fixed may exceed subtotal",
			subtotal: 10,
			discount: DiscountRule{Type: DiscountFixed, Value: 20},
			want:     20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DiscountAmount(tt.subtotal, tt.discount), 1e-9)
		})
	}
}

func TestGrandTotal(t *testing.T) {
	t.Run("mixed taxable items with fixed discount", func(t *testing.T) {
		items := []LineItem{
			{Rate: 100, Quantity: 2, Taxable: true},
			{Rate: 50, Quantity: 1, Taxable: false},
		}
		discount := DiscountRule{Type: DiscountFixed, Value: 20}

		assert.InDelta(t, 250, Subtotal(items), 1e-9)
		assert.InDelta(t, 20, TaxAmount(items, 10), 1e-9)
		assert.InDelta(t, 20, DiscountAmount(Subtotal(items), discount), 1e-9)
		assert.InDelta(t, 250, GrandTotal(items, 10, discount), 1e-9)
	})

	t.Run("empty items yield all zeros", func(t *testing.T) {
		discount := DiscountRule{Type: DiscountPercentage, Value: 5}

		assert.InDelta(t, 0, Subtotal(nil), 1e-9)
		assert.InDelta(t, 0, TaxAmount(nil, 10), 1e-9)
		assert.InDelta(t, 0, DiscountAmount(0, discount), 1e-9)
		assert.InDelta(t, 0, GrandTotal(nil, 10, discount), 1e-9)
	})

	t.Run("fixed discount exceeding subtotal goes negative", func(t *testing.T) {
		items := []LineItem{
			{Rate: 100, Quantity: 1, Taxable: true},
		}
		discount := DiscountRule{Type: DiscountFixed, Value: 500}

		got := GrandTotal(items, 10, discount)
		assert.InDelta(t, -390, got, 1e-9) // 100 + 10 - 500, not clamped
		assert.Less(t, got, 0.0)
	})

	t.Run("permutation of items does not change aggregates", func(t *testing.T) {
		items := []LineItem{
			{ID: "a", Rate: 12.5, Quantity: 3, Taxable: true},
			{ID: "b", Rate: 80, Quantity: 1, Taxable: false},
			{ID: "c", Rate: 7.25, Quantity: 10, Taxable: true},
		}
		shuffled := []LineItem{items[2], items[0], items[1]}
		discount := DiscountRule{Type: DiscountPercentage, Value: 15}

		assert.InDelta(t, Subtotal(items), Subtotal(shuffled), 1e-9)
		assert.InDelta(t, TaxAmount(items, 8), TaxAmount(shuffled, 8), 1e-9)
		assert.InDelta(t, GrandTotal(items, 8, discount), GrandTotal(shuffled, 8, discount), 1e-9)
	})

	t.Run("recomputation is deterministic", func(t *testing.T) {
		items := []LineItem{
			{Rate: 33.33, Quantity: 3, Taxable: true},
			{Rate: 19.99, Quantity: 7, Taxable: false},
		}
		discount := DiscountRule{Type: DiscountPercentage, Value: 12.5}

		first := GrandTotal(items, 7.5, discount)
		second := GrandTotal(items, 7.5, discount)
		assert.Equal(t, first, second)
	})
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{250, "250.00"},
		{0.125, "0.13"},  // exact half rounds up
		{-0.125, "-0.13"}, // halves round away from zero
		{2.375, "2.38"},
		{-390, "-390.00"},
		{1234567.891, "1234567.89"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in), "FormatAmount(%v)", tt.in)
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{999.99, "$999.99"},
		{1000, "$1,000.00"},
		{1234567.89, "$1,234,567.89"},
		{-1234.5, "-$1,234.50"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(tt.in), "FormatMoney(%v)", tt.in)
	}
}
