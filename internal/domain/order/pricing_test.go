package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jartiste/smartshop/internal/domain/client"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValidPromoCode(t *testing.T) {
	valid := []string{"PROMO-AB12", "PROMO-0000", "PROMO-ZZZZ"}
	for _, code := range valid {
		assert.True(t, ValidPromoCode(code), code)
	}

	invalid := []string{
		"", "PROMO-ab12", "PROMO-AB1", "PROMO-AB123",
		"PROMO_AB12", "XPROMO-AB12", "PROMO-AB12X", "promo-AB12",
	}
	for _, code := range invalid {
		assert.False(t, ValidPromoCode(code), code)
	}
}

func TestPriceOrder(t *testing.T) {
	tests := []struct {
		name         string
		tier         client.Tier
		promoCode    string
		subTotal     string
		wantDiscount string
		wantTax      string
		wantTotal    string
	}{
		{
			// Gold client, one 1000 laptop, no promo: 10% discount,
			// net 900, 20% VAT.
			name: "gold laptop", tier: client.TierGold, subTotal: "1000",
			wantDiscount: "100.00", wantTax: "180.00", wantTotal: "1080.00",
		},
		{
			name: "basic no discount", tier: client.TierBasic, subTotal: "1000",
			wantDiscount: "0.00", wantTax: "200.00", wantTotal: "1200.00",
		},
		{
			name: "gold below threshold", tier: client.TierGold, subTotal: "799.99",
			wantDiscount: "0.00", wantTax: "160.00", wantTotal: "959.99",
		},
		{
			// 0.05 promo adds to the tier rate instead of compounding:
			// 15% of 1000 = 150.
			name: "gold with promo", tier: client.TierGold, promoCode: "PROMO-AB12",
			subTotal: "1000", wantDiscount: "150.00", wantTax: "170.00", wantTotal: "1020.00",
		},
		{
			name: "basic with promo", tier: client.TierBasic, promoCode: "PROMO-1234",
			subTotal: "200", wantDiscount: "10.00", wantTax: "38.00", wantTotal: "228.00",
		},
		{
			name: "malformed promo grants nothing", tier: client.TierBasic, promoCode: "PROMO-ab12",
			subTotal: "200", wantDiscount: "0.00", wantTax: "40.00", wantTotal: "240.00",
		},
		{
			// Platinum at 1200 with promo: 20% of 1234.56 = 246.912,
			// rounded half-up to 246.91.
			name: "rounding half up", tier: client.TierPlatinum, promoCode: "PROMO-WXYZ",
			subTotal: "1234.56", wantDiscount: "246.91", wantTax: "197.53", wantTotal: "1185.18",
		},
		{
			name: "zero subtotal", tier: client.TierGold, subTotal: "0",
			wantDiscount: "0.00", wantTax: "0.00", wantTotal: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := PriceOrder(tt.tier, tt.promoCode, dec(tt.subTotal))

			assert.True(t, dec(tt.wantDiscount).Equal(q.DiscountAmount),
				"discount: want %s, got %s", tt.wantDiscount, q.DiscountAmount)
			assert.True(t, dec(tt.wantTax).Equal(q.TaxAmount),
				"tax: want %s, got %s", tt.wantTax, q.TaxAmount)
			assert.True(t, dec(tt.wantTotal).Equal(q.TotalAmount),
				"total: want %s, got %s", tt.wantTotal, q.TotalAmount)
			assert.True(t, q.TotalAmount.Equal(q.RemainingAmount),
				"remaining starts at total")
		})
	}
}
