package client

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		name   string
		orders int
		spent  string
		want   Tier
	}{
		{"new client", 0, "0", TierBasic},
		{"below all thresholds", 2, "999.99", TierBasic},
		{"silver by orders", 3, "0", TierSilver},
		{"silver by spend", 0, "1000", TierSilver},
		{"gold by orders", 10, "0", TierGold},
		{"gold by spend", 1, "5000", TierGold},
		{"platinum by orders", 20, "0", TierPlatinum},
		{"platinum by spend", 0, "15000", TierPlatinum},
		{"platinum wins over gold", 25, "6000", TierPlatinum},
		{"spend just under gold", 3, "4999.99", TierSilver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TierFor(tt.orders, dec(tt.spent))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscountRate(t *testing.T) {
	tests := []struct {
		name     string
		tier     Tier
		subTotal string
		want     string
	}{
		{"basic never discounts", TierBasic, "100000", "0"},
		{"silver below threshold", TierSilver, "499.99", "0"},
		{"silver at threshold", TierSilver, "500", "0.05"},
		{"gold below threshold", TierGold, "799.99", "0"},
		{"gold at threshold", TierGold, "800", "0.1"},
		{"platinum below threshold", TierPlatinum, "1199.99", "0"},
		{"platinum at threshold", TierPlatinum, "1200", "0.15"},
		// A gold client with a subtotal above the silver threshold but below
		// the gold one gets nothing: thresholds are not cumulative.
		{"gold does not fall back to silver", TierGold, "600", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountRate(tt.tier, dec(tt.subTotal))
			assert.True(t, dec(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestApplyConfirmedOrder(t *testing.T) {
	c := &Client{Tier: TierBasic, TotalSpent: decimal.Zero}

	c.ApplyConfirmedOrder(dec("400"))
	assert.Equal(t, 1, c.TotalOrders)
	assert.Equal(t, TierBasic, c.Tier)

	c.ApplyConfirmedOrder(dec("700"))
	assert.Equal(t, 2, c.TotalOrders)
	assert.True(t, dec("1100").Equal(c.TotalSpent))
	assert.Equal(t, TierSilver, c.Tier, "spend threshold promotes before order count")

	c.ApplyConfirmedOrder(dec("13900"))
	assert.Equal(t, TierPlatinum, c.Tier)
}
