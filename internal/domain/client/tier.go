package client

import "github.com/shopspring/decimal"

// Tier thresholds. Each tier is reached by order count OR cumulative spend,
// whichever comes first.
var (
	platinumSpend = decimal.NewFromInt(15000)
	goldSpend     = decimal.NewFromInt(5000)
	silverSpend   = decimal.NewFromInt(1000)
)

const (
	platinumOrders = 20
	goldOrders     = 10
	silverOrders   = 3
)

// Subtotal thresholds below which a tier grants no discount.
var (
	silverDiscountMin   = decimal.NewFromInt(500)
	goldDiscountMin     = decimal.NewFromInt(800)
	platinumDiscountMin = decimal.NewFromInt(1200)
)

var (
	rateSilver   = decimal.NewFromFloat(0.05)
	rateGold     = decimal.NewFromFloat(0.10)
	ratePlatinum = decimal.NewFromFloat(0.15)
)

// TierFor maps confirmed-order stats to a loyalty tier. Checks run top-down
// and the first matching tier wins.
func TierFor(orderCount int, totalSpent decimal.Decimal) Tier {
	switch {
	case orderCount >= platinumOrders || totalSpent.GreaterThanOrEqual(platinumSpend):
		return TierPlatinum
	case orderCount >= goldOrders || totalSpent.GreaterThanOrEqual(goldSpend):
		return TierGold
	case orderCount >= silverOrders || totalSpent.GreaterThanOrEqual(silverSpend):
		return TierSilver
	default:
		return TierBasic
	}
}

// DiscountRate returns the discount rate a client of the given tier earns on
// an order with the given subtotal. Only the client's current tier threshold
// is checked; rates are not cumulative across tiers.
func DiscountRate(tier Tier, subTotal decimal.Decimal) decimal.Decimal {
	switch tier {
	case TierSilver:
		if subTotal.GreaterThanOrEqual(silverDiscountMin) {
			return rateSilver
		}
	case TierGold:
		if subTotal.GreaterThanOrEqual(goldDiscountMin) {
			return rateGold
		}
	case TierPlatinum:
		if subTotal.GreaterThanOrEqual(platinumDiscountMin) {
			return ratePlatinum
		}
	}
	return decimal.Zero
}
