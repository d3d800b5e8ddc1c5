package order

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/jartiste/smartshop/internal/domain/client"
)

// promoCodePattern matches codes that grant the flat extra discount.
var promoCodePattern = regexp.MustCompile(`^PROMO-[A-Z0-9]{4}$`)

var (
	promoExtraRate = decimal.NewFromFloat(0.05)
	vatRate        = decimal.NewFromFloat(0.20)
)

// ValidPromoCode reports whether code grants the extra promo discount.
// Invalid codes are not an error; they simply grant nothing.
func ValidPromoCode(code string) bool {
	return promoCodePattern.MatchString(code)
}

// Quote holds the computed amounts for an order. All rounded values use two
// decimals, half-up.
type Quote struct {
	SubTotal        decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxAmount       decimal.Decimal
	TotalAmount     decimal.Decimal
	RemainingAmount decimal.Decimal
}

// PriceOrder computes discount, tax, and total for a subtotal given the
// client's tier and an optional promo code.
//
// The discount rate is the tier rate plus a flat 0.05 for a valid promo
// code, added (not compounded). The net amount is floored at zero before the
// flat 20% VAT applies. The total adds the unrounded tax to the net before
// its own rounding, so total and tax can differ in the last cent.
func PriceOrder(tier client.Tier, promoCode string, subTotal decimal.Decimal) Quote {
	rate := client.DiscountRate(tier, subTotal)
	if ValidPromoCode(promoCode) {
		rate = rate.Add(promoExtraRate)
	}

	discount := subTotal.Mul(rate).Round(2)

	net := subTotal.Sub(discount)
	if net.IsNegative() {
		net = decimal.Zero
	}

	tax := net.Mul(vatRate)
	total := net.Add(tax).Round(2)

	return Quote{
		SubTotal:        subTotal,
		DiscountAmount:  discount,
		TaxAmount:       tax.Round(2),
		TotalAmount:     total,
		RemainingAmount: total,
	}
}
