package engine

import "github.com/shopspring/decimal"

// LatePayment extends Payment with the extra fields a late-settlement
// rendering needs: additional interest gained past the due date, a
// monthly late-fee penalty accrual, and a one-time fine. No late-fee
// policy is computed here; this is a plain data carrier for a caller
// that already knows these amounts.
type LatePayment struct {
	Payment
	ExtraGain decimal.Decimal
	Penalty   decimal.Decimal
	Fine      decimal.Decimal
}

// LatePriceAdjustedPayment is the inflation-adjusted counterpart of
// LatePayment.
type LatePriceAdjustedPayment struct {
	PriceAdjustedPayment
	ExtraGain decimal.Decimal
	Penalty   decimal.Decimal
	Fine      decimal.Decimal
}
