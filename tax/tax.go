// Package tax implements C7, the auxiliary math shared by the engine:
// revenue-tax bracket lookup and the Price-table constant-installment
// amortization-ratio generator.
package tax

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// bracket is one row of the revenue-tax table: holding periods of
// (min, max] days are taxed at Rate percent.
type bracket struct {
	maxDays int // 0 means unbounded
	rate    decimal.Decimal
}

var brackets = []bracket{
	{maxDays: 180, rate: decimal.RequireFromString("22.5")},
	{maxDays: 360, rate: decimal.RequireFromString("20")},
	{maxDays: 720, rate: decimal.RequireFromString("17.5")},
	{maxDays: 0, rate: decimal.RequireFromString("15")},
}

// RevenueTaxRate returns the fixed-income revenue-tax rate, in percent,
// applicable to a holding period from begin to end. The range must be
// positive; a zero or negative range is a caller error.
func RevenueTaxRate(begin, end time.Time) (decimal.Decimal, error) {
	days := int(end.Sub(begin).Hours() / 24)
	if days <= 0 {
		return decimal.Zero, fmt.Errorf("tax: RevenueTaxRate: holding period must be positive, got %d days", days)
	}

	for _, b := range brackets {
		if b.maxDays == 0 || days <= b.maxDays {
			return b.rate, nil
		}
	}
	return brackets[len(brackets)-1].rate, nil
}

// PriceInstallmentRatios solves for the constant installment of a
// Price-table schedule and returns the per-period amortization_ratio
// values as a slice, stopping when the balance reaches zero (at most
// `term` values are produced).
//
// f = interest_factor(apy, 1/12); P = principal·(f−1)/(1−f^(−term)).
// Each period amortizes `P − bal·(f−1)` of principal; ratio_i =
// amortized_i / principal.
func PriceInstallmentRatios(apy decimal.Decimal, term int, monthlyFactor func(rate decimal.Decimal) decimal.Decimal) ([]decimal.Decimal, error) {
	if term < 1 {
		return nil, fmt.Errorf("tax: PriceInstallmentRatios: term must be >= 1, got %d", term)
	}

	f := monthlyFactor(apy)
	fMinus1 := f.Sub(one)

	// f^(-term), computed via repeated division since term is a small
	// positive integer (at most a few hundred months in practice).
	fPowNegTerm := one
	for i := 0; i < term; i++ {
		fPowNegTerm = fPowNegTerm.Div(f)
	}

	// Installment as a fraction of principal (principal cancels out of
	// every subsequent ratio computation, so we track balance in
	// principal-fraction units starting at 1).
	installmentFrac := fMinus1.Div(one.Sub(fPowNegTerm))

	ratios := make([]decimal.Decimal, 0, term)
	bal := one
	for i := 0; i < term && bal.GreaterThan(decimal.Zero); i++ {
		amortizedFrac := installmentFrac.Sub(bal.Mul(fMinus1))
		if amortizedFrac.GreaterThan(bal) {
			amortizedFrac = bal
		}
		ratios = append(ratios, amortizedFrac)
		bal = bal.Sub(amortizedFrac)
	}
	return ratios, nil
}
