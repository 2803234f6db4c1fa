package engine

import "github.com/shopspring/decimal"

var (
	zero = decimal.Zero
	one  = decimal.NewFromInt(1)
)

// principalLedger tracks the fraction of original principal amortized so
// far, both including prepayments (current) and scheduled entries only
// (regular) — the two quantities whose ratio drives the post-prepayment
// adjustment factor.
type principalLedger struct {
	RatioCurrent     decimal.Decimal
	RatioRegular     decimal.Decimal
	AmortizedCurrent decimal.Decimal
	AmortizedTotal   decimal.Decimal
}

// applyCurrent registers `ratio` of principal as amortized this period,
// clamping so the cumulative ratio never exceeds 1.
func (p *principalLedger) applyCurrent(ratio, principal decimal.Decimal) {
	if p.RatioCurrent.Add(ratio).GreaterThan(one) {
		ratio = one.Sub(p.RatioCurrent)
	}
	if ratio.IsZero() {
		p.AmortizedCurrent = zero
		return
	}
	p.RatioCurrent = p.RatioCurrent.Add(ratio)
	p.AmortizedCurrent = ratio.Mul(principal)
	p.AmortizedTotal = p.RatioCurrent.Mul(principal)
}

func (p *principalLedger) applyRegular(ratio decimal.Decimal) {
	if p.RatioRegular.Add(ratio).GreaterThan(one) {
		ratio = one.Sub(p.RatioRegular)
	}
	if !ratio.IsZero() {
		p.RatioRegular = p.RatioRegular.Add(ratio)
	}
}

// adjustmentFactor scales remaining scheduled ratios after a partial
// prepayment by (1-current)/(1-regular), so payments stay proportional to
// the reduced outstanding principal.
func (p *principalLedger) adjustmentFactor() decimal.Decimal {
	denom := one.Sub(p.RatioRegular)
	if denom.IsZero() {
		return one
	}
	return one.Sub(p.RatioCurrent).Div(denom)
}

// interestLedger tracks interest accrued, settled (paid), and deferred
// (accrued but not yet settled) since the zero date.
type interestLedger struct {
	Current        decimal.Decimal
	Accrued        decimal.Decimal
	Deferred       decimal.Decimal
	SettledCurrent decimal.Decimal
	SettledTotal   decimal.Decimal
}

func (i *interestLedger) accrue(amount decimal.Decimal) {
	i.Current = amount
	i.Accrued = i.Accrued.Add(amount)
	i.Deferred = i.Accrued.Sub(i.Current.Add(i.SettledTotal))
}

func (i *interestLedger) settle(amount decimal.Decimal) {
	i.SettledCurrent = amount
	i.SettledTotal = i.SettledTotal.Add(amount)
}

// accrueDaily adds one day's interest to the period-accumulating Current
// register (the daily engine resets Current at each period boundary,
// unlike the payment engine's per-period accrue).
func (i *interestLedger) accrueDaily(amount decimal.Decimal) {
	i.Current = i.Current.Add(amount)
	i.Accrued = i.Accrued.Add(amount)
	i.Deferred = i.Accrued.Sub(i.Current.Add(i.SettledTotal))
}

// settleDaily settles interest at a period boundary in the daily engine,
// also draining the settled amount back out of Current.
func (i *interestLedger) settleDaily(amount decimal.Decimal) {
	i.SettledCurrent = amount
	i.SettledTotal = i.SettledTotal.Add(amount)
	i.Current = i.Current.Sub(amount)
}

func (i *interestLedger) resetCurrent() {
	i.Current = zero
}

// Ledgers bundles the principal and interest registers the payment and
// daily-return engines mutate in place, one record per engine invocation.
type Ledgers struct {
	Principal principalLedger
	Interest  interestLedger
}

// balance computes the outstanding balance given this period's
// correction factor fc.
func (l *Ledgers) balance(principal, fc decimal.Decimal) decimal.Decimal {
	return principal.Mul(fc).
		Add(l.Interest.Accrued).
		Sub(l.Principal.AmortizedTotal.Mul(fc)).
		Sub(l.Interest.SettledTotal)
}
