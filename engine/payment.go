package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/inco-org/fincore-go/amort"
	"github.com/inco-org/fincore-go/engineconfig"
	"github.com/inco-org/fincore-go/index"
	"github.com/inco-org/fincore-go/tax"
)

var centi = decimal.RequireFromString("0.01")

// GetPaymentsTable is the payment engine (C5): it iterates consecutive
// pairs of schedule entries, computes per-period factors, maintains the
// ledgers, and emits one PriceAdjustedPayment (a Payment plus the PLA
// field) per period.
//
// When vir codes an inflation index, every returned Payment's PLA field
// is populated; callers that only need the plain Payment shape can embed
// it and ignore PLA.
func GetPaymentsTable(
	principal, apy decimal.Decimal,
	entries []amort.Entry,
	vir *VariableIndex,
	dayCount DayCount,
	calcDate *amort.CalcDate,
	taxExempt bool,
	gainOutput GainOutputMode,
) ([]PriceAdjustedPayment, error) {
	if principal.IsZero() {
		return nil, nil
	}
	if principal.IsPositive() && principal.LessThan(centi) {
		return nil, fmt.Errorf("engine: GetPaymentsTable: principal must be at least 0.01")
	}
	if len(entries) < 2 {
		return nil, fmt.Errorf("engine: GetPaymentsTable: at least two amortizations are required")
	}
	if vir == nil && dayCount == DayCount252 {
		return nil, fmt.Errorf("engine: GetPaymentsTable: fixed interest rates should not use the 252 business-day convention")
	}
	if vir != nil && vir.Code == index.CDI && dayCount != DayCount252 {
		return nil, fmt.Errorf("engine: GetPaymentsTable: CDI should use the 252 business-day convention")
	}

	cfg := engineconfig.GetConfig()
	sumRatio := decimal.Zero
	for _, e := range entries {
		if !e.IsScheduled() {
			continue
		}
		sumRatio = sumRatio.Add(e.Scheduled.AmortizationRatio)
		if e.Scheduled.PriceLevelAdjustment != nil && (vir == nil || !index.IsInflation(vir.Code)) {
			return nil, fmt.Errorf("engine: GetPaymentsTable: entry on %s has a price level adjustment, but no inflation-coded variable index was provided", e.Scheduled.Date.Format("2006-01-02"))
		}
	}
	if sumRatio.Sub(one).Abs().GreaterThan(cfg.RatioTolerance) {
		return nil, fmt.Errorf("engine: GetPaymentsTable: scheduled amortization ratios sum to %s, not 1", sumRatio)
	}

	resolvedCalcDate := calcDate
	if resolvedCalcDate == nil {
		resolvedCalcDate = &amort.CalcDate{Value: entries[len(entries)-1].Date(), Runaway: false}
	}
	zeroDate := entries[0].Date()

	var ledgers Ledgers
	var out []PriceAdjustedPayment

	for num := 1; num < len(entries); num++ {
		ent0, ent1 := entries[num-1], entries[num]
		if ent0.Date().After(resolvedCalcDate.Value) && !resolvedCalcDate.Runaway {
			break
		}

		due := ent1.Date()
		if resolvedCalcDate.Value.Before(due) {
			due = resolvedCalcDate.Value
		}

		inWindow := ent0.Date().Before(resolvedCalcDate.Value) || !ent1.Date().After(resolvedCalcDate.Value) || resolvedCalcDate.Runaway
		if !inWindow {
			continue
		}

		// Past the calc date (runaway mode) factors freeze: the factor
		// window never ends before the period starts.
		factorEnd := due
		if factorEnd.Before(ent0.Date()) {
			factorEnd = ent0.Date()
		}

		fs, fc, err := phaseFactors(apy, dayCount, vir, zeroDate, ent0, ent1, num, ent0.Date(), factorEnd)
		if err != nil {
			return out, err
		}

		balanceBefore := ledgers.balance(principal, fc)
		ledgers.Interest.accrue(balanceBefore.Mul(fs.Sub(one)))

		var plaThisPeriod decimal.Decimal

		if ent1.IsScheduled() {
			adj := ledgers.Principal.adjustmentFactor()
			ledgers.Principal.applyCurrent(ent1.Scheduled.AmortizationRatio.Mul(adj), principal)
			ledgers.Principal.applyRegular(ent1.Scheduled.AmortizationRatio)

			if ent1.Scheduled.AmortizesInterest {
				ledgers.Interest.settle(ledgers.Interest.Current.Add(ledgers.Principal.RatioCurrent.Mul(ledgers.Interest.Deferred)))
			}
		} else {
			bare := ent1.Unscheduled
			// plfv is deliberately left scaled by the decimal 1 rather than
			// the current amortization ratio, preserving a quirk of the
			// reference prepayment decomposition rather than "fixing" it.
			plfv := principal.Mul(one.Sub(ledgers.Principal.RatioCurrent)).Mul(fc.Sub(one)).Mul(one)

			val := bare.Value
			if bare.MaxValue {
				val = ledgers.balance(principal, fc)
			} else if val.GreaterThan(ledgers.balance(principal, fc).Round(cfg.QuantizationScale)) {
				return out, fmt.Errorf("engine: GetPaymentsTable: prepayment value %s on %s exceeds outstanding balance", val, bare.Date.Format("2006-01-02"))
			}

			val0 := decimal.Min(val, ledgers.balance(principal, fc))
			val1 := decimal.Min(val0, ledgers.Interest.Accrued.Sub(ledgers.Interest.SettledTotal))
			val2 := decimal.Min(val0.Sub(val1), plfv)
			val3 := val0.Sub(val1).Sub(val2)

			ledgers.Principal.applyCurrent(val3.Div(principal), principal)
			ledgers.Interest.settle(val1)
			plaThisPeriod = val2
		}

		bal := ledgers.balance(principal, fc)

		var gain decimal.Decimal
		switch gainOutput {
		case GainDeferred:
			gain = ledgers.Interest.Deferred.Add(ledgers.Interest.Current)
		case GainSettled:
			if ent1.IsScheduled() {
				if ent1.Scheduled.AmortizesInterest {
					gain = ledgers.Interest.SettledCurrent
				}
			} else {
				gain = ledgers.Interest.SettledCurrent
			}
		default:
			gain = ledgers.Interest.Current
		}

		var raw, taxAmt decimal.Decimal
		amortAmt := ledgers.Principal.AmortizedCurrent

		if ent1.IsScheduled() {
			amortizesInterest := ent1.Scheduled.AmortizesInterest
			switch {
			case !amortAmt.IsZero() && amortizesInterest:
				raw = amortAmt.Add(ledgers.Interest.SettledCurrent)
				rate, terr := tax.RevenueTaxRate(zeroDate, due)
				if terr != nil {
					return out, terr
				}
				taxAmt = ledgers.Interest.SettledCurrent.Mul(rate).Div(decimal.NewFromInt(100))
			case !amortAmt.IsZero():
				raw = amortAmt
			case amortizesInterest:
				raw = ledgers.Interest.SettledCurrent
				rate, terr := tax.RevenueTaxRate(zeroDate, due)
				if terr != nil {
					return out, terr
				}
				taxAmt = ledgers.Interest.SettledCurrent.Mul(rate).Div(decimal.NewFromInt(100))
			}
		} else {
			raw = amortAmt.Add(ledgers.Interest.SettledCurrent)
			rate, terr := tax.RevenueTaxRate(zeroDate, due)
			if terr != nil {
				return out, terr
			}
			taxAmt = ledgers.Interest.SettledCurrent.Mul(rate).Div(decimal.NewFromInt(100))
		}

		if vir != nil && index.IsInflation(vir.Code) {
			pla := amortAmt.Mul(fc.Sub(one))
			if !ent1.IsScheduled() {
				pla = plaThisPeriod
			}
			raw = raw.Add(pla)
			rate, terr := tax.RevenueTaxRate(zeroDate, due)
			if terr != nil {
				return out, terr
			}
			taxAmt = taxAmt.Add(pla.Mul(rate).Div(decimal.NewFromInt(100)))
			plaThisPeriod = pla
		}

		if taxExempt {
			taxAmt = decimal.Zero
		}

		scale := cfg.QuantizationScale
		payment := PriceAdjustedPayment{
			Payment: Payment{
				No:    num,
				Date:  due,
				Amort: amortAmt.Round(scale),
				Gain:  gain.Round(scale),
				Raw:   raw.Round(scale),
				Tax:   taxAmt.Round(scale),
				Bal:   bal.Round(scale),
			},
		}
		payment.Net = payment.Raw.Sub(payment.Tax)
		if vir != nil && index.IsInflation(vir.Code) {
			payment.PLA = plaThisPeriod.Round(scale)
		}

		out = append(out, payment)

		if payment.Bal.IsZero() {
			break
		}
	}

	return out, nil
}
