package amort

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/inco-org/fincore-go/factor"
	"github.com/inco-org/fincore-go/tax"
)

var fullRatio = decimal.NewFromInt(1)

// InflationSpec configures the single inflation-indexed entry a Bullet
// schedule may carry.
type InflationSpec struct {
	Code                string
	AmortizesAdjustment bool
}

// PreprocessBullet builds the two-entry canonical schedule for a Bullet
// stereotype: principal and all interest due at term. An anniversary date
// shifts only the terminal date; a redundant anniversary (zeroDate + 1
// month) is silently dropped. calcDate, when given on an inflation-indexed
// operation, truncates the inflation accumulation period to the number of
// calendar months from zeroDate's month to calcDate's month (the day of
// month is ignored) when that is shorter than the full term.
func PreprocessBullet(zeroDate time.Time, termMonths int, anniversary *time.Time, inflation *InflationSpec, prepayments []Bare, calcDate *CalcDate) ([]Entry, error) {
	if err := validateTerm(termMonths); err != nil {
		return nil, err
	}

	terminal := zeroDate.AddDate(0, termMonths, 0)
	var dctOverride *DctOverride

	if anniversary != nil {
		redundant, err := validateAnniversary(zeroDate, *anniversary)
		if err != nil {
			return nil, err
		}
		if !redundant {
			dctOverride = &DctOverride{DateFrom: zeroDate, DateTo: terminal}
			terminal = *anniversary
		}
	}

	if err := validatePrepayments(zeroDate, terminal, prepayments); err != nil {
		return nil, err
	}

	terminalEntry := Amortization{
		Date:              terminal,
		AmortizationRatio: fullRatio,
		AmortizesInterest: true,
		DctOverride:       dctOverride,
	}
	if inflation != nil {
		period := termMonths
		if calcDate != nil {
			if dm := deltaMonths(calcDate.Value, zeroDate); dm < period {
				period = dm
			}
		}
		terminalEntry.PriceLevelAdjustment = &PriceLevelAdjustment{
			Code:                inflation.Code,
			BaseDate:            zeroDate,
			Period:              period,
			Shift:               ShiftOneMonth,
			AmortizesAdjustment: inflation.AmortizesAdjustment,
		}
	}

	scheduled := []Amortization{
		{Date: zeroDate, AmortizationRatio: decimal.Zero, AmortizesInterest: false},
		terminalEntry,
	}

	for i := range prepayments {
		prepayments[i].DctOverride = &DctOverride{DateFrom: zeroDate, DateTo: terminal, PredatesFirstAmortization: true}
	}

	return Interleave(scheduled, prepayments)
}

// PreprocessMonthlyInterest builds a zero date followed by `term` monthly
// interest-only entries, the last of which amortizes all principal. An
// anniversary date shifts the anchor of every subsequent monthly date.
func PreprocessMonthlyInterest(zeroDate time.Time, term int, anniversary *time.Time, prepayments []Bare) ([]Entry, error) {
	if err := validateTerm(term); err != nil {
		return nil, err
	}

	anchor := zeroDate.AddDate(0, 1, 0)
	var dctOverride *DctOverride
	if anniversary != nil {
		redundant, err := validateAnniversary(zeroDate, *anniversary)
		if err != nil {
			return nil, err
		}
		if !redundant {
			dctOverride = &DctOverride{DateFrom: zeroDate, DateTo: anchor, PredatesFirstAmortization: true}
			anchor = *anniversary
		}
	}

	scheduled := make([]Amortization, 0, term+1)
	scheduled = append(scheduled, Amortization{Date: zeroDate, AmortizationRatio: decimal.Zero, AmortizesInterest: false})

	for i := 1; i <= term; i++ {
		entry := Amortization{
			Date:              monthlyAnchorDate(zeroDate, anchor, i),
			AmortizationRatio: decimal.Zero,
			AmortizesInterest: true,
		}
		if i == 1 {
			entry.DctOverride = dctOverride
		}
		if i == term {
			entry.AmortizationRatio = fullRatio
		}
		scheduled = append(scheduled, entry)
	}

	if err := validateUniqueDates(scheduled); err != nil {
		return nil, err
	}
	if err := validatePrepayments(zeroDate, scheduled[len(scheduled)-1].Date, prepayments); err != nil {
		return nil, err
	}

	return Interleave(scheduled, prepayments)
}

// PreprocessPrice builds a zero date followed by `term` monthly entries
// whose amortization_ratio values are generated by the Price-table
// closed-form solver (C7).
func PreprocessPrice(zeroDate time.Time, term int, apy decimal.Decimal, prepayments []Bare) ([]Entry, error) {
	if err := validateTerm(term); err != nil {
		return nil, err
	}

	ratios, err := tax.PriceInstallmentRatios(apy, term, func(rate decimal.Decimal) decimal.Decimal {
		twelfth := decimal.NewFromInt(1).Div(decimal.NewFromInt(12))
		return factor.InterestFactor(rate, twelfth, true)
	})
	if err != nil {
		return nil, err
	}

	scheduled := make([]Amortization, 0, term+1)
	scheduled = append(scheduled, Amortization{Date: zeroDate, AmortizationRatio: decimal.Zero, AmortizesInterest: false})

	for i := 1; i <= len(ratios); i++ {
		ratio := ratios[i-1]
		if i == len(ratios) {
			// Last installment absorbs any residual from rounding the
			// closed-form solution so the schedule sums exactly to 1.
			sum := decimal.Zero
			for _, r := range ratios[:i-1] {
				sum = sum.Add(r)
			}
			ratio = fullRatio.Sub(sum)
		}
		scheduled = append(scheduled, Amortization{
			Date:              zeroDate.AddDate(0, i, 0),
			AmortizationRatio: ratio,
			AmortizesInterest: true,
		})
	}

	if err := validateUniqueDates(scheduled); err != nil {
		return nil, err
	}
	if err := validatePrepayments(zeroDate, scheduled[len(scheduled)-1].Date, prepayments); err != nil {
		return nil, err
	}

	return Interleave(scheduled, prepayments)
}

// PreprocessFree validates and interleaves a caller-supplied schedule
// without generating any entries of its own.
func PreprocessFree(scheduled []Amortization, prepayments []Bare) ([]Entry, error) {
	if len(scheduled) < 2 {
		return nil, newValidationError("scheduled", "at least two entries are required: the zero date and the terminal date")
	}
	if err := validateUniqueDates(scheduled); err != nil {
		return nil, err
	}

	sum := decimal.Zero
	for _, e := range scheduled {
		sum = sum.Add(e.AmortizationRatio)
	}
	tolerance := decimal.RequireFromString("0.000000001")
	if sum.Sub(fullRatio).Abs().GreaterThan(tolerance) {
		return nil, newValidationError("amortization_ratio", "sum of ratios %s does not equal 1 within tolerance", sum)
	}

	if err := validatePrepayments(scheduled[0].Date, scheduled[len(scheduled)-1].Date, prepayments); err != nil {
		return nil, err
	}

	return Interleave(scheduled, prepayments)
}

// deltaMonths returns the number of months between d1 and d2, ignoring the
// day of month; negative when d2 is after d1.
func deltaMonths(d1, d2 time.Time) int {
	return (d1.Year()-d2.Year())*12 + int(d1.Month()) - int(d2.Month())
}

// monthlyAnchorDate returns the i-th monthly date anchored at `anchor`
// (the post-anniversary-shift first payment), preserving the
// anniversary's day-of-month for every subsequent installment.
func monthlyAnchorDate(zeroDate, anchor time.Time, i int) time.Time {
	if i == 1 {
		return anchor
	}
	return anchor.AddDate(0, i-1, 0)
}
