// Package factor implements C1, the factor kernel: fixed-rate compounding,
// monthly inflation compounding with partial-month prorating, and daily
// variable-rate compounding over business-day windows.
package factor

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inco-org/fincore-go/index"
	"github.com/inco-org/fincore-go/utils"
)

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// Shift selects how far back of base_date an inflation accumulation window
// starts, absorbing the publication lag of monthly inflation indexes.
type Shift int

const (
	// ShiftAuto resolves to ShiftOneMonth, the policy this engine uses
	// absent an explicit override.
	ShiftAuto Shift = iota
	ShiftOneMonth
	ShiftTwoMonths
)

func (s Shift) months() int {
	switch s {
	case ShiftTwoMonths:
		return 2
	case ShiftOneMonth, ShiftAuto:
		return 1
	default:
		return 1
	}
}

// InterestFactor returns (1 + rate/100)^period when isPercent is true, or
// (1 + rate)^period otherwise. Results are memoized by (rate, period,
// isPercent) since the daily-return engine calls this once per day with
// frequently repeated arguments.
func InterestFactor(rate, period decimal.Decimal, isPercent bool) decimal.Decimal {
	key := cacheKey{rate: rate.String(), period: period.String(), isPercent: isPercent}
	if v, ok := factorCache.get(key); ok {
		return v
	}

	base := rate
	if isPercent {
		base = one.Add(rate.Div(hundred))
	} else {
		base = one.Add(rate)
	}
	result := powDecimal(base, period)
	factorCache.put(key, result)
	return result
}

// CDIFactor accumulates product(1 + percentage/100 × daily_rate/100) over
// business days in [begin, end), returning the factor and the number of
// business days (callers pairing variable compounding with a 252-business-
// day fixed rate need both).
func CDIFactor(backend index.Backend, begin, end time.Time, percentage decimal.Decimal) (decimal.Decimal, int, error) {
	values, err := backend.GetDailyIndexes(index.CDI, begin, end)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("factor: CDIFactor: %w", err)
	}

	result := one
	pctFrac := percentage.Div(hundred)
	for _, v := range values {
		dailyFrac := v.Value.Div(hundred)
		result = result.Mul(one.Add(pctFrac.Mul(dailyFrac)))
	}
	return result, len(values), nil
}

// SavingsFactor accumulates the savings index over monthly ranged windows
// anchored at begin's day-of-month, applying percentage to each window.
func SavingsFactor(backend index.Backend, begin, end time.Time, percentage decimal.Decimal) (decimal.Decimal, error) {
	windows, err := backend.GetSavingsIndexes(begin, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("factor: SavingsFactor: %w", err)
	}

	result := one
	pctFrac := percentage.Div(hundred)
	for _, w := range windows {
		monthlyFrac := w.Value.Div(hundred)
		result = result.Mul(one.Add(pctFrac.Mul(monthlyFrac)))
	}
	return result, nil
}

// IPCAFactor retrieves `period` consecutive monthly inflation indexes
// starting at baseDate shifted backward by shift months, compounds them,
// and raises the final factor to ratio for partial-month prorating.
func IPCAFactor(backend index.Backend, code index.Code, baseDate time.Time, period int, shift Shift, ratio decimal.Decimal) (decimal.Decimal, error) {
	if period < 1 {
		return decimal.Zero, fmt.Errorf("factor: IPCAFactor: period must be >= 1, got %d", period)
	}

	start := utils.AddMonth(baseDate, -shift.months())
	startMonth := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	endMonth := startMonth.AddDate(0, period, 0)

	rows, err := backend.GetMonthlyIndexes(code, startMonth, endMonth)
	if err != nil {
		return decimal.Zero, fmt.Errorf("factor: IPCAFactor: %w", err)
	}

	result := one
	for _, r := range rows {
		result = result.Mul(one.Add(r.Value.Div(hundred)))
	}
	return powDecimal(result, ratio), nil
}

// ClampFloor1 clamps a variable factor to 1 for output-facing consumption:
// the principal is never deflated. The unclamped value should still be
// used internally for daily-component reporting.
func ClampFloor1(f decimal.Decimal) decimal.Decimal {
	if f.LessThan(one) {
		return one
	}
	return f
}

// powDecimal raises base to a (possibly fractional) exponent. Fractional
// real exponentiation has no exact finite-decimal representation, so the
// computation bridges through float64 (≈17 significant digits, vastly more
// precision than the two-decimal-place quantization the engine applies at
// output) and converts back immediately; every other arithmetic operation
// in the engine stays in exact decimal.
func powDecimal(base, exp decimal.Decimal) decimal.Decimal {
	b, _ := base.Float64()
	e, _ := exp.Float64()
	return decimal.NewFromFloat(math.Pow(b, e))
}
