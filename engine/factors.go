package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inco-org/fincore-go/amort"
	"github.com/inco-org/fincore-go/factor"
	"github.com/inco-org/fincore-go/index"
	"github.com/inco-org/fincore-go/utils"
)

var warnLegacy365 sync.Once

// diffSurroundingDays returns the day count the 30/360 first period uses:
// the span between the two 24th-of-month dates bracketing base.
func diffSurroundingDays(base time.Time) int {
	from, to := utils.TwentyFourthSurrounding(base)
	return utils.DaysBetween(from, to)
}

// resolveDCT resolves the day-count-total convention: when a prepayment or
// inflation metadata carries a DctOverride, the period's day-count-total
// must use the original scheduled endpoints rather than the insertion date.
func resolveDCT(num int, ent0Override, ent1Override *amort.DctOverride, ent0Date, ent1Date time.Time) int {
	dct := utils.DaysBetween(ent0Date, ent1Date)

	if ent1Override != nil && num == 1 {
		dct = diffSurroundingDays(ent0Date)
	} else if ent1Override != nil {
		dct = utils.DaysBetween(ent1Override.DateFrom, ent1Override.DateTo)
		if ent1Override.PredatesFirstAmortization {
			dct = diffSurroundingDays(ent1Override.DateFrom)
		}
	}

	if ent0Override != nil {
		dct = utils.DaysBetween(ent0Override.DateFrom, ent1Date)
		if ent0Override.PredatesFirstAmortization {
			dct = diffSurroundingDays(ent0Override.DateFrom)
		}
	}

	return dct
}

// phaseFactors computes the spread factor fs and correction factor fc for
// one period, dispatching on day-count convention and variable index.
func phaseFactors(
	apy decimal.Decimal,
	dayCount DayCount,
	vir *VariableIndex,
	zeroDate time.Time,
	ent0, ent1 amort.Entry,
	num int,
	ent0Date, due time.Time,
) (fs, fc decimal.Decimal, err error) {
	fs, fc = one, one

	// A scheduled entry's override only describes the period it closes, so
	// only an unscheduled entry carries its override into the next period.
	var ent0Override, ent1Override *amort.DctOverride
	if !ent0.IsScheduled() {
		ent0Override = ent0.Unscheduled.DctOverride
	}
	if ent1.IsScheduled() {
		ent1Override = ent1.Scheduled.DctOverride
	} else {
		ent1Override = ent1.Unscheduled.DctOverride
	}

	switch {
	case vir == nil && dayCount == DayCount360:
		dcp := utils.DaysBetween(ent0Date, due)
		fs = factor.InterestFactor(apy, decimal.NewFromInt(int64(dcp)).Div(decimal.NewFromInt(360)), true)

	case vir == nil && dayCount == DayCount365:
		warnLegacy365.Do(func() {
			log.Println("engine: the 365-day-per-year Bullet convention is legacy-only and should not be used for new operations")
		})
		dcp := utils.DaysBetween(ent0Date, due)
		fs = factor.InterestFactor(apy, decimal.NewFromInt(int64(dcp)).Div(decimal.NewFromInt(365)), true)

	case vir == nil && dayCount == DayCount30360:
		dcp := utils.DaysBetween(ent0Date, due)
		dct := resolveDCT(num, ent0Override, ent1Override, ent0Date, ent1.Date())
		// A zero-day period (a prepayment on a scheduled date) accrues nothing.
		if dct > 0 {
			fs = factor.InterestFactor(apy, decimal.NewFromInt(int64(dcp)).Div(decimal.NewFromInt(12).Mul(decimal.NewFromInt(int64(dct)))), true)
		}

	case vir != nil && vir.Code == index.CDI && dayCount == DayCount252:
		cdiFactor, businessDays, cdiErr := factor.CDIFactor(vir.Backend, ent0Date, due, vir.Percentage)
		if cdiErr != nil {
			return zero, zero, fmt.Errorf("engine: phaseFactors: %w", cdiErr)
		}
		fs = factor.InterestFactor(apy, decimal.NewFromInt(int64(businessDays)).Div(decimal.NewFromInt(252)), true).Mul(cdiFactor)

	case vir != nil && vir.Code == index.Poupanca && dayCount == DayCount360:
		savingsFactor, savErr := factor.SavingsFactor(vir.Backend, ent0Date, due, vir.Percentage)
		if savErr != nil {
			return zero, zero, fmt.Errorf("engine: phaseFactors: %w", savErr)
		}
		dcp := utils.DaysBetween(ent0Date, due)
		fs = factor.InterestFactor(apy, decimal.NewFromInt(int64(dcp)).Div(decimal.NewFromInt(360)), true).Mul(savingsFactor)

	case vir != nil && index.IsInflation(vir.Code) && dayCount == DayCount360:
		dcp := utils.DaysBetween(ent0Date, due)
		fs = factor.InterestFactor(apy, decimal.NewFromInt(int64(dcp)).Div(decimal.NewFromInt(360)), true)

		fc, err = inflationFactorFor360(vir, zeroDate, ent1)
		if err != nil {
			return zero, zero, err
		}

	case vir != nil && index.IsInflation(vir.Code) && dayCount == DayCount30360:
		dct := resolveDCT(num, ent0Override, ent1Override, ent0Date, ent1.Date())
		dcp := utils.DaysBetween(ent0Date, due)
		fs = factor.InterestFactor(apy, decimal.NewFromInt(int64(dcp)).Div(decimal.NewFromInt(12).Mul(decimal.NewFromInt(int64(dct)))), true)

		if !ent1.IsScheduled() || ent1.Scheduled.PriceLevelAdjustment != nil {
			fc, err = inflationFactorFor30360(vir, zeroDate, ent0Date, due, ent1, num, ent0Override, ent1Override)
			if err != nil {
				return zero, zero, err
			}
		}

	case vir != nil:
		return zero, zero, newNotImplementedError("variable index %s with day-count %d is not supported", vir.Code, dayCount)

	default:
		return zero, zero, newNotImplementedError("day-count %d for a fixed-rate operation is not supported", dayCount)
	}

	return fs, fc, nil
}

func inflationFactorFor360(vir *VariableIndex, zeroDate time.Time, ent1 amort.Entry) (decimal.Decimal, error) {
	if ent1.IsScheduled() && ent1.Scheduled.PriceLevelAdjustment != nil {
		pla := ent1.Scheduled.PriceLevelAdjustment
		f, err := factor.IPCAFactor(vir.Backend, vir.Code, pla.BaseDate, pla.Period, toFactorShift(pla.Shift), one)
		if err != nil {
			return zero, fmt.Errorf("engine: inflationFactorFor360: %w", err)
		}
		return factor.ClampFloor1(f), nil
	}

	if !ent1.IsScheduled() {
		// Correction owed on a prepayment: one monthly index per calendar
		// month between the zero date and the prepayment, starting one
		// month before the zero date's month.
		base := time.Date(zeroDate.Year(), zeroDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		period := deltaMonths(ent1.Date(), zeroDate)
		f, err := factor.IPCAFactor(vir.Backend, vir.Code, base, period, factor.ShiftOneMonth, one)
		if err != nil {
			return zero, fmt.Errorf("engine: inflationFactorFor360: %w", err)
		}
		return factor.ClampFloor1(f), nil
	}

	return one, nil
}

func inflationFactorFor30360(vir *VariableIndex, zeroDate, ent0Date, due time.Time, ent1 amort.Entry, num int, ent0Override, ent1Override *amort.DctOverride) (decimal.Decimal, error) {
	dcp := utils.DaysBetween(ent0Date, due)
	dct := resolveDCT(num, ent0Override, ent1Override, ent0Date, ent1.Date())
	ratio := decimal.NewFromInt(int64(dcp)).Div(decimal.NewFromInt(int64(dct)))

	var base time.Time
	var period int
	if ent1.IsScheduled() && ent1.Scheduled.PriceLevelAdjustment != nil {
		base = ent1.Scheduled.PriceLevelAdjustment.BaseDate
		period = ent1.Scheduled.PriceLevelAdjustment.Period
	} else {
		base = time.Date(zeroDate.Year(), zeroDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		period = deltaMonths(ent1.Date(), zeroDate)
	}

	f, err := factor.IPCAFactor(vir.Backend, vir.Code, base, period, factor.ShiftOneMonth, ratio)
	if err != nil {
		return zero, fmt.Errorf("engine: inflationFactorFor30360: %w", err)
	}
	return factor.ClampFloor1(f), nil
}

func deltaMonths(d1, d2 time.Time) int {
	months := (d1.Year()-d2.Year())*12 + int(d1.Month()) - int(d2.Month())
	if months < 1 {
		months = 1
	}
	return months
}

func toFactorShift(s amort.Shift) factor.Shift {
	switch s {
	case amort.ShiftTwoMonths:
		return factor.ShiftTwoMonths
	case amort.ShiftOneMonth:
		return factor.ShiftOneMonth
	default:
		return factor.ShiftAuto
	}
}
