package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inco-org/fincore-go/amort"
	"github.com/inco-org/fincore-go/calendar"
	"github.com/inco-org/fincore-go/engineconfig"
	"github.com/inco-org/fincore-go/factor"
	"github.com/inco-org/fincore-go/index"
	"github.com/inco-org/fincore-go/utils"
)

// GetDailyReturns is the daily-return engine (C6): it walks every
// calendar day from the zero date up to (but excluding) the schedule's
// last date, recomputing per-day factors and applying scheduled or
// unscheduled events as their dates are reached.
func GetDailyReturns(principal, apy decimal.Decimal, entries []amort.Entry, vir *VariableIndex, dayCount DayCount) ([]DailyReturn, error) {
	if principal.IsZero() {
		return nil, nil
	}
	if principal.IsPositive() && principal.LessThan(centi) {
		return nil, fmt.Errorf("engine: GetDailyReturns: principal must be at least 0.01")
	}
	if len(entries) < 2 {
		return nil, fmt.Errorf("engine: GetDailyReturns: at least two amortizations are required")
	}
	if vir == nil && dayCount == DayCount252 {
		return nil, fmt.Errorf("engine: GetDailyReturns: fixed interest rates should not use the 252 business-day convention")
	}
	if vir != nil && vir.Code == index.CDI && dayCount != DayCount252 {
		return nil, fmt.Errorf("engine: GetDailyReturns: CDI should use the 252 business-day convention")
	}
	if vir != nil && index.IsInflation(vir.Code) {
		return nil, newNotImplementedError("daily-return normalization of inflation indexes is not implemented")
	}

	zeroDate := entries[0].Date()
	lastDate := entries[len(entries)-1].Date()

	var cdiDaily map[string]decimal.Decimal
	var savingsDaily map[string]decimal.Decimal

	switch {
	case vir != nil && vir.Code == index.CDI:
		rows, err := vir.Backend.GetDailyIndexes(index.CDI, zeroDate, lastDate)
		if err != nil {
			return nil, fmt.Errorf("engine: GetDailyReturns: %w", err)
		}
		cdiDaily = make(map[string]decimal.Decimal, len(rows))
		for _, r := range rows {
			cdiDaily[r.Date.Format("2006-01-02")] = r.Value
		}

	case vir != nil && vir.Code == index.Poupanca:
		windows, err := vir.Backend.GetSavingsIndexes(zeroDate, lastDate)
		if err != nil {
			return nil, fmt.Errorf("engine: GetDailyReturns: %w", err)
		}
		savingsDaily = map[string]decimal.Decimal{}
		for _, w := range windows {
			days := utils.DaysBetween(w.From, w.To)
			if days <= 0 {
				continue
			}
			dailyFactor := factor.InterestFactor(w.Value, decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(days))), true).Sub(one)
			init, end := w.From, w.To
			if init.Before(zeroDate) {
				init = zeroDate
			}
			if end.After(lastDate) {
				end = lastDate
			}
			for d := init; d.Before(end); d = d.AddDate(0, 0, 1) {
				savingsDaily[d.Format("2006-01-02")] = dailyFactor
			}
		}
	}

	cfg := engineconfig.GetConfig()
	var ledgers Ledgers
	var out []DailyReturn

	idx := 0
	period, no := 1, 1

	for ref := zeroDate; ref.Before(lastDate); ref = ref.AddDate(0, 0, 1) {
		fs, fv, fc := one, one, one

		switch {
		case vir == nil && dayCount == DayCount360:
			fs = factor.InterestFactor(apy, decimal.NewFromInt(1).Div(decimal.NewFromInt(360)), true)

		case vir == nil && dayCount == DayCount365:
			fs = factor.InterestFactor(apy, decimal.NewFromInt(1).Div(decimal.NewFromInt(365)), true)

		case vir == nil && dayCount == DayCount30360:
			monthlyRate := factor.InterestFactor(apy, decimal.NewFromInt(1).Div(decimal.NewFromInt(12)), true).Sub(one)
			periodDays := daily30360PeriodDays(entries, idx, period, ref, zeroDate)
			fs = factor.InterestFactor(monthlyRate, decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(periodDays))), false)

		case vir != nil && vir.Code == index.CDI && dayCount == DayCount252:
			rate, ok := cdiDaily[ref.Format("2006-01-02")]
			if !ok || !calendar.IsBusinessDay(calendar.BR, ref) {
				rate = decimal.Zero
			}
			fv = rate.Mul(vir.Percentage).Div(decimal.NewFromInt(100)).Add(one)
			if fv.GreaterThan(one) {
				fs = factor.InterestFactor(apy, decimal.NewFromInt(1).Div(decimal.NewFromInt(252)), true)
			}

		case vir != nil && vir.Code == index.Poupanca && dayCount == DayCount360:
			fs = factor.InterestFactor(apy, decimal.NewFromInt(1).Div(decimal.NewFromInt(360)), true)
			rate := savingsDaily[ref.Format("2006-01-02")]
			fv = rate.Mul(vir.Percentage).Div(decimal.NewFromInt(100)).Add(one)

		case vir != nil:
			return out, newNotImplementedError("variable index %s with day-count %d is not supported in the daily engine", vir.Code, dayCount)

		default:
			return out, newNotImplementedError("day-count %d for a fixed-rate operation is not supported in the daily engine", dayCount)
		}

		for idx+1 < len(entries) && ref.Equal(entries[idx+1].Date()) {
			next := entries[idx+1]

			if next.IsScheduled() {
				adj := ledgers.Principal.adjustmentFactor()
				ledgers.Principal.applyCurrent(next.Scheduled.AmortizationRatio.Mul(adj), principal)
				ledgers.Principal.applyRegular(next.Scheduled.AmortizationRatio)

				if next.Scheduled.AmortizesInterest {
					ledgers.Interest.settleDaily(ledgers.Interest.Current.Add(ledgers.Principal.RatioCurrent.Mul(ledgers.Interest.Deferred)))
				}
				ledgers.Interest.resetCurrent()
				period++
				no = 1
			} else {
				bare := next.Unscheduled
				plfv := principal.Mul(one.Sub(ledgers.Principal.RatioCurrent)).Mul(fc.Sub(one)).Mul(one)
				bal := ledgers.balance(principal, fc)

				val := bare.Value
				if bare.MaxValue {
					val = bal
				} else if val.GreaterThan(bal.Round(cfg.QuantizationScale)) {
					return out, fmt.Errorf("engine: GetDailyReturns: prepayment value %s on %s exceeds outstanding balance", val, bare.Date.Format("2006-01-02"))
				}

				val0 := decimal.Min(val, bal)
				val1 := decimal.Min(val0, ledgers.Interest.Accrued.Sub(ledgers.Interest.SettledTotal))
				val2 := decimal.Min(val0.Sub(val1), plfv)
				val3 := val0.Sub(val1).Sub(val2)

				ledgers.Principal.applyCurrent(val3.Div(principal), principal)
				ledgers.Interest.settleDaily(val1)
				ledgers.Interest.resetCurrent()
			}

			idx++
		}

		balance := ledgers.balance(principal, fc)
		dailyAccrual := balance.Mul(fs.Mul(fv).Mul(fc).Sub(one))
		ledgers.Interest.accrueDaily(dailyAccrual)

		if ledgers.balance(principal, fc).Round(cfg.QuantizationScale).IsZero() {
			break
		}

		out = append(out, DailyReturn{
			No:             no,
			Period:         period,
			Date:           ref,
			Value:          dailyAccrual.Round(cfg.QuantizationScale),
			Bal:            ledgers.balance(principal, fc).Round(cfg.QuantizationScale),
			FixedFactor:    fs,
			VariableFactor: fv.Mul(fc),
		})
		no++
	}

	return out, nil
}

// daily30360PeriodDays resolves the "days in this period" divisor the
// 30/360 daily engine needs, absorbing anniversary drift on period 1.
func daily30360PeriodDays(entries []amort.Entry, idx, period int, ref, zeroDate time.Time) int {
	next := entries[idx+1]

	if period == 1 && (!next.IsScheduled() || ref.Before(next.Date())) {
		return utils.DaysBetween(entries[0].Date(), entries[1].Date())
	}
	if ref.Equal(next.Date()) {
		return utils.DaysInMonth(next.Date())
	}
	return utils.DaysInMonth(entries[idx].Date())
}
