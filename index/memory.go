package index

import (
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inco-org/fincore-go/calendar"
)

// InMemoryBackend is a reference backend over hard-coded tables, suitable
// for tests and for callers that manage their own data refresh.
// It implements the projection-once policy for the daily (CDI) index.
type InMemoryBackend struct {
	mu sync.Mutex

	daily    map[string]decimal.Decimal // "2006-01-02" -> CDI daily rate (percent)
	monthly  map[Code]map[string]decimal.Decimal
	savings  map[string]decimal.Decimal // first-of-month "2006-01" -> monthly savings rate
	horizon  time.Time                  // last date with real (non-projected) daily data
	projected bool
}

// NewInMemoryBackend builds a backend from explicit tables. A nil table for
// a given shape means "no data of that shape".
func NewInMemoryBackend(daily map[string]decimal.Decimal, monthly map[Code]map[string]decimal.Decimal, savings map[string]decimal.Decimal) *InMemoryBackend {
	if daily == nil {
		daily = map[string]decimal.Decimal{}
	}
	if monthly == nil {
		monthly = map[Code]map[string]decimal.Decimal{}
	}
	if savings == nil {
		savings = map[string]decimal.Decimal{}
	}

	horizon := time.Time{}
	for k := range daily {
		d, err := time.Parse("2006-01-02", k)
		if err == nil && d.After(horizon) {
			horizon = d
		}
	}

	return &InMemoryBackend{daily: daily, monthly: monthly, savings: savings, horizon: horizon}
}

func (b *InMemoryBackend) GetDailyIndexes(code Code, begin, end time.Time) ([]DailyIndex, error) {
	if !IsOvernight(code) {
		return nil, newBackendError(ErrNoData, code, "GetDailyIndexes: not a daily index")
	}
	if len(b.daily) == 0 {
		return nil, newBackendError(ErrNoData, code, "no daily indexes loaded")
	}
	if begin.After(b.horizon) {
		b.mu.Lock()
		alreadyProjected := b.projected
		b.projected = true
		b.mu.Unlock()
		if alreadyProjected {
			return nil, newBackendError(ErrDoubleProjection, code, "window %s..%s requires a second forward projection past horizon %s",
				begin.Format("2006-01-02"), end.Format("2006-01-02"), b.horizon.Format("2006-01-02"))
		}
	}

	lastKnown, ok := b.daily[b.horizon.Format("2006-01-02")]
	if !ok {
		return nil, newBackendError(ErrDataHorizon, code, "no value at horizon %s", b.horizon.Format("2006-01-02"))
	}

	var out []DailyIndex
	sawProjection := false
	for d := begin; d.Before(end); d = d.AddDate(0, 0, 1) {
		if !calendar.IsBusinessDay(calendar.BR, d) {
			continue
		}
		if d.After(b.horizon) {
			if !sawProjection {
				sawProjection = true
				b.mu.Lock()
				alreadyProjected := b.projected
				b.projected = true
				b.mu.Unlock()
				if alreadyProjected {
					return nil, newBackendError(ErrDoubleProjection, code, "window %s..%s requires a second forward projection past horizon %s",
						begin.Format("2006-01-02"), end.Format("2006-01-02"), b.horizon.Format("2006-01-02"))
				}
			}
			log.Printf("index: projecting %s on %s forward from horizon %s", code, d.Format("2006-01-02"), b.horizon.Format("2006-01-02"))
			out = append(out, DailyIndex{Date: d, Value: lastKnown, Projected: true})
			continue
		}
		v, ok := b.daily[d.Format("2006-01-02")]
		if !ok {
			return nil, newBackendError(ErrDataHorizon, code, "missing published value for business day %s", d.Format("2006-01-02"))
		}
		out = append(out, DailyIndex{Date: d, Value: v})
	}
	return out, nil
}

func (b *InMemoryBackend) GetMonthlyIndexes(code Code, begin, end time.Time) ([]MonthlyIndex, error) {
	table, ok := b.monthly[code]
	if !ok || len(table) == 0 {
		return nil, newBackendError(ErrNoData, code, "no monthly indexes loaded")
	}

	var out []MonthlyIndex
	for m := time.Date(begin.Year(), begin.Month(), 1, 0, 0, 0, 0, time.UTC); m.Before(end); m = m.AddDate(0, 1, 0) {
		v, ok := table[m.Format("2006-01")]
		if !ok {
			return nil, newBackendError(ErrDataHorizon, code, "missing monthly value for %s", m.Format("2006-01"))
		}
		out = append(out, MonthlyIndex{Month: m, Value: v})
	}
	return out, nil
}

func (b *InMemoryBackend) GetSavingsIndexes(begin, end time.Time) ([]RangedIndex, error) {
	if len(b.savings) == 0 {
		return nil, newBackendError(ErrNoData, Poupanca, "no savings indexes loaded")
	}

	var out []RangedIndex
	windowStart := begin
	for windowStart.Before(end) {
		anchorDay := begin.Day()
		windowEnd := nextSavingsAnniversary(windowStart, anchorDay)
		if windowEnd.After(end) {
			windowEnd = end
		}
		v, ok := b.savings[windowStart.Format("2006-01")]
		if !ok {
			return nil, newBackendError(ErrDataHorizon, Poupanca, "missing savings value for %s", windowStart.Format("2006-01"))
		}
		out = append(out, RangedIndex{From: windowStart, To: windowEnd, Value: v})
		windowStart = windowEnd
	}
	return out, nil
}

// nextSavingsAnniversary advances one month from from, shifting the
// anniversary day to the 1st of the next month when anchorDay exceeds 28.
func nextSavingsAnniversary(from time.Time, anchorDay int) time.Time {
	if anchorDay > 28 {
		firstOfNext := time.Date(from.Year(), from.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		return firstOfNext
	}
	return from.AddDate(0, 1, 0)
}
