package factor_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inco-org/fincore-go/factor"
	"github.com/inco-org/fincore-go/index"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func decimalClose(a, b decimal.Decimal, tol string) bool {
	diff := a.Sub(b).Abs()
	return diff.LessThanOrEqual(decimal.RequireFromString(tol))
}

func TestInterestFactor_PercentRate(t *testing.T) {
	got := factor.InterestFactor(decimal.NewFromInt(12), decimal.NewFromInt(1), true)
	want := decimal.RequireFromString("1.12")
	if !decimalClose(got, want, "0.000001") {
		t.Errorf("InterestFactor(12%%, 1) = %s, want ~%s", got, want)
	}
}

func TestInterestFactor_FractionalRate(t *testing.T) {
	got := factor.InterestFactor(decimal.RequireFromString("0.01"), decimal.NewFromInt(2), false)
	want := decimal.RequireFromString("1.0201")
	if !decimalClose(got, want, "0.000001") {
		t.Errorf("InterestFactor(0.01, 2) = %s, want ~%s", got, want)
	}
}

func TestInterestFactor_IsMemoized(t *testing.T) {
	rate := decimal.NewFromInt(5)
	period := decimal.NewFromInt(3)
	a := factor.InterestFactor(rate, period, true)
	b := factor.InterestFactor(rate, period, true)
	if !a.Equal(b) {
		t.Errorf("expected memoized result to be identical, got %s and %s", a, b)
	}
}

func TestCDIFactor_AccumulatesBusinessDays(t *testing.T) {
	daily := map[string]decimal.Decimal{
		"2022-01-03": decimal.NewFromFloat(0.04),
		"2022-01-04": decimal.NewFromFloat(0.04),
		"2022-01-05": decimal.NewFromFloat(0.04),
	}
	backend := index.NewInMemoryBackend(daily, nil, nil)

	got, days, err := factor.CDIFactor(backend, mustDate("2022-01-03"), mustDate("2022-01-06"), decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 3 {
		t.Errorf("got %d business days, want 3", days)
	}
	if got.LessThanOrEqual(decimal.NewFromInt(1)) {
		t.Errorf("expected factor > 1, got %s", got)
	}
}

func TestIPCAFactor_CompoundsConsecutiveMonths(t *testing.T) {
	monthly := map[index.Code]map[string]decimal.Decimal{
		index.IPCA: {
			"2021-12": decimal.NewFromFloat(0.5),
			"2022-01": decimal.NewFromFloat(0.6),
		},
	}
	backend := index.NewInMemoryBackend(nil, monthly, nil)

	got, err := factor.IPCAFactor(backend, index.IPCA, mustDate("2022-01-15"), 2, factor.ShiftOneMonth, decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := decimal.RequireFromString("1.005").Mul(decimal.RequireFromString("1.006"))
	if !decimalClose(got, want, "0.0001") {
		t.Errorf("IPCAFactor = %s, want ~%s", got, want)
	}
}

func TestClampFloor1(t *testing.T) {
	below := decimal.RequireFromString("0.98")
	if got := factor.ClampFloor1(below); !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("ClampFloor1(0.98) = %s, want 1", got)
	}
	above := decimal.RequireFromString("1.02")
	if got := factor.ClampFloor1(above); !got.Equal(above) {
		t.Errorf("ClampFloor1(1.02) = %s, want 1.02", got)
	}
}
