package tax_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inco-org/fincore-go/tax"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRevenueTaxRate_Brackets(t *testing.T) {
	cases := []struct {
		days int
		want string
	}{
		{90, "22.5"},
		{180, "22.5"},
		{181, "20"},
		{360, "20"},
		{400, "17.5"},
		{720, "17.5"},
		{721, "15"},
		{2000, "15"},
	}
	begin := mustDate("2022-01-01")
	for _, c := range cases {
		end := begin.AddDate(0, 0, c.days)
		got, err := tax.RevenueTaxRate(begin, end)
		if err != nil {
			t.Fatalf("unexpected error for %d days: %v", c.days, err)
		}
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("RevenueTaxRate(%d days) = %s, want %s", c.days, got, c.want)
		}
	}
}

func TestRevenueTaxRate_NonPositiveRangeErrors(t *testing.T) {
	begin := mustDate("2022-01-01")
	if _, err := tax.RevenueTaxRate(begin, begin); err == nil {
		t.Fatal("expected error for zero-length range")
	}
	if _, err := tax.RevenueTaxRate(begin, begin.AddDate(0, 0, -1)); err == nil {
		t.Fatal("expected error for negative range")
	}
}

func TestRevenueTaxRate_Monotonicity(t *testing.T) {
	begin := mustDate("2022-01-01")
	shortRate, _ := tax.RevenueTaxRate(begin, begin.AddDate(0, 0, 100))
	longRate, _ := tax.RevenueTaxRate(begin, begin.AddDate(0, 0, 800))
	if !shortRate.GreaterThanOrEqual(longRate) {
		t.Errorf("expected shorter holding period to tax at >= rate, got %s < %s", shortRate, longRate)
	}
}

func monthlyFactor(apy decimal.Decimal) decimal.Decimal {
	base := decimal.NewFromInt(1).Add(apy.Div(decimal.NewFromInt(100)))
	// (1+apy)^(1/12) via repeated square-root-free float bridge kept out of
	// the test; approximate with Newton's method on x^12 = base instead so
	// the test has no dependency on the factor package.
	x := decimal.RequireFromString("1.01")
	for i := 0; i < 50; i++ {
		xp := x
		for p := 0; p < 11; p++ {
			xp = xp.Mul(x)
		}
		diff := xp.Sub(base)
		if diff.Abs().LessThan(decimal.RequireFromString("0.0000000001")) {
			break
		}
		x = x.Sub(diff.Div(decimal.NewFromInt(12).Mul(xp.Div(x))))
	}
	return x
}

func TestPriceInstallmentRatios_SumToOne(t *testing.T) {
	ratios, err := tax.PriceInstallmentRatios(decimal.NewFromInt(19), 24, monthlyFactor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := decimal.Zero
	for _, r := range ratios {
		sum = sum.Add(r)
	}
	if diff := sum.Sub(decimal.NewFromInt(1)).Abs(); diff.GreaterThan(decimal.RequireFromString("0.000001")) {
		t.Errorf("sum of ratios = %s, want ~1", sum)
	}
}

func TestPriceInstallmentRatios_RejectsZeroTerm(t *testing.T) {
	if _, err := tax.PriceInstallmentRatios(decimal.NewFromInt(10), 0, monthlyFactor); err == nil {
		t.Fatal("expected error for term == 0")
	}
}
