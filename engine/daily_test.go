package engine_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/inco-org/fincore-go/amort"
	"github.com/inco-org/fincore-go/engine"
)

func TestGetDailyReturns_ZeroPrincipalIsEmpty(t *testing.T) {
	entries := bulletEntries(t, mustDate("2022-01-01"), 12)
	got, err := engine.GetDailyReturns(decimal.Zero, decimal.NewFromInt(12), entries, nil, engine.DayCount360)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil output for zero principal, got %v", got)
	}
}

func TestGetDailyReturns_FixedBulletAccruesDaily(t *testing.T) {
	zero := mustDate("2022-01-01")
	entries := bulletEntries(t, zero, 12)

	out, err := engine.GetDailyReturns(decimal.NewFromInt(10000), decimal.NewFromInt(12), entries, nil, engine.DayCount360)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("expected at least one daily return row")
	}
	for _, row := range out {
		if row.Value.IsNegative() {
			t.Errorf("day %s: expected non-negative daily accrual, got %s", row.Date.Format("2006-01-02"), row.Value)
		}
	}
}

func TestGetDailyReturns_ReconcilesWithFinalPayment(t *testing.T) {
	zero := mustDate("2022-01-01")
	entries := bulletEntries(t, zero, 12)

	payments, err := engine.GetPaymentsTable(decimal.NewFromInt(10000), decimal.NewFromInt(12), entries, nil, engine.DayCount360, nil, false, engine.GainCurrent)
	if err != nil {
		t.Fatalf("GetPaymentsTable: %v", err)
	}
	daily, err := engine.GetDailyReturns(decimal.NewFromInt(10000), decimal.NewFromInt(12), entries, nil, engine.DayCount360)
	if err != nil {
		t.Fatalf("GetDailyReturns: %v", err)
	}

	lastPayment := payments[len(payments)-1]
	lastDaily := daily[len(daily)-1]

	// The daily walk stops one day short of the schedule's last date, so its
	// final balance should track the lump sum the payment engine settles on
	// that date.
	diff := lastPayment.Raw.Sub(lastDaily.Bal).Abs()
	if diff.GreaterThan(decimal.RequireFromString("1")) {
		t.Errorf("expected the daily engine's final balance to roughly track the payment engine's final raw value, diff = %s", diff)
	}
}

func TestGetDailyReturns_CDIWithout252IsError(t *testing.T) {
	entries := bulletEntries(t, mustDate("2022-01-01"), 12)
	vir := &engine.VariableIndex{Code: "CDI"}
	_, err := engine.GetDailyReturns(decimal.NewFromInt(1000), decimal.NewFromInt(12), entries, vir, engine.DayCount360)
	if err == nil {
		t.Fatalf("expected an error pairing CDI with a non-252 day-count")
	}
}

func TestGetDailyReturns_InflationIndexIsNotImplemented(t *testing.T) {
	entries := bulletEntries(t, mustDate("2022-01-01"), 12)
	vir := &engine.VariableIndex{Code: "IPCA"}
	_, err := engine.GetDailyReturns(decimal.NewFromInt(1000), decimal.NewFromInt(12), entries, vir, engine.DayCount360)

	var niErr *engine.NotImplementedError
	if !errors.As(err, &niErr) {
		t.Fatalf("expected *engine.NotImplementedError, got %T: %v", err, err)
	}
}

// TestScenarioA_DailyReturnsReconcileWithPaymentsTable checks invariant 4
// (the daily engine's final balance tracks the payment engine's final raw
// value to the cent) against the pinned fixed-rate Bullet scenario.
func TestScenarioA_DailyReturnsReconcileWithPaymentsTable(t *testing.T) {
	zero := mustDate("2022-01-01")
	entries := bulletEntries(t, zero, 12)

	payments, err := engine.GetPaymentsTable(decimal.NewFromInt(120000), decimal.NewFromInt(12), entries, nil, engine.DayCount360, nil, false, engine.GainCurrent)
	if err != nil {
		t.Fatalf("GetPaymentsTable: %v", err)
	}
	daily, err := engine.GetDailyReturns(decimal.NewFromInt(120000), decimal.NewFromInt(12), entries, nil, engine.DayCount360)
	if err != nil {
		t.Fatalf("GetDailyReturns: %v", err)
	}

	lastPayment := payments[len(payments)-1]
	if !lastPayment.Raw.Equal(decimal.RequireFromString("134611.71")) {
		t.Fatalf("unpinned scenario: last payment raw = %s, want 134611.71", lastPayment.Raw)
	}

	lastDaily := daily[len(daily)-1]
	diff := lastPayment.Raw.Sub(lastDaily.Bal).Abs()
	if diff.GreaterThan(decimal.RequireFromString("0.01")) {
		t.Errorf("daily engine's final balance %s does not reconcile with payment engine's final raw %s, diff = %s", lastDaily.Bal, lastPayment.Raw, diff)
	}
}

func TestGetDailyReturns_TooFewEntriesIsError(t *testing.T) {
	_, err := engine.GetDailyReturns(decimal.NewFromInt(1000), decimal.NewFromInt(12), []amort.Entry{{Scheduled: &amort.Amortization{Date: mustDate("2022-01-01")}}}, nil, engine.DayCount360)
	if err == nil {
		t.Fatalf("expected an error for fewer than two entries")
	}
}
