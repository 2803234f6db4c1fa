package amort

import (
	"time"
)

// validateTerm enforces term >= 1, common to every stereotype.
func validateTerm(term int) error {
	if term < 1 {
		return newValidationError("term", "must be >= 1, got %d", term)
	}
	return nil
}

// validateAnniversary enforces the ≤20-day drift bound from the natural
// first payment date (zeroDate + 1 month), and reports whether the
// anniversary is redundant (identical to the natural date, in which case
// it should be silently dropped).
func validateAnniversary(zeroDate, anniversary time.Time) (redundant bool, err error) {
	natural := zeroDate.AddDate(0, 1, 0)
	if anniversary.Equal(natural) {
		return true, nil
	}

	driftDays := int(anniversary.Sub(natural).Hours() / 24)
	if driftDays < 0 {
		driftDays = -driftDays
	}
	if driftDays > 20 {
		return false, newValidationError("anniversary", "drifts %d days from the natural first payment date %s, exceeding the 20-day bound", driftDays, natural.Format("2006-01-02"))
	}
	return false, nil
}

// validateUniqueDates ensures no two scheduled entries share a date.
func validateUniqueDates(entries []Amortization) error {
	seen := make(map[time.Time]bool, len(entries))
	for _, e := range entries {
		if seen[e.Date] {
			return newValidationError("date", "duplicate scheduled date %s", e.Date.Format("2006-01-02"))
		}
		seen[e.Date] = true
	}
	return nil
}

// validatePrepayments ensures every prepayment date lies strictly after
// zeroDate and no later than lastDate (a prepayment is allowed to land on
// the terminal date itself), and every value is positive (or the MaxValue
// sentinel).
func validatePrepayments(zeroDate, lastDate time.Time, prepayments []Bare) error {
	for _, p := range prepayments {
		if !p.Date.After(zeroDate) || p.Date.After(lastDate) {
			return newValidationError("prepayment.date", "%s must lie after zero date %s and no later than the last scheduled date %s",
				p.Date.Format("2006-01-02"), zeroDate.Format("2006-01-02"), lastDate.Format("2006-01-02"))
		}
		if !p.MaxValue && !p.Value.IsPositive() {
			return newValidationError("prepayment.value", "prepayment on %s must be positive", p.Date.Format("2006-01-02"))
		}
	}
	return nil
}
