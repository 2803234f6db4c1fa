package utils

import "time"

// TwentyFourthSurrounding returns the two 24th-of-month dates bracketing d:
// the 24th of d's month if d falls on or after the 24th, otherwise the 24th
// of the previous month, paired with the following month's 24th. This is
// the anchor the 30/360 convention uses for a schedule's very first period,
// absorbing anniversary drift relative to the zero date.
func TwentyFourthSurrounding(d time.Time) (time.Time, time.Time) {
	const anchorDay = 24
	var from time.Time
	if d.Day() >= anchorDay {
		from = time.Date(d.Year(), d.Month(), anchorDay, 0, 0, 0, 0, time.UTC)
	} else {
		from = time.Date(d.Year(), d.Month()-1, anchorDay, 0, 0, 0, 0, time.UTC)
	}
	to := AddMonth(from, 1)
	return from, to
}

// DaysInMonth returns the number of days in the month containing t.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
