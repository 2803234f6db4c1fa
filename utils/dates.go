// Package utils provides date arithmetic and day-count helpers shared by
// the factor kernel, the preprocessors and the payment/daily-return engines.
package utils

import (
	"time"
)

// DaysBetween returns the integer number of calendar days between two dates.
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// MonthInt returns the numeric month.
func MonthInt(t time.Time) int {
	return int(t.Month())
}

// AddMonth behaves like Excel's EDATE, avoiding Go's month normalization surprises.
func AddMonth(t time.Time, months int) time.Time {
	target := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if target.Month() == t.AddDate(0, months, 0).Month() {
		return t.AddDate(0, months, 0)
	}

	d := t.AddDate(0, months, 0)
	origMonth := MonthInt(d)
	for MonthInt(d) == origMonth {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
