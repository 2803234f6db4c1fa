// Package index implements C2, the abstract index-backend interface, plus
// two concrete implementations: an in-memory reference backend and a
// disk-cached HTTP backend.
package index

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Code identifies a variable index.
type Code string

const (
	// CDI is the overnight interbank deposit rate: a daily, business-day-only
	// index, the only one eligible for day-count 252 and for forward
	// projection when the backend's data horizon has been exhausted.
	CDI Code = "CDI"
	// Poupanca is the savings reference rate: a monthly ranged index whose
	// window anchors to the account-opening day-of-month.
	Poupanca Code = "Poupanca"
	// IPCA is the Broad Consumer Price Index, a monthly inflation index.
	IPCA Code = "IPCA"
	// IGPM is the General Market Price Index, a monthly inflation index.
	IGPM Code = "IGPM"
)

// IsOvernight reports whether code is the daily business-day-only
// overnight-interbank index (the only code eligible for projection, and the
// only one that day-count 252 accepts).
func IsOvernight(code Code) bool {
	return code == CDI
}

// IsInflation reports whether code is one of the two monthly inflation indexes.
func IsInflation(code Code) bool {
	return code == IPCA || code == IGPM
}

// DailyIndex is one business day's published (or projected) daily rate, in
// percent (e.g. 0.04 meaning 0.04%/day).
type DailyIndex struct {
	Date      time.Time
	Value     decimal.Decimal
	Projected bool // true when this value was carried forward, not published
}

// MonthlyIndex is one month's published inflation index variation, in percent.
type MonthlyIndex struct {
	Month time.Time // first day of the reference month
	Value decimal.Decimal
}

// RangedIndex is a published rate over an explicit, backend-defined window
// (used by the savings index, whose window anchors to an arbitrary
// day-of-month rather than the calendar month).
type RangedIndex struct {
	From, To time.Time
	Value    decimal.Decimal
}

// Backend is the abstract index-data source C5/C6 consult on every
// period/day that needs a variable-rate or inflation factor.
type Backend interface {
	// GetDailyIndexes returns daily values for code over business days in
	// [begin, end). Non-business days are not returned by the backend;
	// callers that need a per-calendar-day stream (C6) fill gaps with zero.
	GetDailyIndexes(code Code, begin, end time.Time) ([]DailyIndex, error)

	// GetSavingsIndexes returns the savings rate over monthly windows
	// anchored at begin's day-of-month, covering [begin, end).
	GetSavingsIndexes(begin, end time.Time) ([]RangedIndex, error)

	// GetMonthlyIndexes returns one value per calendar month in [begin, end)
	// for the given monthly inflation code.
	GetMonthlyIndexes(code Code, begin, end time.Time) ([]MonthlyIndex, error)
}

// ErrorKind classifies a BackendError.
type ErrorKind int

const (
	// ErrDataHorizon means the backend was asked for dates preceding the
	// first date it has data for.
	ErrDataHorizon ErrorKind = iota
	// ErrNoData means the backend has no indexes at all for the request.
	ErrNoData
	// ErrDoubleProjection means a daily-index window would need a second
	// forward projection (only one is ever permitted).
	ErrDoubleProjection
	// ErrUpstream means the remote source returned something the backend
	// could not parse as index data (typically an error page).
	ErrUpstream
)

// BackendError reports a C2 backend failure: missing data, a data-horizon
// violation, a repeated projection, or an unparseable upstream response.
type BackendError struct {
	Kind    ErrorKind
	Code    Code
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("index backend: %s (code=%s)", e.Message, e.Code)
}

func newBackendError(kind ErrorKind, code Code, format string, args ...any) *BackendError {
	return &BackendError{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}
