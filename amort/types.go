// Package amort implements the amortization schedule data model, the C3
// schedule interleaver and the C4 stereotype preprocessors (Bullet,
// Monthly-Interest, Price-table, Free).
package amort

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ValidationError reports caller-supplied data violating a documented
// constraint. Fatal: callers should not retry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("amort: validation: %s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// OrderingError reports an unsorted or duplicated interleaver input.
type OrderingError struct {
	Message string
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("amort: ordering: %s", e.Message)
}

// DctOverride carries the original scheduled-period endpoints for a
// period into which an unscheduled cashflow was inserted, so that 30/360
// day-count-total math does not drift to the insertion date.
type DctOverride struct {
	DateFrom                  time.Time
	DateTo                    time.Time
	PredatesFirstAmortization bool
}

// Shift mirrors factor.Shift as a type of its own; engine translates
// between the two at the point of use.
type Shift int

const (
	ShiftAuto Shift = iota
	ShiftOneMonth
	ShiftTwoMonths
)

// PriceLevelAdjustment is the inflation-index metadata attached to a
// scheduled Amortization entry.
type PriceLevelAdjustment struct {
	Code                 string
	BaseDate             time.Time
	Period               int
	Shift                Shift
	AmortizesAdjustment  bool
}

// Amortization is one planned, scheduled event.
type Amortization struct {
	Date                 time.Time
	AmortizationRatio     decimal.Decimal
	AmortizesInterest     bool
	PriceLevelAdjustment  *PriceLevelAdjustment
	DctOverride           *DctOverride
}

// Bare is one unscheduled cashflow: a prepayment or partial settlement.
// MaxValue, when true, means "whatever outstanding balance remains on this
// date"; Value is ignored in that case.
type Bare struct {
	Date        time.Time
	Value       decimal.Decimal
	MaxValue    bool
	DctOverride *DctOverride
}

// Entry is the tagged variant of Amortization vs Bare that C5/C6 consume.
// Scheduled is nil exactly when Unscheduled is non-nil.
type Entry struct {
	Scheduled   *Amortization
	Unscheduled *Bare
}

func (e Entry) Date() time.Time {
	if e.Scheduled != nil {
		return e.Scheduled.Date
	}
	return e.Unscheduled.Date
}

func (e Entry) IsScheduled() bool { return e.Scheduled != nil }

// VariableIndex configures the compounding of a published rate index on
// top of a scheduled fixed spread.
type VariableIndex struct {
	Code       string
	Percentage decimal.Decimal
}

// CalcDate is a cutoff for output emission: computation truncates at
// Value unless Runaway is set, in which case emission continues past
// Value but factors freeze there.
type CalcDate struct {
	Value   time.Time
	Runaway bool
}
