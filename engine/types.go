package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/inco-org/fincore-go/index"
)

// DayCount selects the spread-factor day-count convention.
type DayCount int

const (
	DayCount360 DayCount = iota
	DayCount365
	DayCount252
	DayCount30360
)

// GainOutputMode selects what a Payment's Gain field reports.
type GainOutputMode int

const (
	GainCurrent GainOutputMode = iota
	GainDeferred
	GainSettled
)

// VariableIndex pairs a published-rate index with the percentage applied
// to it and the backend to query it from.
type VariableIndex struct {
	Code       index.Code
	Percentage decimal.Decimal
	Backend    index.Backend
}

// Payment is one output row of the payment engine (C5).
type Payment struct {
	No     int
	Date   time.Time
	Raw    decimal.Decimal
	Tax    decimal.Decimal
	Net    decimal.Decimal
	Gain   decimal.Decimal
	Amort  decimal.Decimal
	Bal    decimal.Decimal
}

// PriceAdjustedPayment extends Payment with the inflation component paid
// this period.
type PriceAdjustedPayment struct {
	Payment
	PLA decimal.Decimal
}

// DailyReturn is one output row of the daily-return engine (C6).
type DailyReturn struct {
	No             int
	Period         int
	Date           time.Time
	Value          decimal.Decimal
	Bal            decimal.Decimal
	FixedFactor    decimal.Decimal
	VariableFactor decimal.Decimal
}
