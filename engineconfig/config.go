// Package engineconfig holds the tunable constants the engine needs that
// have no single canonical value (tolerances, quantization scale).
package engineconfig

import "github.com/shopspring/decimal"

// Config holds engine-wide tolerances and rounding parameters.
type Config struct {
	// RatioTolerance is the maximum allowed |sum(amortization_ratio) - 1|
	// before the engine refuses a schedule.
	RatioTolerance decimal.Decimal

	// QuantizationScale is the number of fractional digits monetary fields
	// are rounded to (half-up) when a Payment or DailyReturn is emitted.
	QuantizationScale int32

	// ReconciliationToleranceCents is the maximum allowed difference, in
	// currency units (0.01 is one cent), between the daily engine's final
	// balance and the payment engine's final raw value for the same
	// operation.
	ReconciliationToleranceCents decimal.Decimal
}

// DefaultConfig provides sensible defaults for a Brazilian fixed-income
// amortization engine.
var DefaultConfig = Config{
	RatioTolerance:               decimal.New(1, -9),
	QuantizationScale:            2,
	ReconciliationToleranceCents: decimal.New(1, -2),
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}
