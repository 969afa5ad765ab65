// Package indicators provides the technical indicators behind the signal
// rules: EMAs, RSI, ATR, classic pivot levels and a trailing volume average,
// assembled per bar into a Frame by Compute.
package indicators

import (
	"math"

	"github.com/rustyeddy/pivotrader/market"
)

// Indicator computes a single streaming value from bars.
// It is deterministic and safe to use in live, replay, and backtests.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)" or "RSI(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next *closed* bar and updates internal state.
	Update(b market.Bar)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current value, 0 until Ready(). Callers must check
	// Ready(); the pipeline maps not-ready to NaN in the Frame.
	Value() float64
}

// Periods fixed by the signal rules. EMA periods are configurable; RSI and
// ATR are not.
const (
	RSIPeriod = 14
	ATRPeriod = 14
)

// Defined reports whether an indicator field carries a usable value.
// Entries inside an indicator's warm-up window are NaN.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}
