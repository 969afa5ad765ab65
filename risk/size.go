// Package risk turns a buy signal into a sized order plan with
// ATR-derived stop and target levels. Sizing is done in decimal so the
// committed amount matches the account ledger exactly.
package risk

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/pivotrader/config"
)

var (
	// ErrInvalidInput marks plans that cannot be priced, typically because
	// the ATR is still inside its warm-up window or the stop would land at
	// or below zero.
	ErrInvalidInput = errors.New("risk: invalid input")

	// ErrInsufficientCapital marks plans whose smallest viable size does
	// not fit the account.
	ErrInsufficientCapital = errors.New("risk: insufficient capital")
)

// Inputs collects what sizing needs from the caller: the signal's
// reference price, the ATR on the signal bar, and the cash on hand.
type Inputs struct {
	Entry float64
	ATR   float64
	Cash  decimal.Decimal
}

// Size builds the order plan for a long entry. The stop sits StopATR
// ATRs below the entry, the target TargetATR ATRs above it, and the
// quantity is the largest whole number of units that keeps the loss at
// the stop within Fraction of cash. Quantities that would cost more
// than the available cash are clamped down to what the account can pay
// for.
func Size(in Inputs, cfg config.Risk) (Plan, error) {
	if math.IsNaN(in.Entry) || in.Entry <= 0 {
		return Plan{}, fmt.Errorf("entry price %v: %w", in.Entry, ErrInvalidInput)
	}
	if math.IsNaN(in.ATR) || in.ATR <= 0 {
		return Plan{}, fmt.Errorf("atr %v: %w", in.ATR, ErrInvalidInput)
	}

	stop := in.Entry - cfg.StopATR*in.ATR
	target := in.Entry + cfg.TargetATR*in.ATR
	if stop <= 0 {
		return Plan{}, fmt.Errorf("stop %v at entry %v: %w", stop, in.Entry, ErrInvalidInput)
	}
	perUnit := in.Entry - stop
	if perUnit <= 0 {
		return Plan{}, fmt.Errorf("no risk per unit at entry %v: %w", in.Entry, ErrInvalidInput)
	}

	riskAmount := in.Cash.Mul(decimal.NewFromFloat(cfg.Fraction))
	qty := riskAmount.Div(decimal.NewFromFloat(perUnit)).Floor().IntPart()

	// The risk budget can still buy more than the account can pay for.
	entry := decimal.NewFromFloat(in.Entry)
	if decimal.NewFromInt(qty).Mul(entry).GreaterThan(in.Cash) {
		qty = in.Cash.Div(entry).Floor().IntPart()
	}
	if qty <= 0 {
		return Plan{}, fmt.Errorf("cash %s cannot fund one unit at %v: %w",
			in.Cash, in.Entry, ErrInsufficientCapital)
	}

	return Plan{
		Entry:      in.Entry,
		Stop:       stop,
		Target:     target,
		Quantity:   qty,
		RiskAmount: riskAmount,
		Fraction:   cfg.Fraction,
	}, nil
}
