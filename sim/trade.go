package sim

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExitReason says why a position was closed.
type ExitReason string

const (
	ExitStop      ExitReason = "STOP"
	ExitTarget    ExitReason = "TARGET"
	ExitTime      ExitReason = "TIME"
	ExitEndOfData ExitReason = "END_OF_DATA"
)

// Position is the one open holding an account can carry. Cost is the
// exact cash debited at entry, kept so the closing fill reconciles
// against it without recomputation.
type Position struct {
	Strategy  string
	EntryIdx  int
	EntryTime time.Time
	Entry     float64
	Stop      float64
	Target    float64
	Quantity  int64
	Cost      decimal.Decimal
}

// Trade is one completed round trip.
type Trade struct {
	ID         string          `json:"id"`
	Strategy   string          `json:"strategy"`
	EntryTime  time.Time       `json:"entry_time"`
	ExitTime   time.Time       `json:"exit_time"`
	EntryPrice float64         `json:"entry_price"`
	ExitPrice  float64         `json:"exit_price"`
	Stop       float64         `json:"stop"`
	Target     float64         `json:"target"`
	Quantity   int64           `json:"quantity"`
	PnL        decimal.Decimal `json:"pnl"`
	Reason     ExitReason      `json:"reason"`
	BarsHeld   int             `json:"bars_held"`
}

// PlannedRR returns the reward-to-risk ratio the trade was entered
// with, regardless of how it actually exited.
func (t Trade) PlannedRR() float64 {
	risk := t.EntryPrice - t.Stop
	if risk <= 0 {
		return 0
	}
	return (t.Target - t.EntryPrice) / risk
}

// Return is the trade's PnL relative to the cash it tied up.
func (t Trade) Return() float64 {
	cost := decimal.NewFromInt(t.Quantity).Mul(decimal.NewFromFloat(t.EntryPrice))
	if !cost.IsPositive() {
		return 0
	}
	return t.PnL.Div(cost).InexactFloat64()
}
