// Package strategies holds the pure entry rules and the priority chain that
// turns a bar plus its indicator frame into a typed signal. Evaluators see
// only data up to the bar under decision, in live and replay alike.
package strategies

import (
	"math"
	"time"
)

// Action is the decision attached to a signal.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
	Hold Action = "HOLD"
)

// Strategy names reported on signals and journaled trades.
const (
	NameBreakout = "BREAKOUT"
	NamePullback = "PULLBACK"
)

// Signal is one evaluation outcome. Produced fresh per evaluation, never
// mutated.
type Signal struct {
	Action    Action    `json:"action"`
	Strategy  string    `json:"strategy,omitempty"`
	Strength  float64   `json:"strength"`
	Reference float64   `json:"reference_price"`
	Time      time.Time `json:"time"`
}

// strength is a bounded [0,1] composite of RSI distance from its midpoint
// and volume excess over the trailing average. Used for reporting and
// ranking only, never for sizing.
func strength(rsi, volume, volumeAvg float64) float64 {
	s := 0.5 * clamp01(math.Abs(rsi-50)/50)
	if !math.IsNaN(volumeAvg) && volumeAvg > 0 {
		s += 0.5 * clamp01(volume/volumeAvg-1)
	}
	return s
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}
