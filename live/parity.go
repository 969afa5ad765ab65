package live

import (
	"fmt"

	"github.com/rustyeddy/pivotrader/config"
	"github.com/rustyeddy/pivotrader/indicators"
	"github.com/rustyeddy/pivotrader/market"
	"github.com/rustyeddy/pivotrader/strategies"
)

// Mismatch is one bar where the batch evaluation and the bar-by-bar
// evaluation disagreed.
type Mismatch struct {
	Index int
	Batch strategies.Signal
	Live  strategies.Signal
}

// CheckParity evaluates every bar twice, once against frames computed
// over the whole series and once against frames computed over just the
// bars seen so far, and reports every index where the two signals
// differ. A clean run proves no evaluator read past its decision bar.
// The prefix recomputation makes this quadratic; it is a verification
// pass, not a hot path.
func CheckParity(bars []market.Bar, cfg config.Config, chain strategies.Chain) ([]Mismatch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("live: %w", err)
	}
	if err := market.Validate(bars); err != nil {
		return nil, fmt.Errorf("live: %w", err)
	}
	if len(chain) == 0 {
		chain = strategies.DefaultChain()
	}

	full := indicators.Compute(bars, cfg.Indicators)

	var diffs []Mismatch
	for i := range bars {
		prefix := bars[:i+1]
		batch := chain.Evaluate(strategies.View{Bars: bars, Frames: full, Index: i}, cfg.Strategy)
		live := chain.Evaluate(strategies.View{
			Bars:   prefix,
			Frames: indicators.Compute(prefix, cfg.Indicators),
			Index:  i,
		}, cfg.Strategy)

		if batch != live {
			diffs = append(diffs, Mismatch{Index: i, Batch: batch, Live: live})
		}
	}
	return diffs, nil
}
