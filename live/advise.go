// Package live evaluates the newest bar of a series exactly the way the
// simulator evaluates historical bars. Anything the simulator would have
// decided at the final bar, Advise decides here.
package live

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/pivotrader/config"
	"github.com/rustyeddy/pivotrader/indicators"
	"github.com/rustyeddy/pivotrader/market"
	"github.com/rustyeddy/pivotrader/risk"
	"github.com/rustyeddy/pivotrader/strategies"
)

// Advice is the outcome for one series: the signal on its last bar and,
// for a fundable buy, the sized order plan. A buy that cannot be priced
// or funded carries the reason in Skip instead of a plan.
type Advice struct {
	Signal strategies.Signal
	Plan   *risk.Plan
	Skip   string
}

// Advise validates the series, evaluates the chain on its final bar, and
// sizes the resulting buy against cash.
func Advise(bars []market.Bar, cash decimal.Decimal, cfg config.Config, chain strategies.Chain) (Advice, error) {
	if len(bars) == 0 {
		return Advice{}, errors.New("live: no bars")
	}
	if err := cfg.Validate(); err != nil {
		return Advice{}, fmt.Errorf("live: %w", err)
	}
	if err := market.Validate(bars); err != nil {
		return Advice{}, fmt.Errorf("live: %w", err)
	}
	if len(chain) == 0 {
		chain = strategies.DefaultChain()
	}

	frames := indicators.Compute(bars, cfg.Indicators)
	last := len(bars) - 1
	sig := chain.Evaluate(strategies.View{Bars: bars, Frames: frames, Index: last}, cfg.Strategy)

	adv := Advice{Signal: sig}
	if sig.Action != strategies.Buy {
		return adv, nil
	}

	plan, err := risk.Size(risk.Inputs{Entry: sig.Reference, ATR: frames[last].ATR14, Cash: cash}, cfg.Risk)
	switch {
	case errors.Is(err, risk.ErrInsufficientCapital), errors.Is(err, risk.ErrInvalidInput):
		adv.Skip = err.Error()
		return adv, nil
	case err != nil:
		return Advice{}, fmt.Errorf("live: %w", err)
	}

	adv.Plan = &plan
	return adv, nil
}
