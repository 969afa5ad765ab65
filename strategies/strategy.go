package strategies

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/pivotrader/config"
	"github.com/rustyeddy/pivotrader/indicators"
	"github.com/rustyeddy/pivotrader/market"
)

// View is the evaluation window handed to a strategy: bars and frames up to
// and including Index. Evaluators must never read past Index; replay and
// live mode both build views ending at the bar under decision, which is
// what keeps their behavior identical.
type View struct {
	Bars   []market.Bar
	Frames []indicators.Frame
	Index  int
}

// Bar returns the bar under decision.
func (v View) Bar() market.Bar { return v.Bars[v.Index] }

// Frame returns the indicator frame aligned with Bar.
func (v View) Frame() indicators.Frame { return v.Frames[v.Index] }

// Strategy is a pure entry rule: given a view and parameters it either
// produces a BUY signal or declines. Implementations hold no state, so one
// value can serve any number of concurrent runs.
type Strategy interface {
	Name() string
	Evaluate(v View, cfg config.Strategy) (Signal, bool)
}

// Chain is an ordered list of strategies evaluated first-match-wins.
// Extending the rule set means appending to the chain, not touching the
// evaluation loop.
type Chain []Strategy

// DefaultChain returns the standard priority order: breakout, then pullback.
func DefaultChain() Chain {
	return Chain{Breakout{}, Pullback{}}
}

// Evaluate runs the chain in priority order and returns the first match, or
// a HOLD signal referencing the current close.
func (c Chain) Evaluate(v View, cfg config.Strategy) Signal {
	for _, s := range c {
		if sig, ok := s.Evaluate(v, cfg); ok {
			return sig
		}
	}
	b := v.Bar()
	return Signal{Action: Hold, Reference: b.Close, Time: b.Time}
}

// String names the chain in priority order, e.g. "breakout,pullback".
func (c Chain) String() string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = strings.ToLower(s.Name())
	}
	return strings.Join(names, ",")
}

// ByName resolves a single strategy by name.
func ByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "breakout":
		return Breakout{}, nil
	case "pullback":
		return Pullback{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: breakout, pullback)", name)
	}
}

// ParseChain builds a chain from a comma-separated list such as
// "breakout,pullback"; list order is priority order. An empty spec yields
// the default chain.
func ParseChain(spec string) (Chain, error) {
	if strings.TrimSpace(spec) == "" {
		return DefaultChain(), nil
	}

	var chain Chain
	for _, name := range strings.Split(spec, ",") {
		s, err := ByName(name)
		if err != nil {
			return nil, err
		}
		chain = append(chain, s)
	}
	return chain, nil
}
