// Package sim replays validated bars through the strategy chain against
// a single-position account, producing the trade list, the equity curve,
// and a summary report.
package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/pivotrader/config"
	"github.com/rustyeddy/pivotrader/indicators"
	"github.com/rustyeddy/pivotrader/market"
	"github.com/rustyeddy/pivotrader/pkg/id"
	"github.com/rustyeddy/pivotrader/risk"
	"github.com/rustyeddy/pivotrader/strategies"
)

// EquityPoint is the account equity marked at one bar's close.
type EquityPoint struct {
	Time   time.Time       `json:"time"`
	Equity decimal.Decimal `json:"equity"`
}

// Result is everything one run produces.
type Result struct {
	Trades  []Trade
	Equity  []EquityPoint
	Report  Report
	Signals int // buy signals seen while flat
	Skipped int // buy signals dropped because the account could not fund them
}

// Engine holds the immutable pieces of a run. One engine can serve many
// sequential runs; per-run state lives in the Account and the Result.
type Engine struct {
	cfg   config.Config
	chain strategies.Chain
	log   zerolog.Logger
}

// NewEngine builds an engine. An empty chain falls back to the default
// priority order.
func NewEngine(cfg config.Config, chain strategies.Chain, log zerolog.Logger) *Engine {
	if len(chain) == 0 {
		chain = strategies.DefaultChain()
	}
	return &Engine{cfg: cfg, chain: chain, log: log}
}

// Run replays bars through the chain against acct. The account must be
// fresh: flat and positively funded. Bars are validated up front, so a
// malformed series aborts before any trade is recorded.
func (e *Engine) Run(acct *Account, bars []market.Bar) (*Result, error) {
	if acct == nil {
		return nil, errors.New("sim: nil account")
	}
	if !acct.Flat() {
		return nil, errors.New("sim: account already holds a position")
	}
	if !acct.Cash.IsPositive() {
		return nil, fmt.Errorf("sim: starting cash must be positive, got %s", acct.Cash)
	}
	if len(bars) == 0 {
		return nil, errors.New("sim: no bars")
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if err := market.Validate(bars); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	initial := acct.Cash
	frames := indicators.Compute(bars, e.cfg.Indicators)
	res := &Result{Equity: make([]EquityPoint, 0, len(bars))}

	for i, b := range bars {
		// 1) Manage the open position. The bar's range is checked for
		// stop and target hits before any new decision is made.
		exited := false
		if acct.Position != nil {
			if price, reason, hit := e.checkExit(*acct.Position, b, i); hit {
				e.closePosition(acct, res, i, b.Time, price, reason)
				exited = true
			}
		}

		// 2) Flat accounts may enter. A bar that just closed a position
		// is not reused for a new entry.
		if acct.Flat() && !exited {
			sig := e.chain.Evaluate(strategies.View{Bars: bars, Frames: frames, Index: i}, e.cfg.Strategy)
			if sig.Action == strategies.Buy {
				res.Signals++
				e.tryOpen(acct, res, i, frames[i], sig)
			}
		}

		// 3) Mark equity at the close.
		acct.Equity = acct.markToMarket(b.Close)
		res.Equity = append(res.Equity, EquityPoint{Time: b.Time, Equity: acct.Equity})
	}

	// Whatever is still open settles at the final close.
	if acct.Position != nil {
		last := len(bars) - 1
		e.closePosition(acct, res, last, bars[last].Time, bars[last].Close, ExitEndOfData)
		acct.Equity = acct.Cash
	}

	res.Report = Summarize(initial, res.Equity, res.Trades)
	return res, nil
}

// tryOpen sizes the signal and, if the plan is fundable, debits the
// account and installs the position. Unpriceable plans are holds;
// unfundable ones are counted and logged.
func (e *Engine) tryOpen(acct *Account, res *Result, idx int, fr indicators.Frame, sig strategies.Signal) {
	plan, err := risk.Size(risk.Inputs{Entry: sig.Reference, ATR: fr.ATR14, Cash: acct.Cash}, e.cfg.Risk)
	switch {
	case errors.Is(err, risk.ErrInsufficientCapital):
		res.Skipped++
		e.log.Warn().
			Time("bar", sig.Time).
			Str("strategy", sig.Strategy).
			Str("cash", acct.Cash.String()).
			Msg("signal skipped, cannot fund a position")
		return
	case err != nil:
		e.log.Debug().
			Time("bar", sig.Time).
			Str("strategy", sig.Strategy).
			Err(err).
			Msg("signal not priceable")
		return
	}

	cost := decimal.NewFromInt(plan.Quantity).Mul(decimal.NewFromFloat(plan.Entry))
	acct.Cash = acct.Cash.Sub(cost)
	acct.Position = &Position{
		Strategy:  sig.Strategy,
		EntryIdx:  idx,
		EntryTime: sig.Time,
		Entry:     plan.Entry,
		Stop:      plan.Stop,
		Target:    plan.Target,
		Quantity:  plan.Quantity,
		Cost:      cost,
	}

	e.log.Info().
		Time("bar", sig.Time).
		Str("strategy", sig.Strategy).
		Float64("entry", plan.Entry).
		Float64("stop", plan.Stop).
		Float64("target", plan.Target).
		Int64("qty", plan.Quantity).
		Msg("entered")
}

// closePosition credits the closing fill, clears the position, and
// appends the completed trade.
func (e *Engine) closePosition(acct *Account, res *Result, idx int, ts time.Time, price float64, reason ExitReason) {
	pos := acct.Position
	acct.Position = nil

	proceeds := decimal.NewFromInt(pos.Quantity).Mul(decimal.NewFromFloat(price))
	acct.Cash = acct.Cash.Add(proceeds)

	tr := Trade{
		ID:         id.New(),
		Strategy:   pos.Strategy,
		EntryTime:  pos.EntryTime,
		ExitTime:   ts,
		EntryPrice: pos.Entry,
		ExitPrice:  price,
		Stop:       pos.Stop,
		Target:     pos.Target,
		Quantity:   pos.Quantity,
		PnL:        proceeds.Sub(pos.Cost),
		Reason:     reason,
		BarsHeld:   idx - pos.EntryIdx,
	}
	res.Trades = append(res.Trades, tr)

	e.log.Info().
		Time("bar", ts).
		Str("reason", string(reason)).
		Float64("exit", price).
		Str("pnl", tr.PnL.String()).
		Msg("closed")
}

// checkExit models stop and target hits inside one bar. OHLC data
// cannot say which side traded first when both sit inside the range, so
// the tie goes to whichever side exit_priority picks, worst case for
// the trader by default. A max_hold_bars limit only fires on bars where
// neither level traded.
func (e *Engine) checkExit(p Position, b market.Bar, idx int) (price float64, reason ExitReason, hit bool) {
	stopHit := b.Low <= p.Stop
	targetHit := b.High >= p.Target

	switch {
	case stopHit && targetHit:
		if e.cfg.Sim.ExitPriority == config.ExitOptimistic {
			return p.Target, ExitTarget, true
		}
		return p.Stop, ExitStop, true
	case stopHit:
		return p.Stop, ExitStop, true
	case targetHit:
		return p.Target, ExitTarget, true
	}

	if hold := e.cfg.Sim.MaxHoldBars; hold > 0 && idx-p.EntryIdx >= hold {
		return b.Close, ExitTime, true
	}
	return 0, "", false
}
