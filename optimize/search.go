// Package optimize grid-searches risk and strategy parameters by running
// one simulation per combination and ranking the results.
package optimize

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/pivotrader/config"
	"github.com/rustyeddy/pivotrader/market"
	"github.com/rustyeddy/pivotrader/sim"
	"github.com/rustyeddy/pivotrader/strategies"
)

// Params is one point of the search grid.
type Params struct {
	RiskFraction     float64 `json:"risk_fraction"`
	StopATR          float64 `json:"stop_atr"`
	TargetATR        float64 `json:"target_atr"`
	VolumeMultiple   float64 `json:"volume_multiple"`
	PullbackLookback int     `json:"pullback_lookback"`
}

// Apply overlays the point onto a copy of the base config, yielding the
// exact config the point was scored with.
func (p Params) Apply(base config.Config) config.Config {
	base.Risk.Fraction = p.RiskFraction
	base.Risk.StopATR = p.StopATR
	base.Risk.TargetATR = p.TargetATR
	base.Strategy.VolumeMultiple = p.VolumeMultiple
	base.Strategy.PullbackLookback = p.PullbackLookback
	return base
}

// Candidate is one evaluated grid point.
type Candidate struct {
	Params Params
	Report sim.Report
	Score  float64
}

// Search evaluates every grid combination over the same bars, each on a
// fresh account, and returns the candidates ranked best first. Ties keep
// grid order, so results are deterministic for a given config. Runs are
// spread over Optimize.Workers goroutines, NumCPU when zero.
func Search(ctx context.Context, base config.Config, chain strategies.Chain, bars []market.Bar, cash decimal.Decimal, log zerolog.Logger) ([]Candidate, error) {
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	if err := market.Validate(bars); err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	if !cash.IsPositive() {
		return nil, fmt.Errorf("optimize: starting cash must be positive, got %s", cash)
	}

	combos := grid(base)
	workers := base.Optimize.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(combos) {
		workers = len(combos)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Per-combo logs would swamp the output; the engine only speaks up
	// about real problems.
	runLog := log.Level(zerolog.ErrorLevel)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	out := make([]Candidate, len(combos))
	jobs := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				cfg := combos[i].Apply(base)
				if err := cfg.Validate(); err != nil {
					fail(fmt.Errorf("optimize: combination %+v: %w", combos[i], err))
					continue
				}

				res, err := sim.NewEngine(cfg, chain, runLog).Run(sim.NewAccount(cash), bars)
				if err != nil {
					fail(fmt.Errorf("optimize: combination %+v: %w", combos[i], err))
					continue
				}

				out[i] = Candidate{
					Params: combos[i],
					Report: res.Report,
					Score:  score(res.Report, base.Optimize.Objective),
				}
			}
		}()
	}

feed:
	for i := range combos {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	log.Info().
		Int("combinations", len(out)).
		Str("objective", base.Optimize.Objective).
		Float64("best", out[0].Score).
		Msg("grid search complete")
	return out, nil
}

// grid expands the configured candidate lists into the full cartesian
// product. A dimension with no candidates contributes the base value, so
// the grid always has at least one point.
func grid(base config.Config) []Params {
	o := base.Optimize
	fractions := orElse(o.RiskFractions, base.Risk.Fraction)
	stops := orElse(o.StopATRs, base.Risk.StopATR)
	targets := orElse(o.TargetATRs, base.Risk.TargetATR)
	volumes := orElse(o.VolumeMultiples, base.Strategy.VolumeMultiple)
	lookbacks := orElse(o.PullbackLookbacks, base.Strategy.PullbackLookback)

	out := make([]Params, 0, len(fractions)*len(stops)*len(targets)*len(volumes)*len(lookbacks))
	for _, f := range fractions {
		for _, s := range stops {
			for _, tg := range targets {
				for _, v := range volumes {
					for _, lb := range lookbacks {
						out = append(out, Params{
							RiskFraction:     f,
							StopATR:          s,
							TargetATR:        tg,
							VolumeMultiple:   v,
							PullbackLookback: lb,
						})
					}
				}
			}
		}
	}
	return out
}

func orElse[T any](candidates []T, base T) []T {
	if len(candidates) == 0 {
		return []T{base}
	}
	return candidates
}

// score extracts the objective from a report. NaN ranks below everything.
func score(r sim.Report, objective string) float64 {
	var s float64
	switch objective {
	case config.ObjectiveSharpe:
		s = r.Sharpe
	case config.ObjectiveProfitFactor:
		s = r.ProfitFactor
	default:
		s = r.TotalReturn
	}
	if math.IsNaN(s) {
		return math.Inf(-1)
	}
	return s
}
