package strategies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/pivotrader/config"
	"github.com/rustyeddy/pivotrader/indicators"
	"github.com/rustyeddy/pivotrader/market"
)

// dualMatchView builds a three-bar view whose final bar satisfies the
// breakout and the pullback rules at the same time.
func dualMatchView() View {
	f0 := undefFrame()
	f0.EMA = map[int]float64{5: 99, 20: 100, 50: 98}

	f1 := undefFrame()
	f1.EMA = map[int]float64{5: 105, 20: 104, 50: 103}

	f2 := undefFrame()
	f2.EMA = map[int]float64{5: 106, 20: 104, 50: 103}
	f2.R2 = 100
	f2.R3 = 105
	f2.RSI14 = 60
	f2.VolumeAvg = 1000

	t0 := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	bars := []market.Bar{
		{Time: t0, Open: 99, High: 100, Low: 98, Close: 99.5, Volume: 950},
		{Time: t0.Add(24 * time.Hour), Open: 100, High: 105, Low: 99.8, Close: 104.5, Volume: 1100},
		{Time: t0.Add(48 * time.Hour), Open: 104, High: 106.5, Low: 99.5, Close: 106, Volume: 1300},
	}
	return View{Bars: bars, Frames: []indicators.Frame{f0, f1, f2}, Index: 2}
}

func TestChainPriorityOrder(t *testing.T) {
	t.Parallel()

	v := dualMatchView()
	cfg := config.Default().Strategy

	// Both rules match on their own.
	_, ok := Breakout{}.Evaluate(v, cfg)
	require.True(t, ok)
	_, ok = Pullback{}.Evaluate(v, cfg)
	require.True(t, ok)

	// The default chain resolves the tie in favor of the breakout.
	sig := DefaultChain().Evaluate(v, cfg)
	assert.Equal(t, NameBreakout, sig.Strategy)

	// Reversing the chain reverses the winner.
	sig = Chain{Pullback{}, Breakout{}}.Evaluate(v, cfg)
	assert.Equal(t, NamePullback, sig.Strategy)
}

func TestChainHoldShape(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC)
	v := View{
		Bars:   []market.Bar{{Time: ts, Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 1000}},
		Frames: []indicators.Frame{undefFrame()},
		Index:  0,
	}

	sig := DefaultChain().Evaluate(v, config.Default().Strategy)
	assert.Equal(t, Hold, sig.Action)
	assert.Empty(t, sig.Strategy)
	assert.Zero(t, sig.Strength)
	assert.Equal(t, 100.5, sig.Reference)
	assert.Equal(t, ts, sig.Time)
}

func TestChainHoldsOnFlatShortSeries(t *testing.T) {
	t.Parallel()

	// Three identical bars leave every indicator inside its warm-up window,
	// so each bar must evaluate to HOLD.
	t0 := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, 3)
	for i := range bars {
		bars[i] = market.Bar{
			Time:   t0.Add(time.Duration(i) * 24 * time.Hour),
			Open:   100,
			High:   100,
			Low:    100,
			Close:  100,
			Volume: 1000,
		}
	}

	cfg := config.Default()
	frames := indicators.Compute(bars, cfg.Indicators)
	chain := DefaultChain()
	for i := range bars {
		sig := chain.Evaluate(View{Bars: bars, Frames: frames, Index: i}, cfg.Strategy)
		assert.Equal(t, Hold, sig.Action, "bar %d", i)
	}
}

func TestChainString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "breakout,pullback", DefaultChain().String())
	assert.Equal(t, "pullback", Chain{Pullback{}}.String())
}

func TestByName(t *testing.T) {
	t.Parallel()

	s, err := ByName("breakout")
	require.NoError(t, err)
	assert.Equal(t, NameBreakout, s.Name())

	s, err = ByName(" PULLBACK ")
	require.NoError(t, err)
	assert.Equal(t, NamePullback, s.Name())

	_, err = ByName("sma")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}

func TestParseChain(t *testing.T) {
	t.Parallel()

	chain, err := ParseChain("")
	require.NoError(t, err)
	assert.Equal(t, "breakout,pullback", chain.String())

	chain, err = ParseChain("pullback,breakout")
	require.NoError(t, err)
	assert.Equal(t, "pullback,breakout", chain.String())

	_, err = ParseChain("breakout,momo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}
