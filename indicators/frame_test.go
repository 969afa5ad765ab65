package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/pivotrader/config"
	"github.com/rustyeddy/pivotrader/market"
)

func series(n int) []market.Bar {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, n)
	for i := range bars {
		// Deterministic wiggle so gains and losses both occur.
		c := 100 + float64(i%7) - float64(i%3)
		bars[i] = market.Bar{
			Time:   t0.Add(time.Duration(i) * 24 * time.Hour),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000 + float64(i%5)*10,
		}
	}
	return bars
}

func TestComputeAlignsFrames(t *testing.T) {
	t.Parallel()

	bars := series(40)
	frames := Compute(bars, config.Default().Indicators)
	assert.Len(t, frames, len(bars))
}

func TestComputeWarmupGating(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Indicators
	bars := series(30)
	frames := Compute(bars, cfg)

	// RSI14 and ATR14 are undefined before index 14 and defined after.
	for i := 0; i < 14; i++ {
		assert.False(t, Defined(frames[i].RSI14), "RSI index %d", i)
		assert.False(t, Defined(frames[i].ATR14), "ATR index %d", i)
	}
	for i := 14; i < len(frames); i++ {
		assert.True(t, Defined(frames[i].RSI14), "RSI index %d", i)
		assert.True(t, Defined(frames[i].ATR14), "ATR index %d", i)
	}

	// EMA(p) is undefined before index p-1.
	assert.False(t, Defined(frames[3].EMAAt(5)))
	assert.True(t, Defined(frames[4].EMAAt(5)))
	assert.False(t, Defined(frames[18].EMAAt(20)))
	assert.True(t, Defined(frames[19].EMAAt(20)))

	// Fewer bars than EMA200's warmup: undefined for every entry.
	for i := range frames {
		assert.False(t, Defined(frames[i].EMAAt(200)), "EMA200 index %d", i)
	}

	// Pivots need one previous bar.
	assert.False(t, Defined(frames[0].Pivot))
	assert.True(t, Defined(frames[1].Pivot))

	// Volume average needs a full window (default 20).
	assert.False(t, Defined(frames[18].VolumeAvg))
	assert.True(t, Defined(frames[19].VolumeAvg))
}

func TestComputeShortSeriesAllUndefined(t *testing.T) {
	t.Parallel()

	frames := Compute(series(5), config.Default().Indicators)
	for i, fr := range frames {
		assert.False(t, Defined(fr.RSI14), "index %d", i)
		assert.False(t, Defined(fr.ATR14), "index %d", i)
		assert.False(t, Defined(fr.EMAAt(20)), "index %d", i)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Indicators
	bars := series(250)

	a := Compute(bars, cfg)
	b := Compute(bars, cfg)
	require.Len(t, b, len(a))

	for i := range a {
		assertFrameEqual(t, a[i], b[i], i)
	}

	// With 250 bars the longest EMA is defined at the tail.
	assert.True(t, Defined(a[len(a)-1].EMAAt(200)))
}

func TestFrameEMAAtUnknownPeriod(t *testing.T) {
	t.Parallel()

	frames := Compute(series(10), config.Indicators{EMAPeriods: []int{5}, VolumeWindow: 3})
	assert.True(t, math.IsNaN(frames[9].EMAAt(21)))
	assert.True(t, Defined(frames[9].EMAAt(5)))
}

func TestPivotLevelsMatchFormulas(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []market.Bar{
		{Time: t0, Open: 100, High: 110, Low: 95, Close: 105, Volume: 1},
		{Time: t0.Add(24 * time.Hour), Open: 105, High: 108, Low: 104, Close: 107, Volume: 1},
	}
	frames := Compute(bars, config.Indicators{EMAPeriods: []int{5}, VolumeWindow: 3})

	// From the first bar: H 110, L 95, C 105 -> P 103.3333.
	fr := frames[1]
	p := (110.0 + 95.0 + 105.0) / 3
	assert.InDelta(t, p, fr.Pivot, 1e-9)
	assert.InDelta(t, 2*p-95, fr.R1, 1e-9)
	assert.InDelta(t, 2*p-110, fr.S1, 1e-9)
	assert.InDelta(t, p+15, fr.R2, 1e-9)
	assert.InDelta(t, p-15, fr.S2, 1e-9)
	assert.InDelta(t, 110+2*(p-95), fr.R3, 1e-9)
	assert.InDelta(t, 95-2*(110-p), fr.S3, 1e-9)
}

func assertFrameEqual(t *testing.T, a, b Frame, idx int) {
	t.Helper()

	eq := func(x, y float64, field string) {
		if math.IsNaN(x) || math.IsNaN(y) {
			assert.Equal(t, math.IsNaN(x), math.IsNaN(y), "%s index %d", field, idx)
			return
		}
		assert.Equal(t, x, y, "%s index %d", field, idx)
	}

	require.Equal(t, len(a.EMA), len(b.EMA), "EMA set index %d", idx)
	for p, v := range a.EMA {
		eq(v, b.EMA[p], "EMA")
	}
	eq(a.RSI14, b.RSI14, "RSI14")
	eq(a.ATR14, b.ATR14, "ATR14")
	eq(a.Pivot, b.Pivot, "Pivot")
	eq(a.R1, b.R1, "R1")
	eq(a.R2, b.R2, "R2")
	eq(a.R3, b.R3, "R3")
	eq(a.S1, b.S1, "S1")
	eq(a.S2, b.S2, "S2")
	eq(a.S3, b.S3, "S3")
	eq(a.VolumeAvg, b.VolumeAvg, "VolumeAvg")
}
