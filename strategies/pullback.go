package strategies

import (
	"math"

	"github.com/rustyeddy/pivotrader/config"
	"github.com/rustyeddy/pivotrader/indicators"
)

// Pullback buys a bounce: the bar dips to the second resistance level and
// closes back above it while momentum is intact and a bullish crossover
// happened recently.
type Pullback struct{}

func (Pullback) Name() string { return NamePullback }

// Evaluate matches when all of:
//   - low touches or dips below R2 and the close recovers above it
//   - RSI14 > oversold threshold
//   - the fast EMA crossed above the slow EMA within the lookback window
func (Pullback) Evaluate(v View, cfg config.Strategy) (Signal, bool) {
	b, fr := v.Bar(), v.Frame()

	if !indicators.Defined(fr.R2) || !indicators.Defined(fr.RSI14) {
		return Signal{}, false
	}
	if b.Low > fr.R2 || b.Close <= fr.R2 {
		return Signal{}, false
	}
	if fr.RSI14 <= cfg.RSIOversold {
		return Signal{}, false
	}
	if !crossedWithin(v, cfg) {
		return Signal{}, false
	}

	return Signal{
		Action:    Buy,
		Strategy:  NamePullback,
		Strength:  strength(fr.RSI14, b.Volume, fr.VolumeAvg),
		Reference: b.Close,
		Time:      b.Time,
	}, true
}

// crossedWithin reports whether the fast EMA crossed above the slow EMA on
// any of the last cfg.PullbackLookback bars. A cross at bar i means the
// fast-slow difference went from <=0 at i-1 to >0 at i.
func crossedWithin(v View, cfg config.Strategy) bool {
	lo := v.Index - cfg.PullbackLookback + 1
	if lo < 1 {
		lo = 1
	}
	for i := v.Index; i >= lo; i-- {
		cur := v.Frames[i]
		prev := v.Frames[i-1]
		curDiff := cur.EMAAt(cfg.CrossFast) - cur.EMAAt(cfg.CrossSlow)
		prevDiff := prev.EMAAt(cfg.CrossFast) - prev.EMAAt(cfg.CrossSlow)
		if math.IsNaN(curDiff) || math.IsNaN(prevDiff) {
			continue
		}
		if curDiff > 0 && prevDiff <= 0 {
			return true
		}
	}
	return false
}
