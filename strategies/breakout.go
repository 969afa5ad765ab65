package strategies

import (
	"github.com/rustyeddy/pivotrader/config"
	"github.com/rustyeddy/pivotrader/indicators"
)

// Breakout buys strength: a close above the third resistance level on
// confirming volume, while momentum still has room and the EMA stack has
// been bullish for a few bars.
type Breakout struct{}

func (Breakout) Name() string { return NameBreakout }

// Evaluate matches when all of:
//   - close > R3
//   - RSI14 < overbought threshold
//   - volume >= multiple of the trailing average volume
//   - EMA fast > mid > slow on each of the last align_bars bars
func (Breakout) Evaluate(v View, cfg config.Strategy) (Signal, bool) {
	b, fr := v.Bar(), v.Frame()

	if !indicators.Defined(fr.R3) || !indicators.Defined(fr.RSI14) || !indicators.Defined(fr.VolumeAvg) {
		return Signal{}, false
	}
	if b.Close <= fr.R3 {
		return Signal{}, false
	}
	if fr.RSI14 >= cfg.RSIOverbought {
		return Signal{}, false
	}
	if b.Volume < cfg.VolumeMultiple*fr.VolumeAvg {
		return Signal{}, false
	}
	if !alignedFor(v, cfg) {
		return Signal{}, false
	}

	return Signal{
		Action:    Buy,
		Strategy:  NameBreakout,
		Strength:  strength(fr.RSI14, b.Volume, fr.VolumeAvg),
		Reference: b.Close,
		Time:      b.Time,
	}, true
}

// alignedFor reports whether the EMA stack was bullish (fast above mid above
// slow) on every one of the last cfg.AlignBars frames. Undefined EMAs on any
// of those frames make it a non-match.
func alignedFor(v View, cfg config.Strategy) bool {
	if v.Index+1 < cfg.AlignBars {
		return false
	}
	for i := v.Index - cfg.AlignBars + 1; i <= v.Index; i++ {
		fr := v.Frames[i]
		fast := fr.EMAAt(cfg.AlignFast)
		mid := fr.EMAAt(cfg.AlignMid)
		slow := fr.EMAAt(cfg.AlignSlow)
		if !indicators.Defined(fast) || !indicators.Defined(mid) || !indicators.Defined(slow) {
			return false
		}
		if fast <= mid || mid <= slow {
			return false
		}
	}
	return true
}
