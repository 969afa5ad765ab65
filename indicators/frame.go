package indicators

import (
	"math"

	"github.com/rustyeddy/pivotrader/config"
	"github.com/rustyeddy/pivotrader/market"
)

// Frame is one bar's derived values. Fields inside their indicator's
// warm-up window are NaN; gate with Defined before use.
type Frame struct {
	EMA        map[int]float64
	RSI14      float64
	ATR14      float64
	Pivot      float64
	R1, R2, R3 float64
	S1, S2, S3 float64
	VolumeAvg  float64
}

// EMAAt returns the EMA for period p, NaN when p was not computed or is
// still warming up.
func (f Frame) EMAAt(p int) float64 {
	if v, ok := f.EMA[p]; ok {
		return v
	}
	return math.NaN()
}

// Compute derives one Frame per input bar. The streaming indicators are fed
// strictly in bar order, so a frame can only depend on bars up to and
// including its own. Short series yield frames with NaN fields, never an
// error.
func Compute(bars []market.Bar, cfg config.Indicators) []Frame {
	emas := make([]*ExponentialMA, len(cfg.EMAPeriods))
	for i, p := range cfg.EMAPeriods {
		emas[i] = NewEMA(p)
	}
	rsi := NewRSI(RSIPeriod)
	atr := NewATR(ATRPeriod)
	pivots := NewPivotPoints()
	vol := NewVolumeMA(cfg.VolumeWindow)

	frames := make([]Frame, len(bars))
	for i, b := range bars {
		for _, e := range emas {
			e.Update(b)
		}
		rsi.Update(b)
		atr.Update(b)
		pivots.Update(b)
		vol.Update(b)

		fr := Frame{
			EMA:       make(map[int]float64, len(emas)),
			RSI14:     value(rsi),
			ATR14:     value(atr),
			VolumeAvg: value(vol),
		}
		for j, e := range emas {
			fr.EMA[cfg.EMAPeriods[j]] = value(e)
		}

		if pivots.Ready() {
			lv := pivots.Levels()
			fr.Pivot, fr.R1, fr.R2, fr.R3 = lv.Pivot, lv.R1, lv.R2, lv.R3
			fr.S1, fr.S2, fr.S3 = lv.S1, lv.S2, lv.S3
		} else {
			nan := math.NaN()
			fr.Pivot, fr.R1, fr.R2, fr.R3 = nan, nan, nan, nan
			fr.S1, fr.S2, fr.S3 = nan, nan, nan
		}

		frames[i] = fr
	}
	return frames
}

// value maps a not-ready indicator to NaN so frames never expose warm-up
// garbage as real values.
func value(ind Indicator) float64 {
	if !ind.Ready() {
		return math.NaN()
	}
	return ind.Value()
}
