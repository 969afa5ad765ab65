package indicators

import (
	"fmt"

	"github.com/rustyeddy/pivotrader/market"
)

// RSI is a streaming Relative Strength Index using Wilder's smoothing.
// With period p it becomes ready at bar index p (the first p deltas seed
// the averages). Values are bounded to [0,100]; a window with zero average
// loss yields 100.
type RSI struct {
	period           int
	avgGain, avgLoss float64
	sumGain, sumLoss float64
	count            int
	prevClose        float64
	hasPrev          bool
}

// NewRSI creates a Relative Strength Index indicator with the given period.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI(%d)", r.period)
}

func (r *RSI) Warmup() int {
	// period deltas need period+1 bars
	return r.period + 1
}

func (r *RSI) Reset() {
	r.avgGain = 0
	r.avgLoss = 0
	r.sumGain = 0
	r.sumLoss = 0
	r.count = 0
	r.prevClose = 0
	r.hasPrev = false
}

func (r *RSI) Update(b market.Bar) {
	if !r.hasPrev {
		r.prevClose = b.Close
		r.hasPrev = true
		return
	}

	delta := b.Close - r.prevClose
	r.prevClose = b.Close

	var gain, loss float64
	if delta > 0 {
		gain = delta
	} else {
		loss = -delta
	}

	if r.count < r.period {
		// During warmup, accumulate sums for the initial averages
		r.sumGain += gain
		r.sumLoss += loss
		r.count++
		if r.count == r.period {
			r.avgGain = r.sumGain / float64(r.period)
			r.avgLoss = r.sumLoss / float64(r.period)
		}
		return
	}

	// Wilder's smoothing
	r.avgGain = (r.avgGain*float64(r.period-1) + gain) / float64(r.period)
	r.avgLoss = (r.avgLoss*float64(r.period-1) + loss) / float64(r.period)
}

func (r *RSI) Ready() bool {
	return r.count >= r.period
}

func (r *RSI) Value() float64 {
	if !r.Ready() {
		return 0
	}
	if r.avgLoss == 0 {
		return 100
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs)
}
