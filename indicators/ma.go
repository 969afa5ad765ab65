package indicators

import (
	"fmt"

	"github.com/rustyeddy/pivotrader/market"
)

// ExponentialMA is a streaming Exponential Moving Average over closes.
// The first value is seeded with the SMA of the first 'period' closes, so it
// becomes ready at bar index period-1.
type ExponentialMA struct {
	period     int
	multiplier float64
	ema        float64
	count      int
	warmupSum  float64
}

// NewEMA creates an Exponential Moving Average indicator with the given period.
func NewEMA(period int) *ExponentialMA {
	return &ExponentialMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *ExponentialMA) Name() string {
	return fmt.Sprintf("EMA(%d)", e.period)
}

func (e *ExponentialMA) Warmup() int {
	return e.period
}

func (e *ExponentialMA) Reset() {
	e.ema = 0
	e.count = 0
	e.warmupSum = 0
}

func (e *ExponentialMA) Update(b market.Bar) {
	if e.count < e.period {
		// During warmup, accumulate sum for the initial SMA seed
		e.warmupSum += b.Close
		e.count++
		if e.count == e.period {
			e.ema = e.warmupSum / float64(e.period)
		}
		return
	}
	e.ema = (b.Close-e.ema)*e.multiplier + e.ema
}

func (e *ExponentialMA) Ready() bool {
	return e.count >= e.period
}

func (e *ExponentialMA) Value() float64 {
	if !e.Ready() {
		return 0
	}
	return e.ema
}

// VolumeMA is a streaming simple moving average over volume, used by the
// breakout rule's volume confirmation. The window includes the current bar.
type VolumeMA struct {
	period  int
	volumes []float64
	sum     float64
}

// NewVolumeMA creates a trailing volume average with the given window.
func NewVolumeMA(period int) *VolumeMA {
	return &VolumeMA{
		period:  period,
		volumes: make([]float64, 0, period),
	}
}

func (m *VolumeMA) Name() string {
	return fmt.Sprintf("VolMA(%d)", m.period)
}

func (m *VolumeMA) Warmup() int {
	return m.period
}

func (m *VolumeMA) Reset() {
	m.volumes = m.volumes[:0]
	m.sum = 0
}

func (m *VolumeMA) Update(b market.Bar) {
	m.volumes = append(m.volumes, b.Volume)
	m.sum += b.Volume
	if len(m.volumes) > m.period {
		m.sum -= m.volumes[0]
		m.volumes = m.volumes[1:]
	}
}

func (m *VolumeMA) Ready() bool {
	return len(m.volumes) >= m.period
}

func (m *VolumeMA) Value() float64 {
	if !m.Ready() {
		return 0
	}
	return m.sum / float64(len(m.volumes))
}
