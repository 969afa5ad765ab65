// Package market defines the OHLCV bar series the engine consumes.
package market

import "time"

// Bar is one completed OHLCV period. Series are ordered oldest first with
// strictly increasing timestamps and are treated as immutable once built.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Range returns the bar's high-low spread.
func (b Bar) Range() float64 {
	return b.High - b.Low
}
