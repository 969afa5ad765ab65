package market

import (
	"fmt"
	"time"
)

// MalformedBarError reports a bar the engine cannot trust: a timestamp that
// does not increase, a non-positive price, or a high below the low. Cash and
// position bookkeeping cannot be trusted past corrupted input, so callers
// abort the run instead of skipping the bar.
type MalformedBarError struct {
	Index  int
	Time   time.Time
	Reason string
}

func (e *MalformedBarError) Error() string {
	return fmt.Sprintf("malformed bar at %s (index %d): %s",
		e.Time.Format(time.RFC3339), e.Index, e.Reason)
}

// Validate checks an ordered bar series for the invariants the simulator
// depends on. It returns a *MalformedBarError naming the first offending
// bar, or nil if the series is clean.
func Validate(bars []Bar) error {
	for i, b := range bars {
		switch {
		case b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0:
			return &MalformedBarError{Index: i, Time: b.Time, Reason: "non-positive price"}
		case b.High < b.Low:
			return &MalformedBarError{Index: i, Time: b.Time, Reason: "high below low"}
		case b.Volume < 0:
			return &MalformedBarError{Index: i, Time: b.Time, Reason: "negative volume"}
		case i > 0 && !b.Time.After(bars[i-1].Time):
			return &MalformedBarError{Index: i, Time: b.Time, Reason: "timestamp does not increase"}
		}
	}
	return nil
}
