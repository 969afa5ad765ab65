package indicators

import (
	"github.com/rustyeddy/pivotrader/market"
)

// Levels holds one bar's classic pivot levels, derived from the *previous*
// completed bar's high/low/close so the current bar never informs its own
// support/resistance.
type Levels struct {
	Pivot float64
	R1    float64
	R2    float64
	R3    float64
	S1    float64
	S2    float64
	S3    float64
}

// PivotPoints is a streaming classic pivot calculator. It becomes ready at
// bar index 1, once a previous completed bar exists.
type PivotPoints struct {
	levels  Levels
	prev    market.Bar
	hasPrev bool
	ready   bool
}

// NewPivotPoints creates a classic pivot level indicator.
func NewPivotPoints() *PivotPoints {
	return &PivotPoints{}
}

func (p *PivotPoints) Name() string {
	return "Pivots"
}

func (p *PivotPoints) Warmup() int {
	return 2
}

func (p *PivotPoints) Reset() {
	p.levels = Levels{}
	p.prev = market.Bar{}
	p.hasPrev = false
	p.ready = false
}

func (p *PivotPoints) Update(b market.Bar) {
	if p.hasPrev {
		p.levels = pivotLevels(p.prev)
		p.ready = true
	}
	p.prev = b
	p.hasPrev = true
}

func (p *PivotPoints) Ready() bool {
	return p.ready
}

// Value returns the central pivot. Use Levels for the full set.
func (p *PivotPoints) Value() float64 {
	if !p.ready {
		return 0
	}
	return p.levels.Pivot
}

// Levels returns all seven levels for the current bar.
func (p *PivotPoints) Levels() Levels {
	if !p.ready {
		return Levels{}
	}
	return p.levels
}

func pivotLevels(prev market.Bar) Levels {
	h, l, c := prev.High, prev.Low, prev.Close
	pivot := (h + l + c) / 3

	return Levels{
		Pivot: pivot,
		R1:    2*pivot - l,
		S1:    2*pivot - h,
		R2:    pivot + (h - l),
		S2:    pivot - (h - l),
		R3:    h + 2*(pivot-l),
		S3:    l - 2*(h-pivot),
	}
}
