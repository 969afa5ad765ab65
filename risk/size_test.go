package risk

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/pivotrader/config"
)

func TestSize_GoldScenario(t *testing.T) {
	t.Parallel()

	in := Inputs{
		Entry: 1850,
		ATR:   27.5,
		Cash:  decimal.NewFromInt(1_000_000),
	}

	plan, err := Size(in, config.Default().Risk)
	require.NoError(t, err)

	assert.InDelta(t, 1850.0, plan.Entry, 1e-9)
	assert.InDelta(t, 1795.0, plan.Stop, 1e-9)
	assert.InDelta(t, 1932.5, plan.Target, 1e-9)
	assert.Equal(t, int64(363), plan.Quantity)
	assert.True(t, plan.RiskAmount.Equal(decimal.NewFromInt(20_000)),
		"risk amount = %s", plan.RiskAmount)
	assert.InDelta(t, 0.02, plan.Fraction, 1e-9)
	assert.InDelta(t, 1.5, plan.RR(), 1e-9)
}

func TestSize_ClampsToAvailableCash(t *testing.T) {
	t.Parallel()

	// The 2% risk budget with a tight stop would buy 200 units, far more
	// than 1000 in cash can pay for at 100 a unit.
	in := Inputs{
		Entry: 100,
		ATR:   0.05,
		Cash:  decimal.NewFromInt(1000),
	}

	plan, err := Size(in, config.Default().Risk)
	require.NoError(t, err)

	assert.Equal(t, int64(10), plan.Quantity)
	cost := decimal.NewFromInt(plan.Quantity).Mul(decimal.NewFromFloat(plan.Entry))
	assert.True(t, cost.LessThanOrEqual(in.Cash), "cost = %s", cost)
}

func TestSize_InsufficientCapital(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Inputs
	}{
		{
			// Clamping to cash leaves zero whole units.
			name: "cannot afford one unit",
			in:   Inputs{Entry: 100, ATR: 0.5, Cash: decimal.NewFromInt(50)},
		},
		{
			// The risk budget itself is below the per-unit risk.
			name: "risk budget below one unit of risk",
			in:   Inputs{Entry: 5000, ATR: 125, Cash: decimal.NewFromInt(10_000)},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Size(tt.in, config.Default().Risk)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInsufficientCapital), "got %v", err)
		})
	}
}

func TestSize_InvalidInputs(t *testing.T) {
	t.Parallel()

	cash := decimal.NewFromInt(100_000)
	tests := []struct {
		name string
		in   Inputs
	}{
		{"NaN atr", Inputs{Entry: 100, ATR: math.NaN(), Cash: cash}},
		{"zero atr", Inputs{Entry: 100, ATR: 0, Cash: cash}},
		{"negative atr", Inputs{Entry: 100, ATR: -1, Cash: cash}},
		{"zero entry", Inputs{Entry: 0, ATR: 1, Cash: cash}},
		{"NaN entry", Inputs{Entry: math.NaN(), ATR: 1, Cash: cash}},
		{"stop below zero", Inputs{Entry: 10, ATR: 6, Cash: cash}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Size(tt.in, config.Default().Risk)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
		})
	}
}

func TestPlanRR(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.5, Plan{Entry: 100, Stop: 98, Target: 103}.RR(), 1e-9)
	assert.Zero(t, Plan{Entry: 100, Stop: 100, Target: 103}.RR())
}
