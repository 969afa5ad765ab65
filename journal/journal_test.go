package journal

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/pivotrader/config"
	"github.com/rustyeddy/pivotrader/sim"
)

func testResult() *sim.Result {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	trades := []sim.Trade{{
		ID:         "T1",
		Strategy:   "BREAKOUT",
		EntryTime:  day(3),
		ExitTime:   day(5),
		EntryPrice: 100,
		ExitPrice:  106,
		Stop:       96,
		Target:     106,
		Quantity:   50,
		PnL:        decimal.NewFromInt(300),
		Reason:     sim.ExitTarget,
		BarsHeld:   2,
	}}
	equity := []sim.EquityPoint{
		{Time: day(2), Equity: decimal.NewFromInt(10000)},
		{Time: day(3), Equity: decimal.NewFromInt(10000)},
		{Time: day(4), Equity: decimal.NewFromInt(10150)},
		{Time: day(5), Equity: decimal.NewFromInt(10300)},
	}

	res := &sim.Result{Trades: trades, Equity: equity, Signals: 1}
	res.Report = sim.Summarize(decimal.NewFromInt(10000), equity, trades)
	return res
}

func TestNewRunRecord(t *testing.T) {
	t.Parallel()

	res := testResult()
	rec, err := NewRunRecord("R1", "testdata/gold.csv", "BREAKOUT,PULLBACK", config.Default(), res)
	require.NoError(t, err)

	assert.Equal(t, "R1", rec.RunID)
	assert.Equal(t, "testdata/gold.csv", rec.Dataset)
	assert.Equal(t, "BREAKOUT,PULLBACK", rec.Chain)
	assert.False(t, rec.Created.IsZero())
	assert.Contains(t, string(rec.Config), `"fraction":0.02`)

	assert.True(t, rec.Start.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.True(t, rec.End.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 4, rec.Bars)

	assert.True(t, rec.InitialCash.Equal(decimal.NewFromInt(10000)))
	assert.True(t, rec.FinalEquity.Equal(decimal.NewFromInt(10300)))
	assert.InDelta(t, 0.03, rec.TotalReturn, 1e-9)
	assert.Equal(t, 1, rec.Trades)
	assert.Equal(t, 1, rec.Wins)
	assert.Equal(t, 0, rec.Losses)
	assert.True(t, math.IsInf(rec.ProfitFactor, 1))
}

func TestNewTradeRecord(t *testing.T) {
	t.Parallel()

	tr := testResult().Trades[0]
	rec := NewTradeRecord("R1", tr)

	assert.Equal(t, tr.ID, rec.TradeID)
	assert.Equal(t, "R1", rec.RunID)
	assert.Equal(t, tr.Strategy, rec.Strategy)
	assert.True(t, rec.EntryTime.Equal(tr.EntryTime))
	assert.True(t, rec.ExitTime.Equal(tr.ExitTime))
	assert.Equal(t, tr.EntryPrice, rec.EntryPrice)
	assert.Equal(t, tr.Quantity, rec.Quantity)
	assert.True(t, rec.PnL.Equal(tr.PnL))
	assert.Equal(t, string(tr.Reason), rec.Reason)
	assert.Equal(t, tr.BarsHeld, rec.BarsHeld)
}

func TestRecordWritesEverything(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	res := testResult()
	rec, err := NewRunRecord("R1", "gold.csv", "BREAKOUT", config.Default(), res)
	require.NoError(t, err)

	require.NoError(t, Record(j, rec, res))

	got, err := j.GetRun("R1")
	require.NoError(t, err)
	assert.Equal(t, "R1", got.RunID)

	trades, err := j.ListTradesByRun("R1")
	require.NoError(t, err)
	assert.Len(t, trades, 1)

	equity, err := j.ListEquityByRun("R1")
	require.NoError(t, err)
	assert.Len(t, equity, 4)
}

func TestOpenNone(t *testing.T) {
	t.Parallel()

	j, err := Open(config.Journal{Type: "none"})
	assert.NoError(t, err)
	assert.Nil(t, j)

	j, err = Open(config.Journal{})
	assert.NoError(t, err)
	assert.Nil(t, j)
}

func TestOpenUnknownType(t *testing.T) {
	t.Parallel()

	_, err := Open(config.Journal{Type: "postgres"})
	assert.ErrorContains(t, err, "unknown type")
}

func TestOpenSQLite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	j, err := Open(config.Journal{Type: "sqlite", DBPath: filepath.Join(dir, "runs.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	assert.IsType(t, &SQLite{}, j)
}

func TestOpenCSV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	j, err := Open(config.Journal{
		Type:       "csv",
		RunsFile:   filepath.Join(dir, "runs.csv"),
		TradesFile: filepath.Join(dir, "trades.csv"),
		EquityFile: filepath.Join(dir, "equity.csv"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	assert.IsType(t, &CSV{}, j)
}
