package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type csvPaths struct {
	runs   string
	trades string
	equity string
}

func newTestCSV(t *testing.T) (*CSV, csvPaths) {
	t.Helper()

	dir := t.TempDir()
	paths := csvPaths{
		runs:   filepath.Join(dir, "runs.csv"),
		trades: filepath.Join(dir, "trades.csv"),
		equity: filepath.Join(dir, "equity.csv"),
	}

	j, err := NewCSV(paths.runs, paths.trades, paths.equity)
	require.NoError(t, err)

	return j, paths
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWritesHeaders(t *testing.T) {
	t.Parallel()

	j, paths := newTestCSV(t)
	assert.NoError(t, j.Close())

	assert.Equal(t, runHeader, readCSV(t, paths.runs)[0])
	assert.Equal(t, tradeHeader, readCSV(t, paths.trades)[0])
	assert.Equal(t, equityHeader, readCSV(t, paths.equity)[0])
}

func TestCSVRecordTrade(t *testing.T) {
	t.Parallel()

	j, paths := newTestCSV(t)

	rec := testTrade("T1", "R1")
	require.NoError(t, j.RecordTrade(rec))
	assert.NoError(t, j.Close())

	rows := readCSV(t, paths.trades)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "T1", row[0])
	assert.Equal(t, "R1", row[1])
	assert.Equal(t, "BREAKOUT", row[2])
	assert.Equal(t, "2024-02-05T00:00:00Z", row[3])
	assert.Equal(t, "1850.000000", row[5])
	assert.Equal(t, "10", row[9])
	assert.Equal(t, "825", row[10])
	assert.Equal(t, "TARGET", row[11])
	assert.Equal(t, "4", row[12])
}

func TestCSVRecordRun(t *testing.T) {
	t.Parallel()

	j, paths := newTestCSV(t)

	rec := testRun("R1")
	require.NoError(t, j.RecordRun(rec))
	assert.NoError(t, j.Close())

	rows := readCSV(t, paths.runs)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "R1", row[0])
	assert.Equal(t, "testdata/xauusd_daily.csv", row[2])
	assert.Equal(t, "BREAKOUT,PULLBACK", row[3])
	assert.Equal(t, `{"risk":{"fraction":0.02}}`, row[4])
	assert.Equal(t, "100000", row[8])
	assert.Equal(t, "103250.5", row[9])
	assert.Equal(t, "0.032505", row[10])
	assert.Equal(t, "20", row[13])
}

func TestCSVRecordEquity(t *testing.T) {
	t.Parallel()

	j, paths := newTestCSV(t)

	rec := EquityRecord{
		RunID:  "R1",
		Time:   testRun("R1").Start,
		Equity: decimal.RequireFromString("10000.25"),
	}
	require.NoError(t, j.RecordEquity(rec))
	assert.NoError(t, j.Close())

	rows := readCSV(t, paths.equity)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"R1", "2024-01-02T00:00:00Z", "10000.25"}, rows[1])
}

func TestCSVAppendsAcrossReopens(t *testing.T) {
	t.Parallel()

	j, paths := newTestCSV(t)
	require.NoError(t, j.RecordTrade(testTrade("T1", "R1")))
	require.NoError(t, j.Close())

	j, err := NewCSV(paths.runs, paths.trades, paths.equity)
	require.NoError(t, err)
	require.NoError(t, j.RecordTrade(testTrade("T2", "R2")))
	require.NoError(t, j.Close())

	rows := readCSV(t, paths.trades)
	require.Len(t, rows, 3)
	assert.Equal(t, tradeHeader, rows[0])
	assert.Equal(t, "T1", rows[1][0])
	assert.Equal(t, "T2", rows[2][0])
}
