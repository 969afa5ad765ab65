package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

var (
	runHeader = []string{
		"run_id", "created", "dataset", "chain", "config",
		"start_time", "end_time", "bars", "initial_cash", "final_equity",
		"total_return", "max_drawdown", "win_rate", "trades", "wins", "losses",
		"avg_rr", "profit_factor", "sharpe", "exposure",
	}
	tradeHeader = []string{
		"trade_id", "run_id", "strategy", "entry_time", "exit_time",
		"entry_price", "exit_price", "stop", "target", "quantity",
		"pnl", "reason", "bars_held",
	}
	equityHeader = []string{"run_id", "time", "equity"}
)

// CSV appends records to three files, one per table. Files are created
// with a header row on first use and appended to after that, so runs
// accumulate across invocations.
type CSV struct {
	runs   *csvFile
	trades *csvFile
	equity *csvFile
}

func NewCSV(runsPath, tradesPath, equityPath string) (*CSV, error) {
	runs, err := newCSVFile(runsPath, runHeader)
	if err != nil {
		return nil, err
	}
	trades, err := newCSVFile(tradesPath, tradeHeader)
	if err != nil {
		runs.close()
		return nil, err
	}
	equity, err := newCSVFile(equityPath, equityHeader)
	if err != nil {
		runs.close()
		trades.close()
		return nil, err
	}
	return &CSV{runs: runs, trades: trades, equity: equity}, nil
}

func (c *CSV) RecordRun(rec RunRecord) error {
	return c.runs.write([]string{
		rec.RunID,
		rec.Created.Format(time.RFC3339),
		rec.Dataset,
		rec.Chain,
		string(rec.Config),
		rec.Start.Format(time.RFC3339),
		rec.End.Format(time.RFC3339),
		strconv.Itoa(rec.Bars),
		rec.InitialCash.String(),
		rec.FinalEquity.String(),
		f(rec.TotalReturn),
		f(rec.MaxDrawdown),
		f(rec.WinRate),
		strconv.Itoa(rec.Trades),
		strconv.Itoa(rec.Wins),
		strconv.Itoa(rec.Losses),
		f(rec.AvgRR),
		f(rec.ProfitFactor),
		f(rec.Sharpe),
		f(rec.Exposure),
	})
}

func (c *CSV) RecordTrade(rec TradeRecord) error {
	return c.trades.write([]string{
		rec.TradeID,
		rec.RunID,
		rec.Strategy,
		rec.EntryTime.Format(time.RFC3339),
		rec.ExitTime.Format(time.RFC3339),
		f(rec.EntryPrice),
		f(rec.ExitPrice),
		f(rec.Stop),
		f(rec.Target),
		strconv.FormatInt(rec.Quantity, 10),
		rec.PnL.String(),
		rec.Reason,
		strconv.Itoa(rec.BarsHeld),
	})
}

func (c *CSV) RecordEquity(rec EquityRecord) error {
	return c.equity.write([]string{
		rec.RunID,
		rec.Time.Format(time.RFC3339),
		rec.Equity.String(),
	})
}

func (c *CSV) Close() error {
	var first error
	for _, t := range []*csvFile{c.runs, c.trades, c.equity} {
		if err := t.close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type csvFile struct {
	file *os.File
	w    *csv.Writer
}

func newCSVFile(path string, header []string) (*csvFile, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("journal: stat %s: %w", path, err)
	}

	w := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			file.Close()
			return nil, fmt.Errorf("journal: write header %s: %w", path, err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			file.Close()
			return nil, fmt.Errorf("journal: write header %s: %w", path, err)
		}
	}
	return &csvFile{file: file, w: w}, nil
}

func (c *csvFile) write(row []string) error {
	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("journal: write row: %w", err)
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("journal: flush: %w", err)
	}
	return nil
}

func (c *csvFile) close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.file.Close()
		return err
	}
	return c.file.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
