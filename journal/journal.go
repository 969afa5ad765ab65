// Package journal persists finished runs: the run row itself, its
// trades, and its equity curve, to CSV files or a SQLite database. Money
// fields travel as decimal strings so nothing gets rounded on the way to
// disk.
package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/pivotrader/config"
	"github.com/rustyeddy/pivotrader/sim"
)

// RunRecord mirrors the runs table.
type RunRecord struct {
	RunID        string
	Created      time.Time
	Dataset      string
	Chain        string
	Config       []byte // full config as JSON
	Start        time.Time
	End          time.Time
	Bars         int
	InitialCash  decimal.Decimal
	FinalEquity  decimal.Decimal
	TotalReturn  float64
	MaxDrawdown  float64
	WinRate      float64
	Trades       int
	Wins         int
	Losses       int
	AvgRR        float64
	ProfitFactor float64
	Sharpe       float64
	Exposure     float64
}

// TradeRecord mirrors the trades table.
type TradeRecord struct {
	TradeID    string
	RunID      string
	Strategy   string
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Stop       float64
	Target     float64
	Quantity   int64
	PnL        decimal.Decimal
	Reason     string
	BarsHeld   int
}

// EquityRecord mirrors the equity table.
type EquityRecord struct {
	RunID  string
	Time   time.Time
	Equity decimal.Decimal
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordTrade(TradeRecord) error
	RecordEquity(EquityRecord) error
	Close() error
}

// NewRunRecord condenses a finished result into its run row.
func NewRunRecord(runID, dataset, chain string, cfg config.Config, res *sim.Result) (RunRecord, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return RunRecord{}, fmt.Errorf("journal: marshal config: %w", err)
	}

	rep := res.Report
	rec := RunRecord{
		RunID:        runID,
		Created:      time.Now().UTC(),
		Dataset:      dataset,
		Chain:        chain,
		Config:       raw,
		Bars:         len(res.Equity),
		InitialCash:  rep.InitialCash,
		FinalEquity:  rep.FinalEquity,
		TotalReturn:  rep.TotalReturn,
		MaxDrawdown:  rep.MaxDrawdown,
		WinRate:      rep.WinRate,
		Trades:       rep.TradeCount,
		Wins:         rep.Wins,
		Losses:       rep.Losses,
		AvgRR:        rep.AvgRiskReward,
		ProfitFactor: rep.ProfitFactor,
		Sharpe:       rep.Sharpe,
		Exposure:     rep.Exposure,
	}
	if len(res.Equity) > 0 {
		rec.Start = res.Equity[0].Time
		rec.End = res.Equity[len(res.Equity)-1].Time
	}
	return rec, nil
}

// NewTradeRecord attaches a finished trade to its run.
func NewTradeRecord(runID string, t sim.Trade) TradeRecord {
	return TradeRecord{
		TradeID:    t.ID,
		RunID:      runID,
		Strategy:   t.Strategy,
		EntryTime:  t.EntryTime,
		ExitTime:   t.ExitTime,
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		Stop:       t.Stop,
		Target:     t.Target,
		Quantity:   t.Quantity,
		PnL:        t.PnL,
		Reason:     string(t.Reason),
		BarsHeld:   t.BarsHeld,
	}
}

// NewEquityRecord attaches one equity point to its run.
func NewEquityRecord(runID string, p sim.EquityPoint) EquityRecord {
	return EquityRecord{RunID: runID, Time: p.Time, Equity: p.Equity}
}

// Record writes a whole result under one run row.
func Record(j Journal, rec RunRecord, res *sim.Result) error {
	if err := j.RecordRun(rec); err != nil {
		return err
	}
	for _, tr := range res.Trades {
		if err := j.RecordTrade(NewTradeRecord(rec.RunID, tr)); err != nil {
			return err
		}
	}
	for _, p := range res.Equity {
		if err := j.RecordEquity(NewEquityRecord(rec.RunID, p)); err != nil {
			return err
		}
	}
	return nil
}

// Open builds the journal cfg selects. The "none" type yields a nil
// Journal; callers skip persistence when it is nil.
func Open(cfg config.Journal) (Journal, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "csv":
		return NewCSV(cfg.RunsFile, cfg.TradesFile, cfg.EquityFile)
	case "sqlite":
		return NewSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("journal: unknown type %q", cfg.Type)
	}
}
