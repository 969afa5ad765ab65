package journal

import (
	"database/sql"
	"fmt"
	"math"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// SQLite persists run records in a local SQLite database. The schema is
// created on open, so pointing at a fresh file is enough to start recording.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) RecordRun(rec RunRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (
			run_id, created, dataset, chain, config,
			start_time, end_time, bars, initial_cash, final_equity,
			total_return, max_drawdown, win_rate, trades, wins, losses,
			avg_rr, profit_factor, sharpe, exposure
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Created, rec.Dataset, rec.Chain, string(rec.Config),
		rec.Start, rec.End, rec.Bars, rec.InitialCash.String(), rec.FinalEquity.String(),
		rec.TotalReturn, rec.MaxDrawdown, rec.WinRate, rec.Trades, rec.Wins, rec.Losses,
		rec.AvgRR, realOrNull(rec.ProfitFactor), rec.Sharpe, rec.Exposure,
	)
	if err != nil {
		return fmt.Errorf("journal: insert run %s: %w", rec.RunID, err)
	}
	return nil
}

func (s *SQLite) RecordTrade(rec TradeRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO trades (
			trade_id, run_id, strategy, entry_time, exit_time,
			entry_price, exit_price, stop, target, quantity,
			pnl, reason, bars_held
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TradeID, rec.RunID, rec.Strategy, rec.EntryTime, rec.ExitTime,
		rec.EntryPrice, rec.ExitPrice, rec.Stop, rec.Target, rec.Quantity,
		rec.PnL.String(), rec.Reason, rec.BarsHeld,
	)
	if err != nil {
		return fmt.Errorf("journal: insert trade %s: %w", rec.TradeID, err)
	}
	return nil
}

func (s *SQLite) RecordEquity(rec EquityRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO equity (run_id, time, equity) VALUES (?, ?, ?)`,
		rec.RunID, rec.Time, rec.Equity.String(),
	)
	if err != nil {
		return fmt.Errorf("journal: insert equity point: %w", err)
	}
	return nil
}

// GetRun fetches a single run by its ID.
func (s *SQLite) GetRun(runID string) (RunRecord, error) {
	row := s.db.QueryRow(`
		SELECT run_id, created, dataset, chain, config,
			start_time, end_time, bars, initial_cash, final_equity,
			total_return, max_drawdown, win_rate, trades, wins, losses,
			avg_rr, profit_factor, sharpe, exposure
		FROM runs WHERE run_id = ?`, runID)

	rec, err := scanRun(row)
	if err == sql.ErrNoRows {
		return RunRecord{}, fmt.Errorf("journal: run %s not found", runID)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("journal: get run %s: %w", runID, err)
	}
	return rec, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLite) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(`
		SELECT run_id, created, dataset, chain, config,
			start_time, end_time, bars, initial_cash, final_equity,
			total_return, max_drawdown, win_rate, trades, wins, losses,
			avg_rr, profit_factor, sharpe, exposure
		FROM runs ORDER BY created DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: list runs: %w", err)
	}
	defer rows.Close()

	var recs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("journal: scan run: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *SQLite) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := s.db.Query(`
		SELECT trade_id, run_id, strategy, entry_time, exit_time,
			entry_price, exit_price, stop, target, quantity,
			pnl, reason, bars_held
		FROM trades WHERE run_id = ? ORDER BY entry_time`, runID)
	if err != nil {
		return nil, fmt.Errorf("journal: list trades for %s: %w", runID, err)
	}
	defer rows.Close()

	var recs []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		var pnl string
		err := rows.Scan(
			&rec.TradeID, &rec.RunID, &rec.Strategy, &rec.EntryTime, &rec.ExitTime,
			&rec.EntryPrice, &rec.ExitPrice, &rec.Stop, &rec.Target, &rec.Quantity,
			&pnl, &rec.Reason, &rec.BarsHeld,
		)
		if err != nil {
			return nil, fmt.Errorf("journal: scan trade: %w", err)
		}
		if rec.PnL, err = decimal.NewFromString(pnl); err != nil {
			return nil, fmt.Errorf("journal: parse trade pnl %q: %w", pnl, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *SQLite) ListEquityByRun(runID string) ([]EquityRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, time, equity FROM equity WHERE run_id = ? ORDER BY time`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("journal: list equity for %s: %w", runID, err)
	}
	defer rows.Close()

	var recs []EquityRecord
	for rows.Next() {
		var rec EquityRecord
		var equity string
		if err := rows.Scan(&rec.RunID, &rec.Time, &equity); err != nil {
			return nil, fmt.Errorf("journal: scan equity point: %w", err)
		}
		if rec.Equity, err = decimal.NewFromString(equity); err != nil {
			return nil, fmt.Errorf("journal: parse equity %q: %w", equity, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunRecord, error) {
	var rec RunRecord
	var cfg string
	var cash, equity string
	var pf sql.NullFloat64
	err := row.Scan(
		&rec.RunID, &rec.Created, &rec.Dataset, &rec.Chain, &cfg,
		&rec.Start, &rec.End, &rec.Bars, &cash, &equity,
		&rec.TotalReturn, &rec.MaxDrawdown, &rec.WinRate, &rec.Trades, &rec.Wins, &rec.Losses,
		&rec.AvgRR, &pf, &rec.Sharpe, &rec.Exposure,
	)
	if err != nil {
		return RunRecord{}, err
	}
	rec.Config = []byte(cfg)
	if rec.InitialCash, err = decimal.NewFromString(cash); err != nil {
		return RunRecord{}, fmt.Errorf("parse initial cash %q: %w", cash, err)
	}
	if rec.FinalEquity, err = decimal.NewFromString(equity); err != nil {
		return RunRecord{}, fmt.Errorf("parse final equity %q: %w", equity, err)
	}
	if pf.Valid {
		rec.ProfitFactor = pf.Float64
	} else {
		rec.ProfitFactor = math.Inf(1)
	}
	return rec, nil
}

// realOrNull maps values SQLite cannot store in a REAL column to NULL.
// A run with no losing trades has an infinite profit factor.
func realOrNull(v float64) any {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return v
}
