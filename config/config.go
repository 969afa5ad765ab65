// Package config defines the tunables the engine consumes and the file
// loading used by the CLI. The engine itself only ever sees the value
// object; where the values come from is the caller's business.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config carries every tunable for a run. It is a value object: thread it
// through per invocation and build a fresh one to reconfigure, never mutate
// a shared instance mid-run.
type Config struct {
	Risk       Risk       `json:"risk" yaml:"risk"`
	Strategy   Strategy   `json:"strategy" yaml:"strategy"`
	Indicators Indicators `json:"indicators" yaml:"indicators"`
	Sim        Sim        `json:"sim" yaml:"sim"`
	Journal    Journal    `json:"journal" yaml:"journal"`
	Optimize   Optimize   `json:"optimize" yaml:"optimize"`
}

// Risk contains position sizing parameters.
type Risk struct {
	Fraction  float64 `json:"fraction" yaml:"fraction"`     // share of cash risked per trade
	StopATR   float64 `json:"stop_atr" yaml:"stop_atr"`     // stop distance in ATR multiples
	TargetATR float64 `json:"target_atr" yaml:"target_atr"` // target distance in ATR multiples
}

// Strategy contains the breakout/pullback entry rule parameters.
type Strategy struct {
	VolumeMultiple   float64 `json:"volume_multiple" yaml:"volume_multiple"`
	RSIOverbought    float64 `json:"rsi_overbought" yaml:"rsi_overbought"`
	RSIOversold      float64 `json:"rsi_oversold" yaml:"rsi_oversold"`
	AlignFast        int     `json:"align_fast" yaml:"align_fast"`
	AlignMid         int     `json:"align_mid" yaml:"align_mid"`
	AlignSlow        int     `json:"align_slow" yaml:"align_slow"`
	AlignBars        int     `json:"align_bars" yaml:"align_bars"`
	CrossFast        int     `json:"cross_fast" yaml:"cross_fast"`
	CrossSlow        int     `json:"cross_slow" yaml:"cross_slow"`
	PullbackLookback int     `json:"pullback_lookback" yaml:"pullback_lookback"`
}

// Indicators contains the derived-series parameters for the pipeline.
type Indicators struct {
	EMAPeriods   []int `json:"ema_periods" yaml:"ema_periods"`
	VolumeWindow int   `json:"volume_window" yaml:"volume_window"`
}

// HasPeriod reports whether p is one of the configured EMA periods.
func (i Indicators) HasPeriod(p int) bool {
	for _, q := range i.EMAPeriods {
		if q == p {
			return true
		}
	}
	return false
}

// Exit priorities for a bar whose range touches both stop and target.
const (
	ExitConservative = "conservative" // stop first, worst case for the trader
	ExitOptimistic   = "optimistic"   // target first
)

// Sim contains replay-loop parameters.
type Sim struct {
	ExitPriority string `json:"exit_priority" yaml:"exit_priority"`
	MaxHoldBars  int    `json:"max_hold_bars" yaml:"max_hold_bars"` // 0 disables the time exit
}

// Journal selects how the CLI persists backtest results.
type Journal struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	RunsFile   string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Optimizer objectives.
const (
	ObjectiveTotalReturn  = "total_return"
	ObjectiveSharpe       = "sharpe"
	ObjectiveProfitFactor = "profit_factor"
)

// Optimize contains grid-search parameters. An empty candidate list keeps
// the base config's value for that dimension.
type Optimize struct {
	Objective         string    `json:"objective" yaml:"objective"`
	Workers           int       `json:"workers" yaml:"workers"` // 0 means NumCPU
	RiskFractions     []float64 `json:"risk_fractions,omitempty" yaml:"risk_fractions,omitempty"`
	StopATRs          []float64 `json:"stop_atrs,omitempty" yaml:"stop_atrs,omitempty"`
	TargetATRs        []float64 `json:"target_atrs,omitempty" yaml:"target_atrs,omitempty"`
	VolumeMultiples   []float64 `json:"volume_multiples,omitempty" yaml:"volume_multiples,omitempty"`
	PullbackLookbacks []int     `json:"pullback_lookbacks,omitempty" yaml:"pullback_lookbacks,omitempty"`
}

// LoadFromFile loads configuration from a YAML or JSON file. Parsing starts
// from Default(), so keys missing from the file keep their default values.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		if jerr := json.Unmarshal(data, &cfg); jerr != nil {
			return Config{}, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration to path, YAML for .yaml/.yml and
// indented JSON otherwise.
func (c Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Risk.Fraction <= 0 || c.Risk.Fraction > 1 {
		return fmt.Errorf("risk.fraction must be between 0 and 1")
	}
	if c.Risk.StopATR <= 0 {
		return fmt.Errorf("risk.stop_atr must be positive")
	}
	if c.Risk.TargetATR <= 0 {
		return fmt.Errorf("risk.target_atr must be positive")
	}

	if c.Strategy.VolumeMultiple <= 0 {
		return fmt.Errorf("strategy.volume_multiple must be positive")
	}
	if c.Strategy.RSIOversold <= 0 || c.Strategy.RSIOverbought >= 100 ||
		c.Strategy.RSIOversold >= c.Strategy.RSIOverbought {
		return fmt.Errorf("strategy RSI thresholds must satisfy 0 < oversold < overbought < 100")
	}
	if c.Strategy.AlignBars < 1 {
		return fmt.Errorf("strategy.align_bars must be at least 1")
	}
	if c.Strategy.PullbackLookback < 1 {
		return fmt.Errorf("strategy.pullback_lookback must be at least 1")
	}
	if !(c.Strategy.AlignFast < c.Strategy.AlignMid && c.Strategy.AlignMid < c.Strategy.AlignSlow) {
		return fmt.Errorf("strategy alignment periods must satisfy fast < mid < slow")
	}
	if c.Strategy.CrossFast >= c.Strategy.CrossSlow {
		return fmt.Errorf("strategy crossover periods must satisfy fast < slow")
	}
	for _, p := range []int{
		c.Strategy.AlignFast, c.Strategy.AlignMid, c.Strategy.AlignSlow,
		c.Strategy.CrossFast, c.Strategy.CrossSlow,
	} {
		if !c.Indicators.HasPeriod(p) {
			return fmt.Errorf("strategy references EMA period %d, not in indicators.ema_periods", p)
		}
	}

	if len(c.Indicators.EMAPeriods) == 0 {
		return fmt.Errorf("indicators.ema_periods must not be empty")
	}
	for _, p := range c.Indicators.EMAPeriods {
		if p < 1 {
			return fmt.Errorf("indicators.ema_periods entries must be positive, got %d", p)
		}
	}
	if c.Indicators.VolumeWindow < 1 {
		return fmt.Errorf("indicators.volume_window must be at least 1")
	}

	if c.Sim.ExitPriority != ExitConservative && c.Sim.ExitPriority != ExitOptimistic {
		return fmt.Errorf("sim.exit_priority must be %q or %q", ExitConservative, ExitOptimistic)
	}
	if c.Sim.MaxHoldBars < 0 {
		return fmt.Errorf("sim.max_hold_bars must not be negative")
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.RunsFile == "" || c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal runs_file, trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	switch c.Optimize.Objective {
	case ObjectiveTotalReturn, ObjectiveSharpe, ObjectiveProfitFactor:
	default:
		return fmt.Errorf("optimize.objective must be %q, %q or %q",
			ObjectiveTotalReturn, ObjectiveSharpe, ObjectiveProfitFactor)
	}
	if c.Optimize.Workers < 0 {
		return fmt.Errorf("optimize.workers must not be negative")
	}
	for _, lb := range c.Optimize.PullbackLookbacks {
		if lb < 1 {
			return fmt.Errorf("optimize.pullback_lookbacks entries must be at least 1")
		}
	}

	return nil
}

// Default returns a configuration with the documented defaults.
func Default() Config {
	return Config{
		Risk: Risk{
			Fraction:  0.02,
			StopATR:   2.0,
			TargetATR: 3.0,
		},
		Strategy: Strategy{
			VolumeMultiple:   1.2,
			RSIOverbought:    70,
			RSIOversold:      30,
			AlignFast:        5,
			AlignMid:         20,
			AlignSlow:        50,
			AlignBars:        2,
			CrossFast:        5,
			CrossSlow:        20,
			PullbackLookback: 5,
		},
		Indicators: Indicators{
			EMAPeriods:   []int{5, 10, 20, 50, 100, 200},
			VolumeWindow: 20,
		},
		Sim: Sim{
			ExitPriority: ExitConservative,
			MaxHoldBars:  0,
		},
		Journal: Journal{
			Type: "none",
		},
		Optimize: Optimize{
			Objective: ObjectiveTotalReturn,
		},
	}
}
