package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/pivotrader/config"
	"github.com/rustyeddy/pivotrader/pkg/logging"
	"github.com/rustyeddy/pivotrader/strategies"
)

var rootCmd = &cobra.Command{
	Use:   "pivotrader",
	Short: "Pivot-level backtesting and signal research for daily bars",
	Long: `Pivotrader replays daily OHLCV series through a chain of pivot-based
entry strategies, sizing every position against account risk and reporting
the equity curve that results.

It provides tools for:
  - Backtesting the breakout/pullback chain over historical CSV data
  - Scanning one or more series for a signal on the latest bar
  - Grid-searching risk and strategy parameters
  - Journaling runs, trades and equity curves to SQLite or CSV

Complete documentation is available at https://github.com/rustyeddy/pivotrader`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var (
	cfgPath  string
	logLevel string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
}

// loadConfig returns the defaults, overlaid from --config when one was
// given. Validation happens here so every subcommand starts from a
// config known to be sane.
func loadConfig() (config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// chainFromFlag parses a --chain value, falling back to the default
// priority order when the flag was left empty.
func chainFromFlag(spec string) (strategies.Chain, error) {
	if spec == "" {
		return strategies.DefaultChain(), nil
	}
	chain, err := strategies.ParseChain(spec)
	if err != nil {
		return nil, fmt.Errorf("chain: %w", err)
	}
	return chain, nil
}

func newLogger() zerolog.Logger {
	return logging.New(logLevel)
}
