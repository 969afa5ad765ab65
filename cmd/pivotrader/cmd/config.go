package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/pivotrader/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage configuration files for backtests and optimizer searches.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  pivotrader config init --output pivotrader.yaml
  pivotrader config validate --file pivotrader.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "pivotrader.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Default configuration written to %s\n", configInitOutput)
	fmt.Println("Edit it and pass --config to backtest, signal or optimize.")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}

	fmt.Printf("%s is valid\n", configValidatePath)
	fmt.Printf("  Risk:      %.1f%% per trade, stop %.1f ATR, target %.1f ATR\n",
		cfg.Risk.Fraction*100, cfg.Risk.StopATR, cfg.Risk.TargetATR)
	fmt.Printf("  Strategy:  volume x%.2f, RSI %g/%g, alignment %d/%d/%d over %d bars\n",
		cfg.Strategy.VolumeMultiple, cfg.Strategy.RSIOversold, cfg.Strategy.RSIOverbought,
		cfg.Strategy.AlignFast, cfg.Strategy.AlignMid, cfg.Strategy.AlignSlow, cfg.Strategy.AlignBars)
	fmt.Printf("  Journal:   %s\n", cfg.Journal.Type)
	return nil
}
