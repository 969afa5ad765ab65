package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/pivotrader/market/data"
	"github.com/rustyeddy/pivotrader/optimize"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Grid-search risk and strategy parameters",
	Long: `Optimize runs a backtest for every combination of the candidate
values listed under optimize: in the config file, ranks the results by
the configured objective, and prints the leaders.

Example:
  pivotrader optimize --data gold.csv --config search.yaml --top 5
  pivotrader optimize -d gold.csv --save-best tuned.yaml`,
	RunE: runOptimize,
}

var (
	optDataPath string
	optCash     float64
	optChain    string
	optTop      int
	optSaveBest string
)

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringVarP(&optDataPath, "data", "d", "", "path to OHLCV CSV (required)")
	optimizeCmd.Flags().Float64VarP(&optCash, "cash", "c", 100_000, "starting cash per run")
	optimizeCmd.Flags().StringVarP(&optChain, "chain", "s", "", "strategy chain, e.g. BREAKOUT,PULLBACK")
	optimizeCmd.Flags().IntVar(&optTop, "top", 10, "number of leaders to print")
	optimizeCmd.Flags().StringVar(&optSaveBest, "save-best", "", "write the winning parameter set as a config file")

	optimizeCmd.MarkFlagRequired("data")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	chain, err := chainFromFlag(optChain)
	if err != nil {
		return err
	}

	bars, err := data.LoadCSV(optDataPath)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	fmt.Printf("Optimizing %s over %s (%d bars)\n", chain, optDataPath, len(bars))

	ranked, err := optimize.Search(cmd.Context(), cfg, chain, bars, decimal.NewFromFloat(optCash), newLogger())
	if err != nil {
		return fmt.Errorf("optimize: %w", err)
	}

	fmt.Printf("\n%d combinations evaluated, objective %s\n\n", len(ranked), cfg.Optimize.Objective)

	n := optTop
	if n > len(ranked) {
		n = len(ranked)
	}
	for i := 0; i < n; i++ {
		c := ranked[i]
		p := c.Params
		fmt.Printf("%2d. risk %.3f  stop %.1f  target %.1f  vol %.2f  lookback %-3d  score %9.4f  return %6.2f%%  trades %d\n",
			i+1, p.RiskFraction, p.StopATR, p.TargetATR, p.VolumeMultiple, p.PullbackLookback,
			c.Score, c.Report.TotalReturn*100, c.Report.TradeCount)
	}

	if optSaveBest != "" && len(ranked) > 0 {
		best := ranked[0].Params.Apply(cfg)
		if err := best.SaveToFile(optSaveBest); err != nil {
			return fmt.Errorf("save best: %w", err)
		}
		fmt.Printf("\nBest parameter set written to %s\n", optSaveBest)
	}

	return nil
}
