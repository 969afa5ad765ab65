package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/pivotrader/journal"
	"github.com/rustyeddy/pivotrader/market/data"
	"github.com/rustyeddy/pivotrader/pkg/id"
	"github.com/rustyeddy/pivotrader/sim"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay a CSV bar series through the strategy chain",
	Long: `Backtest replays a daily OHLCV series through the configured strategy
chain and prints the run report. With a journal configured in the config
file, the run, its trades and its equity curve are persisted under a
fresh run ID.

Example:
  pivotrader backtest --data testdata/xauusd_daily.csv --cash 100000
  pivotrader backtest -d gold.csv -s PULLBACK --org runs/gold.org`,
	RunE: runBacktest,
}

var (
	btDataPath string
	btCash     float64
	btChain    string
	btOrgPath  string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btDataPath, "data", "d", "", "path to OHLCV CSV (required)")
	backtestCmd.Flags().Float64VarP(&btCash, "cash", "c", 100_000, "starting cash")
	backtestCmd.Flags().StringVarP(&btChain, "chain", "s", "", "strategy chain, e.g. BREAKOUT,PULLBACK")
	backtestCmd.Flags().StringVar(&btOrgPath, "org", "", "write an org-mode run summary to this path")

	backtestCmd.MarkFlagRequired("data")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	chain, err := chainFromFlag(btChain)
	if err != nil {
		return err
	}

	bars, err := data.LoadCSV(btDataPath)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	fmt.Printf("Running backtest with chain: %s\n", chain)
	fmt.Printf("  Data: %s (%d bars)\n", btDataPath, len(bars))

	engine := sim.NewEngine(cfg, chain, newLogger())
	acct := sim.NewAccount(decimal.NewFromFloat(btCash))

	res, err := engine.Run(acct, bars)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	printReport(res)

	j, err := journal.Open(cfg.Journal)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}

	rec, err := journal.NewRunRecord(id.New(), btDataPath, chain.String(), cfg, res)
	if err != nil {
		return err
	}

	if j != nil {
		defer j.Close()
		if err := journal.Record(j, rec, res); err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		fmt.Printf("\nJournaled run %s\n", rec.RunID)
	}

	if btOrgPath != "" {
		if err := rec.WriteOrg(btOrgPath); err != nil {
			return err
		}
		fmt.Printf("Org summary written to %s\n", btOrgPath)
	}

	return nil
}

func printReport(res *sim.Result) {
	rep := res.Report
	fmt.Printf("\nBacktest Complete!\n")
	fmt.Printf("  Bars:           %d\n", len(res.Equity))
	fmt.Printf("  Signals:        %d (skipped %d)\n", res.Signals, res.Skipped)
	fmt.Printf("  Trades:         %d (%d wins / %d losses)\n", rep.TradeCount, rep.Wins, rep.Losses)
	fmt.Printf("  Initial Cash:   $%s\n", rep.InitialCash.StringFixed(2))
	fmt.Printf("  Final Equity:   $%s\n", rep.FinalEquity.StringFixed(2))
	fmt.Printf("  Total Return:   %.2f%%\n", rep.TotalReturn*100)
	fmt.Printf("  Max Drawdown:   %.2f%%\n", rep.MaxDrawdown*100)
	fmt.Printf("  Win Rate:       %.2f%%\n", rep.WinRate*100)
	fmt.Printf("  Avg R:R:        %.2f\n", rep.AvgRiskReward)
	fmt.Printf("  Avg Trade:      %.2f%%\n", rep.AvgTradeReturn*100)
	fmt.Printf("  Profit Factor:  %.2f\n", rep.ProfitFactor)
	fmt.Printf("  Sharpe:         %.2f\n", rep.Sharpe)
	fmt.Printf("  Exposure:       %.2f%%\n", rep.Exposure*100)
}
