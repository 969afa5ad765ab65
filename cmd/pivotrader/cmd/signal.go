package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/pivotrader/config"
	"github.com/rustyeddy/pivotrader/live"
	"github.com/rustyeddy/pivotrader/market/data"
	"github.com/rustyeddy/pivotrader/strategies"
)

var signalCmd = &cobra.Command{
	Use:   "signal <csv> [csv...]",
	Short: "Evaluate the latest bar of one or more series",
	Long: `Signal computes the strategy chain's decision on the final bar of
each series and, for a buy, the sized order plan. Series are evaluated
concurrently and reported in argument order.

Example:
  pivotrader signal data/xauusd.csv data/spy.csv --cash 50000
  pivotrader signal data/xauusd.csv --parity`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSignal,
}

var (
	sigCash   float64
	sigChain  string
	sigParity bool
)

func init() {
	rootCmd.AddCommand(signalCmd)

	signalCmd.Flags().Float64VarP(&sigCash, "cash", "c", 100_000, "cash available for sizing")
	signalCmd.Flags().StringVarP(&sigChain, "chain", "s", "", "strategy chain, e.g. BREAKOUT,PULLBACK")
	signalCmd.Flags().BoolVar(&sigParity, "parity", false, "verify live advice matches the batch replay first")
}

func runSignal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	chain, err := chainFromFlag(sigChain)
	if err != nil {
		return err
	}

	if sigParity {
		if err := checkParity(args, cfg, chain); err != nil {
			return err
		}
	}

	results := live.Scan(args, decimal.NewFromFloat(sigCash), cfg, chain)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("%-32s ERROR %v\n", r.Path, r.Err)
			continue
		}
		printAdvice(r.Path, r.Advice)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d series failed", failed, len(results))
	}
	return nil
}

// checkParity replays every series and fails on the first divergence
// between batch and truncated-series decisions.
func checkParity(paths []string, cfg config.Config, chain strategies.Chain) error {
	for _, path := range paths {
		bars, err := data.LoadCSV(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		diffs, err := live.CheckParity(bars, cfg, chain)
		if err != nil {
			return fmt.Errorf("parity %s: %w", path, err)
		}
		if len(diffs) > 0 {
			m := diffs[0]
			return fmt.Errorf("parity %s: %d mismatches, first at bar %d (%s)",
				path, len(diffs), m.Index, m.Batch.Time.Format("2006-01-02"))
		}
	}
	fmt.Printf("Parity check passed on %d series\n\n", len(paths))
	return nil
}

func printAdvice(path string, a live.Advice) {
	sig := a.Signal
	switch {
	case a.Plan != nil:
		p := a.Plan
		fmt.Printf("%-32s %s %s  strength %.2f  entry %.2f  stop %.2f  target %.2f  qty %d  risk $%s\n",
			path, sig.Action, sig.Strategy, sig.Strength,
			p.Entry, p.Stop, p.Target, p.Quantity, p.RiskAmount.StringFixed(2))
	case a.Skip != "":
		fmt.Printf("%-32s %s %s  strength %.2f  (skipped: %s)\n",
			path, sig.Action, sig.Strategy, sig.Strength, a.Skip)
	default:
		fmt.Printf("%-32s %s  close %.2f\n", path, sig.Action, sig.Reference)
	}
}
