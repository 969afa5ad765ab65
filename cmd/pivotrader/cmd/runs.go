package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/pivotrader/journal"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Query journaled backtest runs",
	Long: `Query and display journaled runs from a SQLite database.

Subcommands:
  list  - List recent runs with their headline numbers
  show  - Print one run as an org-mode entry with its trades

Examples:
  pivotrader runs list --db pivotrader.db
  pivotrader runs show 01J3ZKQ6... --db pivotrader.db`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print one run with its trades",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var (
	runsDBPath string
	runsLimit  int
)

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)

	runsCmd.PersistentFlags().StringVarP(&runsDBPath, "db", "d", "./pivotrader.db", "path to SQLite journal DB")
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
}

func runRunsList(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(runsDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.ListRuns(runsLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(recs) == 0 {
		fmt.Println("No runs journaled yet.")
		return nil
	}

	for _, rec := range recs {
		fmt.Printf("%s  %s  %-20s %-28s return %6.2f%%  dd %5.2f%%  trades %d\n",
			rec.RunID, rec.Created.Format("2006-01-02 15:04"), rec.Chain, rec.Dataset,
			rec.TotalReturn*100, rec.MaxDrawdown*100, rec.Trades)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(runsDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec, err := j.GetRun(args[0])
	if err != nil {
		return err
	}
	out, err := rec.Org()
	if err != nil {
		return err
	}
	fmt.Println(out)

	trades, err := j.ListTradesByRun(args[0])
	if err != nil {
		return err
	}
	if len(trades) > 0 {
		fmt.Println(journal.FormatTradesOrg(trades))
	}
	return nil
}
