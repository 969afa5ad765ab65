package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pivotrader version %s\n", version)
		fmt.Println("Pivot-level backtesting and signal research for daily bars")
		fmt.Println("https://github.com/rustyeddy/pivotrader")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
