package main

import (
	"os"

	"github.com/rustyeddy/pivotrader/cmd/pivotrader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
