package live

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/pivotrader/config"
	"github.com/rustyeddy/pivotrader/market/data"
	"github.com/rustyeddy/pivotrader/strategies"
)

// ScanResult pairs one series file with its advice.
type ScanResult struct {
	Path   string
	Advice Advice
	Err    error
}

// Scan loads and advises on every series concurrently. Results come back
// in input order; a failed series carries its error and does not affect
// the others.
func Scan(paths []string, cash decimal.Decimal, cfg config.Config, chain strategies.Chain) []ScanResult {
	out := make([]ScanResult, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()

			bars, err := data.LoadCSV(path)
			if err != nil {
				out[i] = ScanResult{Path: path, Err: err}
				return
			}
			adv, err := Advise(bars, cash, cfg, chain)
			out[i] = ScanResult{Path: path, Advice: adv, Err: err}
		}(i, path)
	}
	wg.Wait()

	return out
}
