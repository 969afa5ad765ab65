package journal

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"
)

var orgFuncs = template.FuncMap{
	"pct": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTmpl = template.Must(template.New("run").Funcs(orgFuncs).Parse(runOrgTemplate))

// Org renders the run as an org-mode journal entry.
func (r RunRecord) Org() (string, error) {
	buf := new(bytes.Buffer)
	if err := orgTmpl.Execute(buf, r); err != nil {
		return "", fmt.Errorf("journal: render org: %w", err)
	}
	return buf.String(), nil
}

// WriteOrg writes the run's org entry to path, overwriting any previous
// export for the same run.
func (r RunRecord) WriteOrg(path string) error {
	out, err := r.Org()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("journal: write org: %w", err)
	}
	return nil
}

const runOrgTemplate = `* BACKTEST: {{.Chain}} {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:CHAIN:       {{.Chain}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:BARS:        {{.Bars}}
:START_CASH:  {{.InitialCash}}
:END_EQUITY:  {{.FinalEquity}}
:RETURN_PCT:  {{printf "%.2f" (pct .TotalReturn)}}
:MAX_DD_PCT:  {{printf "%.2f" (pct .MaxDrawdown)}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:WIN_RATE:    {{printf "%.2f" (pct .WinRate)}}
:PROFIT_FAC:  {{printf "%.2f" .ProfitFactor}}
:SHARPE:      {{printf "%.2f" .Sharpe}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Return:        *{{printf "%.2f" (pct .TotalReturn)}}%*
- Max Drawdown:  *{{printf "%.2f" (pct .MaxDrawdown)}}%*
- Win Rate:      *{{printf "%.2f" (pct .WinRate)}}%*
- Avg R:R:       *{{printf "%.2f" .AvgRR}}*
- Profit Factor: *{{printf "%.2f" .ProfitFactor}}*
- Sharpe:        *{{printf "%.2f" .Sharpe}}*
- Exposure:      *{{printf "%.2f" (pct .Exposure)}}%*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Wins}} |
| Losses  | {{.Losses}} |
| Total   | {{.Trades}} |

** Config
#+begin_src json
{{printf "%s" .Config}}
#+end_src
`

// FormatTradeOrg renders one trade as an org subtree with a review
// skeleton, ready to paste under a run entry. The :ID: property makes
// the subtree linkable with org-id.
func FormatTradeOrg(rec TradeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s (%s)\n", rec.Strategy, shortID(rec.TradeID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", rec.TradeID)
	fmt.Fprintf(&b, ":ID: %s\n", rec.TradeID)
	fmt.Fprintf(&b, ":RUN_ID: %s\n", rec.RunID)
	fmt.Fprintf(&b, ":STRATEGY: %s\n", rec.Strategy)
	fmt.Fprintf(&b, ":ENTRY_TIME: %s\n", rec.EntryTime.Format(time.RFC3339))
	fmt.Fprintf(&b, ":EXIT_TIME: %s\n", rec.ExitTime.Format(time.RFC3339))
	fmt.Fprintf(&b, ":ENTRY_PRICE: %.5f\n", rec.EntryPrice)
	fmt.Fprintf(&b, ":EXIT_PRICE: %.5f\n", rec.ExitPrice)
	fmt.Fprintf(&b, ":STOP: %.5f\n", rec.Stop)
	fmt.Fprintf(&b, ":TARGET: %.5f\n", rec.Target)
	fmt.Fprintf(&b, ":QUANTITY: %d\n", rec.Quantity)
	fmt.Fprintf(&b, ":PNL: %s\n", rec.PnL.String())
	fmt.Fprintf(&b, ":REASON: %s\n", rec.Reason)
	fmt.Fprintf(&b, ":BARS_HELD: %d\n", rec.BarsHeld)
	b.WriteString(":END:\n")
	b.WriteString("*** Thesis\n\n*** Execution\n\n*** Review\n")
	return b.String()
}

// FormatTradesOrg joins every trade's subtree with blank lines between
// entries.
func FormatTradesOrg(recs []TradeRecord) string {
	parts := make([]string, len(recs))
	for i, rec := range recs {
		parts[i] = FormatTradeOrg(rec)
	}
	return strings.Join(parts, "\n\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
