package sim

import (
	"math"

	"github.com/shopspring/decimal"
)

// Report condenses a finished run into its headline numbers. Ratios are
// plain fractions: a TotalReturn of 0.03 means 3%.
type Report struct {
	InitialCash    decimal.Decimal `json:"initial_cash"`
	FinalEquity    decimal.Decimal `json:"final_equity"`
	TotalReturn    float64         `json:"total_return"`
	MaxDrawdown    float64         `json:"max_drawdown"`
	WinRate        float64         `json:"win_rate"`
	TradeCount     int             `json:"trade_count"`
	Wins           int             `json:"wins"`
	Losses         int             `json:"losses"`
	AvgRiskReward  float64         `json:"avg_risk_reward"`
	AvgTradeReturn float64         `json:"avg_trade_return"`
	ProfitFactor   float64         `json:"profit_factor"`
	Sharpe         float64         `json:"sharpe"`
	Exposure       float64         `json:"exposure"`
}

// Annualization assumes one bar per trading day.
const tradingDaysPerYear = 252

// Summarize reduces an equity curve and its trades to a Report. Trades
// with zero PnL count toward the trade count but are neither wins nor
// losses.
func Summarize(initial decimal.Decimal, equity []EquityPoint, trades []Trade) Report {
	r := Report{InitialCash: initial, TradeCount: len(trades)}
	if len(equity) == 0 || !initial.IsPositive() {
		return r
	}

	final := equity[len(equity)-1].Equity
	r.FinalEquity = final
	r.TotalReturn = final.Sub(initial).Div(initial).InexactFloat64()
	r.MaxDrawdown = maxDrawdown(equity)
	r.Sharpe = sharpe(equity)

	if len(trades) == 0 {
		return r
	}

	var (
		grossWin  decimal.Decimal
		grossLoss decimal.Decimal
		sumRR     float64
		sumRet    float64
		barsHeld  int
	)
	for _, t := range trades {
		switch {
		case t.PnL.IsPositive():
			r.Wins++
			grossWin = grossWin.Add(t.PnL)
		case t.PnL.IsNegative():
			r.Losses++
			grossLoss = grossLoss.Add(t.PnL.Neg())
		}
		sumRR += t.PlannedRR()
		sumRet += t.Return()
		barsHeld += t.BarsHeld
	}

	n := float64(len(trades))
	r.WinRate = float64(r.Wins) / n
	r.AvgRiskReward = sumRR / n
	r.AvgTradeReturn = sumRet / n
	r.Exposure = float64(barsHeld) / float64(len(equity))

	switch {
	case grossLoss.IsPositive():
		r.ProfitFactor = grossWin.Div(grossLoss).InexactFloat64()
	case grossWin.IsPositive():
		r.ProfitFactor = math.Inf(1)
	}

	return r
}

// maxDrawdown returns the deepest peak-to-trough decline as a fraction
// of the peak.
func maxDrawdown(equity []EquityPoint) float64 {
	peak := equity[0].Equity
	worst := 0.0
	for _, p := range equity[1:] {
		if p.Equity.GreaterThan(peak) {
			peak = p.Equity
			continue
		}
		if peak.IsPositive() {
			if dd := peak.Sub(p.Equity).Div(peak).InexactFloat64(); dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

// sharpe annualizes the mean per-bar return over its sample deviation.
// Flat or too-short curves score zero.
func sharpe(equity []EquityPoint) float64 {
	if len(equity) < 3 {
		return 0
	}

	rets := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if !prev.IsPositive() {
			return 0
		}
		rets = append(rets, equity[i].Equity.Div(prev).InexactFloat64()-1)
	}

	var sum float64
	for _, r := range rets {
		sum += r
	}
	mean := sum / float64(len(rets))

	var ss float64
	for _, r := range rets {
		d := r - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(rets)-1))
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(tradingDaysPerYear)
}
