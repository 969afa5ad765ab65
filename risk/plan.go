package risk

import "github.com/shopspring/decimal"

// Plan is a fully specified long entry: where to get in, where to bail
// out, where to take profit, and how many units to buy.
type Plan struct {
	Entry      float64         `json:"entry"`
	Stop       float64         `json:"stop"`
	Target     float64         `json:"target"`
	Quantity   int64           `json:"quantity"`
	RiskAmount decimal.Decimal `json:"risk_amount"`
	Fraction   float64         `json:"risk_fraction"`
}

// RR returns the planned reward-to-risk ratio.
func (p Plan) RR() float64 {
	risk := p.Entry - p.Stop
	if risk <= 0 {
		return 0
	}
	return (p.Target - p.Entry) / risk
}
