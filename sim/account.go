package sim

import "github.com/shopspring/decimal"

// Account is the ledger for one run: cash on hand, equity marked to the
// latest close, and the open position if any. Money is decimal so entry
// and exit fills reconcile exactly.
type Account struct {
	Cash     decimal.Decimal
	Equity   decimal.Decimal
	Position *Position
}

// NewAccount returns a flat account funded with the given cash.
func NewAccount(cash decimal.Decimal) *Account {
	return &Account{Cash: cash, Equity: cash}
}

// Flat reports whether the account holds no position.
func (a *Account) Flat() bool { return a.Position == nil }

// markToMarket returns cash plus the open position valued at the close.
func (a *Account) markToMarket(close float64) decimal.Decimal {
	if a.Position == nil {
		return a.Cash
	}
	qty := decimal.NewFromInt(a.Position.Quantity)
	return a.Cash.Add(qty.Mul(decimal.NewFromFloat(close)))
}
