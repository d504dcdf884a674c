package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySummary is a persisted per-month, per-currency balance snapshot.
type MonthlySummary struct {
	Month         string // YYYY-MM
	Currency      Currency
	Opening       decimal.Decimal
	Income        decimal.Decimal
	ExpenseCash   decimal.Decimal
	CCBilled      decimal.Decimal
	CCSettlements decimal.Decimal
	TransfersIn   decimal.Decimal
	TransfersOut  decimal.Decimal
	Closing       decimal.Decimal
	UpdatedAt     time.Time
}

// CalculateClosing sets Closing from the other balances.
// Credit card swipes are excluded; only their settlement moves cash.
func (s *MonthlySummary) CalculateClosing() {
	s.Closing = s.Opening.
		Add(s.Income).
		Add(s.TransfersIn).
		Sub(s.ExpenseCash).
		Sub(s.CCSettlements).
		Sub(s.TransfersOut)
}
