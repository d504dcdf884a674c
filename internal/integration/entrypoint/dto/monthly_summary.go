package dto

import (
	"time"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// MonthlySummaryResponse represents a stored monthly balance snapshot.
type MonthlySummaryResponse struct {
	Month         string    `json:"month"`
	Currency      string    `json:"currency"`
	Opening       string    `json:"opening"`
	Income        string    `json:"income"`
	ExpenseCash   string    `json:"expenseCash"`
	CCBilled      string    `json:"ccBilled"`
	CCSettlements string    `json:"ccSettlements"`
	TransfersIn   string    `json:"transfersIn"`
	TransfersOut  string    `json:"transfersOut"`
	Closing       string    `json:"closing"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// MonthlySummaryListResponse represents the snapshots of one currency.
type MonthlySummaryListResponse struct {
	Summaries []MonthlySummaryResponse `json:"summaries"`
}

// ToMonthlySummaryResponse converts a snapshot to its API representation.
func ToMonthlySummaryResponse(s *entity.MonthlySummary) MonthlySummaryResponse {
	return MonthlySummaryResponse{
		Month:         s.Month,
		Currency:      string(s.Currency),
		Opening:       Money(s.Opening),
		Income:        Money(s.Income),
		ExpenseCash:   Money(s.ExpenseCash),
		CCBilled:      Money(s.CCBilled),
		CCSettlements: Money(s.CCSettlements),
		TransfersIn:   Money(s.TransfersIn),
		TransfersOut:  Money(s.TransfersOut),
		Closing:       Money(s.Closing),
		UpdatedAt:     s.UpdatedAt,
	}
}

// ToMonthlySummaryListResponse converts a list of snapshots.
func ToMonthlySummaryListResponse(summaries []*entity.MonthlySummary) MonthlySummaryListResponse {
	out := make([]MonthlySummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, ToMonthlySummaryResponse(s))
	}
	return MonthlySummaryListResponse{Summaries: out}
}
