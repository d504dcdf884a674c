package dto

import (
	"encoding/json"

	"github.com/expense-tracker/backend/internal/application/usecase/expense"
)

// SummaryResponse represents the monthly ledger summary.
type SummaryResponse struct {
	Month                    string `json:"month"`
	Currency                 string `json:"currency"`
	Income                   string `json:"income"`
	Expense                  string `json:"expense"`
	CarryForward             string `json:"carryForward"`
	Savings                  string `json:"savings"`
	NetPosition              string `json:"netPosition"`
	PotentialNextMonthCCBill string `json:"potentialNextMonthCCBill"`
	RecurringExpense         int    `json:"recurringExpense"`
}

// ToSummaryResponse converts a summary output to its API representation.
func ToSummaryResponse(output *expense.GetSummaryOutput) SummaryResponse {
	return SummaryResponse{
		Month:                    output.Month,
		Currency:                 string(output.Currency),
		Income:                   Money(output.Income),
		Expense:                  Money(output.Expense),
		CarryForward:             Money(output.CarryForward),
		Savings:                  Money(output.Savings),
		NetPosition:              Money(output.NetPosition),
		PotentialNextMonthCCBill: Money(output.PotentialNextMonthCCBill),
		RecurringExpense:         output.RecurringExpense,
	}
}

// ChartEntryResponse is one bar of a breakdown chart. The key is rendered
// under the dimension name, e.g. {"channel":"cash","total":"12.00"}.
type ChartEntryResponse struct {
	Dimension string
	Key       string
	Total     string
	Breakdown []ChartEntryResponse
}

// MarshalJSON implements json.Marshaler.
func (e ChartEntryResponse) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		e.Dimension: e.Key,
		"total":     e.Total,
	}
	if e.Breakdown != nil {
		out["breakdown"] = e.Breakdown
	}
	return json.Marshal(out)
}

// ToChartResponse converts a chart output to the ordered list of bars,
// ending with the "others" bucket.
func ToChartResponse(output *expense.GetChartOutput) []ChartEntryResponse {
	dim := string(output.Dimension)
	entries := make([]ChartEntryResponse, 0, len(output.Groups)+1)
	for _, g := range output.Groups {
		entries = append(entries, ChartEntryResponse{Dimension: dim, Key: g.Key, Total: Money(g.Total)})
	}

	breakdown := make([]ChartEntryResponse, 0, len(output.Others.Breakdown))
	for _, g := range output.Others.Breakdown {
		breakdown = append(breakdown, ChartEntryResponse{Dimension: dim, Key: g.Key, Total: Money(g.Total)})
	}
	entries = append(entries, ChartEntryResponse{
		Dimension: dim,
		Key:       expense.OthersGroupKey,
		Total:     Money(output.Others.Total),
		Breakdown: breakdown,
	})
	return entries
}
