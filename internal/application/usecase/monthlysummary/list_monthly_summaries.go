package monthlysummary

import (
	"context"
	"fmt"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// ListInput represents the input for listing snapshots.
type ListInput struct {
	Currency *entity.Currency
}

// ListOutput represents stored snapshots ordered by month.
type ListOutput struct {
	Summaries []*entity.MonthlySummary
}

// ListMonthlySummariesUseCase lists the stored snapshots of a currency.
type ListMonthlySummariesUseCase struct {
	summaryRepo adapter.MonthlySummaryRepository
}

// NewListMonthlySummariesUseCase creates a new ListMonthlySummariesUseCase instance.
func NewListMonthlySummariesUseCase(summaryRepo adapter.MonthlySummaryRepository) *ListMonthlySummariesUseCase {
	return &ListMonthlySummariesUseCase{summaryRepo: summaryRepo}
}

// Execute lists snapshots.
func (uc *ListMonthlySummariesUseCase) Execute(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.Currency == nil {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeCurrencyRequired,
			"currency is required",
			domainerror.ErrCurrencyRequired,
		)
	}

	summaries, err := uc.summaryRepo.ListByCurrency(ctx, *input.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly summaries: %w", err)
	}
	return &ListOutput{Summaries: summaries}, nil
}
