package monthlysummary

import (
	"context"
	"errors"
	"fmt"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// GetInput represents the input for reading one snapshot.
type GetInput struct {
	Month    string
	Currency *entity.Currency
}

// GetOutput represents one snapshot.
type GetOutput struct {
	Summary *entity.MonthlySummary
}

// GetMonthlySummaryUseCase reads a snapshot, computing it on a miss.
type GetMonthlySummaryUseCase struct {
	summaryRepo adapter.MonthlySummaryRepository
	recompute   *RecomputeMonthlySummaryUseCase
}

// NewGetMonthlySummaryUseCase creates a new GetMonthlySummaryUseCase instance.
func NewGetMonthlySummaryUseCase(
	summaryRepo adapter.MonthlySummaryRepository,
	recompute *RecomputeMonthlySummaryUseCase,
) *GetMonthlySummaryUseCase {
	return &GetMonthlySummaryUseCase{
		summaryRepo: summaryRepo,
		recompute:   recompute,
	}
}

// Execute returns the stored snapshot or computes it.
func (uc *GetMonthlySummaryUseCase) Execute(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.Currency == nil {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeCurrencyRequired,
			"currency is required",
			domainerror.ErrCurrencyRequired,
		)
	}

	month, err := valueobject.ParseYearMonth(input.Month)
	if err != nil {
		return nil, err
	}

	summary, err := uc.summaryRepo.FindByMonth(ctx, month.String(), *input.Currency)
	if err == nil {
		return &GetOutput{Summary: summary}, nil
	}
	if !errors.Is(err, domainerror.ErrSummaryNotFound) {
		return nil, fmt.Errorf("failed to load monthly summary: %w", err)
	}

	out, err := uc.recompute.Execute(ctx, RecomputeInput{Month: month.String(), Currency: *input.Currency})
	if err != nil {
		return nil, err
	}
	return &GetOutput{Summary: out.Summary}, nil
}
