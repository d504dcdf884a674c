package adapter

import (
	"context"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// MonthlySummaryRepository defines persistence for monthly balance snapshots.
type MonthlySummaryRepository interface {
	// Upsert inserts or replaces the snapshot for its month and currency.
	Upsert(ctx context.Context, summary *entity.MonthlySummary) error

	// FindByMonth retrieves the snapshot for a month ("YYYY-MM") and currency.
	FindByMonth(ctx context.Context, month string, currency entity.Currency) (*entity.MonthlySummary, error)

	// ListByCurrency returns all snapshots of a currency ordered by month.
	ListByCurrency(ctx context.Context, currency entity.Currency) ([]*entity.MonthlySummary, error)
}
