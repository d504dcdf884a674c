package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/persistence/model"
)

type monthlySummaryRepository struct {
	db *gorm.DB
}

// NewMonthlySummaryRepository creates a new monthly summary repository instance.
func NewMonthlySummaryRepository(db *gorm.DB) adapter.MonthlySummaryRepository {
	return &monthlySummaryRepository{db: db}
}

// Upsert inserts the snapshot or overwrites the stored one for the same month and currency.
func (r *monthlySummaryRepository) Upsert(ctx context.Context, summary *entity.MonthlySummary) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "month"}, {Name: "currency"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"opening", "income", "expense_cash", "cc_billed", "cc_settlements",
				"transfers_in", "transfers_out", "closing", "updated_at",
			}),
		}).
		Create(model.MonthlySummaryFromEntity(summary)).Error
}

func (r *monthlySummaryRepository) FindByMonth(ctx context.Context, month string, currency entity.Currency) (*entity.MonthlySummary, error) {
	var m model.MonthlySummaryModel
	result := r.db.WithContext(ctx).
		Where("month = ? AND currency = ?", month, string(currency)).
		First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrSummaryNotFound
		}
		return nil, result.Error
	}
	return m.ToEntity(), nil
}

func (r *monthlySummaryRepository) ListByCurrency(ctx context.Context, currency entity.Currency) ([]*entity.MonthlySummary, error) {
	var models []model.MonthlySummaryModel
	result := r.db.WithContext(ctx).
		Where("currency = ?", string(currency)).
		Order("month ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	summaries := make([]*entity.MonthlySummary, len(models))
	for i := range models {
		summaries[i] = models[i].ToEntity()
	}
	return summaries, nil
}
