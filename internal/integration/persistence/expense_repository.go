// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/persistence/model"
)

// searchWhere matches a lowercased pattern against every searchable column.
// Enum columns are cast so the same clause works on postgres enum types.
const searchWhere = "(LOWER(title) LIKE ? OR LOWER(COALESCE(notes, '')) LIKE ? OR " +
	"LOWER(CAST(category AS TEXT)) LIKE ? OR LOWER(CAST(channel AS TEXT)) LIKE ?)"

// expenseRepository implements the adapter.ExpenseRepository interface.
type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository instance.
func NewExpenseRepository(db *gorm.DB) adapter.ExpenseRepository {
	return &expenseRepository{
		db: db,
	}
}

// Create creates a new expense in the database.
func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	return r.db.WithContext(ctx).Create(model.ExpenseFromEntity(expense)).Error
}

// FindByID retrieves an expense by its ID.
func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	var expenseModel model.ExpenseModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&expenseModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrExpenseNotFound
		}
		return nil, result.Error
	}
	return expenseModel.ToEntity(), nil
}

// Update persists every column of an existing expense.
func (r *expenseRepository) Update(ctx context.Context, expense *entity.Expense) error {
	result := r.db.WithContext(ctx).Save(model.ExpenseFromEntity(expense))
	return result.Error
}

// Delete removes an expense.
func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.ExpenseModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrExpenseNotFound
	}
	return nil
}

// Find retrieves expenses matching the filter, newest first.
func (r *expenseRepository) Find(
	ctx context.Context,
	filter adapter.ExpenseFilter,
	pagination *adapter.ExpensePagination,
) ([]*entity.Expense, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&model.ExpenseModel{}), filter, true).
		Order("date DESC, created_at DESC")

	if pagination != nil {
		query = query.Offset(pagination.Offset()).Limit(pagination.Limit)
	}

	var expenseModels []model.ExpenseModel
	if err := query.Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	return toEntities(expenseModels), nil
}

// Count returns the number of expenses matching the filter.
func (r *expenseRepository) Count(ctx context.Context, filter adapter.ExpenseFilter) (int64, error) {
	var total int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&model.ExpenseModel{}), filter, true)
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SumAmount returns the total amount of expenses matching the filter.
func (r *expenseRepository) SumAmount(ctx context.Context, filter adapter.ExpenseFilter) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	query := r.applyFilter(r.db.WithContext(ctx).Model(&model.ExpenseModel{}), filter, true)
	if err := query.Select("COALESCE(SUM(amount), 0) as total").Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total.Round(2), nil
}

// FindDefinitions retrieves recurring definitions matching the filter, ignoring its date bounds.
func (r *expenseRepository) FindDefinitions(ctx context.Context, filter adapter.ExpenseFilter) ([]*entity.Expense, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&model.ExpenseModel{}), filter, false).
		Where("is_recurring = ?", true).
		Order("created_at ASC")

	var expenseModels []model.ExpenseModel
	if err := query.Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	return toEntities(expenseModels), nil
}

func (r *expenseRepository) applyFilter(query *gorm.DB, filter adapter.ExpenseFilter, dated bool) *gorm.DB {
	if filter.Currency != nil {
		query = query.Where("currency = ?", string(*filter.Currency))
	}
	if filter.Category != nil {
		query = query.Where("category = ?", string(*filter.Category))
	}
	if filter.Channel != nil {
		query = query.Where("channel = ?", string(*filter.Channel))
	}
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if len(filter.ExcludeChannels) > 0 {
		excluded := make([]string, len(filter.ExcludeChannels))
		for i, ch := range filter.ExcludeChannels {
			excluded[i] = string(ch)
		}
		query = query.Where("channel NOT IN ?", excluded)
	}
	if filter.IsRecurring != nil {
		query = query.Where("is_recurring = ?", *filter.IsRecurring)
	}
	if dated && filter.From != nil {
		query = query.Where("date >= ?", filter.From.UTC())
	}
	if dated && filter.To != nil {
		query = query.Where("date < ?", filter.To.UTC())
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(searchWhere, pattern, pattern, pattern, pattern)
	}
	return query
}

func toEntities(models []model.ExpenseModel) []*entity.Expense {
	expenses := make([]*entity.Expense, len(models))
	for i := range models {
		expenses[i] = models[i].ToEntity()
	}
	return expenses
}
