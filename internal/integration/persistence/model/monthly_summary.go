package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// MonthlySummaryModel represents the monthly_summaries table in the database.
type MonthlySummaryModel struct {
	Month         string          `gorm:"type:varchar(7);primaryKey"`
	Currency      string          `gorm:"type:varchar(3);primaryKey"`
	Opening       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Income        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ExpenseCash   decimal.Decimal `gorm:"column:expense_cash;type:decimal(12,2);not null;default:0"`
	CCBilled      decimal.Decimal `gorm:"column:cc_billed;type:decimal(12,2);not null;default:0"`
	CCSettlements decimal.Decimal `gorm:"column:cc_settlements;type:decimal(12,2);not null;default:0"`
	TransfersIn   decimal.Decimal `gorm:"column:transfers_in;type:decimal(12,2);not null;default:0"`
	TransfersOut  decimal.Decimal `gorm:"column:transfers_out;type:decimal(12,2);not null;default:0"`
	Closing       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the MonthlySummaryModel.
func (MonthlySummaryModel) TableName() string {
	return "monthly_summaries"
}

// ToEntity converts a MonthlySummaryModel to a domain MonthlySummary entity.
func (m *MonthlySummaryModel) ToEntity() *entity.MonthlySummary {
	return &entity.MonthlySummary{
		Month:         m.Month,
		Currency:      entity.Currency(m.Currency),
		Opening:       m.Opening,
		Income:        m.Income,
		ExpenseCash:   m.ExpenseCash,
		CCBilled:      m.CCBilled,
		CCSettlements: m.CCSettlements,
		TransfersIn:   m.TransfersIn,
		TransfersOut:  m.TransfersOut,
		Closing:       m.Closing,
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

// MonthlySummaryFromEntity converts a domain MonthlySummary entity to a MonthlySummaryModel.
func MonthlySummaryFromEntity(s *entity.MonthlySummary) *MonthlySummaryModel {
	return &MonthlySummaryModel{
		Month:         s.Month,
		Currency:      string(s.Currency),
		Opening:       s.Opening,
		Income:        s.Income,
		ExpenseCash:   s.ExpenseCash,
		CCBilled:      s.CCBilled,
		CCSettlements: s.CCSettlements,
		TransfersIn:   s.TransfersIn,
		TransfersOut:  s.TransfersOut,
		Closing:       s.Closing,
		UpdatedAt:     s.UpdatedAt,
	}
}
