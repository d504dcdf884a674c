// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

const billingMonthLayout = "2006-01-02"

// ExpenseModel represents the regular_expenses table in the database.
type ExpenseModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Title          string          `gorm:"type:varchar(255);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Date           time.Time       `gorm:"type:date;not null;index"`
	Type           string          `gorm:"type:varchar(20);not null;index"`
	Currency       string          `gorm:"type:varchar(3);not null;index"`
	Channel        string          `gorm:"type:varchar(20);not null"`
	Category       string          `gorm:"type:varchar(30);not null"`
	Notes          *string         `gorm:"type:text"`
	BillingMonth   *string         `gorm:"column:billing_month;type:varchar(10)"`
	IsRecurring    bool            `gorm:"column:is_recurring;not null;default:false;index"`
	RecurringStart *time.Time      `gorm:"column:recurring_start;type:date"`
	RecurringEnd   *time.Time      `gorm:"column:recurring_end;type:date"`
	RecurringCycle *string         `gorm:"column:recurring_cycle;type:varchar(10)"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for the ExpenseModel.
func (ExpenseModel) TableName() string {
	return "regular_expenses"
}

// ToEntity converts an ExpenseModel to a domain Expense entity.
func (m *ExpenseModel) ToEntity() *entity.Expense {
	e := &entity.Expense{
		ID:             m.ID,
		Title:          m.Title,
		Amount:         m.Amount,
		Date:           m.Date.UTC(),
		Type:           entity.ExpenseType(m.Type),
		Currency:       entity.Currency(m.Currency),
		Channel:        entity.Channel(m.Channel),
		Category:       entity.Category(m.Category),
		Notes:          m.Notes,
		IsRecurring:    m.IsRecurring,
		RecurringStart: utcPtr(m.RecurringStart),
		RecurringEnd:   utcPtr(m.RecurringEnd),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}

	if m.BillingMonth != nil {
		if t, err := time.Parse(billingMonthLayout, *m.BillingMonth); err == nil {
			e.BillingMonth = &t
		}
	}
	if m.RecurringCycle != nil {
		c := entity.RecurringCycle(*m.RecurringCycle)
		e.RecurringCycle = &c
	}

	return e
}

// ExpenseFromEntity converts a domain Expense entity to an ExpenseModel.
func ExpenseFromEntity(e *entity.Expense) *ExpenseModel {
	m := &ExpenseModel{
		ID:             e.ID,
		Title:          e.Title,
		Amount:         e.Amount,
		Date:           e.Date.UTC(),
		Type:           string(e.Type),
		Currency:       string(e.Currency),
		Channel:        string(e.Channel),
		Category:       string(e.Category),
		Notes:          e.Notes,
		IsRecurring:    e.IsRecurring,
		RecurringStart: utcPtr(e.RecurringStart),
		RecurringEnd:   utcPtr(e.RecurringEnd),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}

	if e.BillingMonth != nil {
		s := e.BillingMonth.UTC().Format(billingMonthLayout)
		m.BillingMonth = &s
	}
	if e.RecurringCycle != nil {
		s := string(*e.RecurringCycle)
		m.RecurringCycle = &s
	}

	return m
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
