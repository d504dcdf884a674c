package expense

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

const (
	// MaxTitleLength is the maximum allowed length for titles.
	MaxTitleLength = 255
	// MaxNotesLength is the maximum allowed length for notes.
	MaxNotesLength = 1000
)

// MaxAmount is the largest amount a decimal(10,2) column holds.
var MaxAmount = decimal.RequireFromString("99999999.99")

// validateExpense checks a record before it is persisted.
func validateExpense(e *entity.Expense) error {
	title := strings.TrimSpace(e.Title)
	if title == "" || len(title) > MaxTitleLength {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidTitle,
			fmt.Sprintf("title is required and must not exceed %d characters", MaxTitleLength),
			domainerror.ErrInvalidTitle,
		)
	}

	if e.Amount.IsNegative() {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidAmount,
			"amount must be >= 0",
			domainerror.ErrInvalidAmount,
		)
	}
	if e.Amount.GreaterThan(MaxAmount) {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidAmount,
			"amount must not exceed "+MaxAmount.StringFixed(2),
			domainerror.ErrInvalidAmount,
		)
	}

	if e.Date.IsZero() {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidExpenseDate,
			"date is required",
			domainerror.ErrInvalidExpenseDate,
		)
	}

	if !e.Type.IsValid() {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidExpenseType,
			"type must be one of income, expense, carryForward",
			domainerror.ErrInvalidExpenseType,
		)
	}

	if !e.Currency.IsValid() {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidCurrency,
			"currency must be one of MYR, INR",
			domainerror.ErrInvalidCurrency,
		)
	}

	if !e.Channel.IsValid() {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidChannel,
			fmt.Sprintf("unknown channel %q", e.Channel),
			domainerror.ErrInvalidChannel,
		)
	}

	if !e.Category.IsValid() {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidCategory,
			fmt.Sprintf("unknown category %q", e.Category),
			domainerror.ErrInvalidCategory,
		)
	}

	if len(e.NotesText()) > MaxNotesLength {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeNotesTooLong,
			fmt.Sprintf("notes must not exceed %d characters", MaxNotesLength),
			domainerror.ErrNotesTooLong,
		)
	}

	return validateRecurrence(e)
}

func validateRecurrence(e *entity.Expense) error {
	if e.RecurringCycle != nil && !e.RecurringCycle.IsValid() {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidRecurrence,
			"recurringCycle must be monthly or yearly",
			domainerror.ErrInvalidRecurrence,
		)
	}

	if e.RecurringStart != nil && e.RecurringEnd != nil && !e.RecurringEnd.After(*e.RecurringStart) {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidRecurrence,
			"recurringEnd must be after recurringStart",
			domainerror.ErrInvalidRecurrence,
		)
	}

	return nil
}

// parseExpenseID treats a malformed identifier like an unknown one.
// Occurrence ids are not stored, so they are reported against their definition.
func parseExpenseID(raw string) (uuid.UUID, error) {
	if occ, err := valueobject.ParseOccurrenceID(raw); err == nil {
		return uuid.Nil, domainerror.NewExpenseError(
			domainerror.ErrCodeExpenseNotFound,
			fmt.Sprintf("expense not found: %s is a projected occurrence of recurring expense %s", raw, occ.DefinitionID),
			domainerror.ErrExpenseNotFound,
		)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, notFound()
	}
	return id, nil
}

func notFound() error {
	return domainerror.NewExpenseError(
		domainerror.ErrCodeExpenseNotFound,
		"expense not found",
		domainerror.ErrExpenseNotFound,
	)
}

// loadExpense fetches a stored expense, mapping a missing row to a not-found error.
func loadExpense(ctx context.Context, repo adapter.ExpenseRepository, rawID string) (*entity.Expense, error) {
	id, err := parseExpenseID(rawID)
	if err != nil {
		return nil, err
	}

	expense, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrExpenseNotFound) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("failed to find expense: %w", err)
	}
	return expense, nil
}
