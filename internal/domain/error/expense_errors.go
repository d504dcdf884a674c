// Package error defines domain-specific errors for the expense ledger.
package error

import "errors"

// Expense domain errors.
var (
	// ErrExpenseNotFound is returned when an expense is not found in the system.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrInvalidTitle is returned when the title is empty or too long.
	ErrInvalidTitle = errors.New("invalid title")

	// ErrInvalidAmount is returned when the amount is negative or too large.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidExpenseType is returned when the expense type is unknown.
	ErrInvalidExpenseType = errors.New("invalid expense type")

	// ErrInvalidCurrency is returned when the currency is unsupported.
	ErrInvalidCurrency = errors.New("invalid currency")

	// ErrInvalidChannel is returned when the channel is unknown.
	ErrInvalidChannel = errors.New("invalid channel")

	// ErrInvalidCategory is returned when the category is unknown.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidExpenseDate is returned when a date field cannot be parsed.
	ErrInvalidExpenseDate = errors.New("invalid date")

	// ErrInvalidRecurrence is returned when recurring fields are inconsistent.
	ErrInvalidRecurrence = errors.New("invalid recurrence")

	// ErrNotesTooLong is returned when the notes exceed the maximum length.
	ErrNotesTooLong = errors.New("notes too long")
)

// ExpenseErrorCode defines error codes for expense errors.
// Format: EXP-XXYYYY where XX is category and YYYY is specific error.
type ExpenseErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTitle       ExpenseErrorCode = "EXP-010001"
	ErrCodeInvalidAmount      ExpenseErrorCode = "EXP-010002"
	ErrCodeInvalidExpenseType ExpenseErrorCode = "EXP-010003"
	ErrCodeInvalidCurrency    ExpenseErrorCode = "EXP-010004"
	ErrCodeInvalidChannel     ExpenseErrorCode = "EXP-010005"
	ErrCodeInvalidCategory    ExpenseErrorCode = "EXP-010006"
	ErrCodeInvalidExpenseDate ExpenseErrorCode = "EXP-010007"
	ErrCodeInvalidRecurrence  ExpenseErrorCode = "EXP-010008"
	ErrCodeNotesTooLong       ExpenseErrorCode = "EXP-010009"
	ErrCodeInvalidBody        ExpenseErrorCode = "EXP-010010"

	// Lookup errors (02XXXX)
	ErrCodeExpenseNotFound ExpenseErrorCode = "EXP-020001"
)

// ExpenseError represents an expense error with code and message.
type ExpenseError struct {
	Code    ExpenseErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ExpenseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ExpenseError) Unwrap() error {
	return e.Err
}

// NewExpenseError creates a new ExpenseError with the given code and message.
func NewExpenseError(code ExpenseErrorCode, message string, err error) *ExpenseError {
	return &ExpenseError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
