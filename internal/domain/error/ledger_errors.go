// Package error defines domain-specific errors for the expense ledger.
package error

import "errors"

// Ledger query errors.
var (
	// ErrInvalidMonthFormat is returned when a month is neither YYYY-MM nor YYYY-MM-DD.
	ErrInvalidMonthFormat = errors.New("invalid month format")

	// ErrInvalidMonth is returned when the month number is outside 1-12.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrCurrencyRequired is returned when a summary is requested without a currency.
	ErrCurrencyRequired = errors.New("currency is required")

	// ErrInvalidDateWindow is returned when start/end cannot be parsed or are reversed.
	ErrInvalidDateWindow = errors.New("invalid date window")

	// ErrInvalidTimezoneOffset is returned when the timezone offset is not a number of minutes.
	ErrInvalidTimezoneOffset = errors.New("invalid timezone offset")

	// ErrInvalidFilter is returned when a list filter names an unknown category, channel or type.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrSummaryNotFound is returned when no snapshot exists for a month.
	ErrSummaryNotFound = errors.New("monthly summary not found")
)

// LedgerErrorCode defines error codes for ledger query errors.
// Format: LDG-XXYYYY where XX is category and YYYY is specific error.
type LedgerErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidMonthFormat    LedgerErrorCode = "LDG-010001"
	ErrCodeInvalidMonth          LedgerErrorCode = "LDG-010002"
	ErrCodeCurrencyRequired      LedgerErrorCode = "LDG-010003"
	ErrCodeInvalidDateWindow     LedgerErrorCode = "LDG-010004"
	ErrCodeInvalidTimezoneOffset LedgerErrorCode = "LDG-010005"
	ErrCodeInvalidLedgerCurrency LedgerErrorCode = "LDG-010006"
	ErrCodeInvalidLedgerFilter   LedgerErrorCode = "LDG-010007"

	// Lookup errors (02XXXX)
	ErrCodeSummaryNotFound LedgerErrorCode = "LDG-020001"

	// Internal errors (99XXXX)
	ErrCodeLedgerInternalError LedgerErrorCode = "LDG-990001"
)

// LedgerError represents a ledger query error with code and message.
type LedgerError struct {
	Code    LedgerErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError creates a new LedgerError with the given code and message.
func NewLedgerError(code LedgerErrorCode, message string, err error) *LedgerError {
	return &LedgerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
