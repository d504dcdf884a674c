// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
)

// handleLedgerError maps domain errors to HTTP responses.
// Unknown errors are attached to the context for the error logger and hidden from the client.
func handleLedgerError(ctx *gin.Context, err error) {
	var expenseErr *domainerror.ExpenseError
	if errors.As(err, &expenseErr) {
		ctx.JSON(statusForExpenseError(expenseErr.Code), dto.ErrorResponse{
			Error: expenseErr.Message,
			Code:  string(expenseErr.Code),
		})
		return
	}

	var ledgerErr *domainerror.LedgerError
	if errors.As(err, &ledgerErr) {
		ctx.JSON(statusForLedgerError(ledgerErr.Code), dto.ErrorResponse{
			Error: ledgerErr.Message,
			Code:  string(ledgerErr.Code),
		})
		return
	}

	_ = ctx.Error(err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// statusForExpenseError maps expense error codes to HTTP status codes.
func statusForExpenseError(code domainerror.ExpenseErrorCode) int {
	switch code {
	case domainerror.ErrCodeExpenseNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidTitle,
		domainerror.ErrCodeInvalidAmount,
		domainerror.ErrCodeInvalidExpenseType,
		domainerror.ErrCodeInvalidCurrency,
		domainerror.ErrCodeInvalidChannel,
		domainerror.ErrCodeInvalidCategory,
		domainerror.ErrCodeInvalidExpenseDate,
		domainerror.ErrCodeInvalidRecurrence,
		domainerror.ErrCodeNotesTooLong,
		domainerror.ErrCodeInvalidBody:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// statusForLedgerError maps ledger query error codes to HTTP status codes.
func statusForLedgerError(code domainerror.LedgerErrorCode) int {
	switch code {
	case domainerror.ErrCodeSummaryNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidMonthFormat,
		domainerror.ErrCodeInvalidMonth,
		domainerror.ErrCodeCurrencyRequired,
		domainerror.ErrCodeInvalidDateWindow,
		domainerror.ErrCodeInvalidTimezoneOffset,
		domainerror.ErrCodeInvalidLedgerCurrency,
		domainerror.ErrCodeInvalidLedgerFilter:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func invalidBody(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: "Invalid request body: " + err.Error(),
		Code:  string(domainerror.ErrCodeInvalidBody),
	})
}
