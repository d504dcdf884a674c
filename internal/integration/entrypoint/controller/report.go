package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/expense-tracker/backend/internal/application/usecase/expense"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
)

// ReportController handles the aggregate ledger endpoints.
type ReportController struct {
	summaryUseCase *expense.GetSummaryUseCase
	chartUseCase   *expense.GetChartUseCase
}

// NewReportController creates a new report controller instance.
func NewReportController(summaryUseCase *expense.GetSummaryUseCase, chartUseCase *expense.GetChartUseCase) *ReportController {
	return &ReportController{
		summaryUseCase: summaryUseCase,
		chartUseCase:   chartUseCase,
	}
}

// Summary handles GET /summary requests.
func (c *ReportController) Summary(ctx *gin.Context) {
	input := expense.GetSummaryInput{Month: ctx.Query("month")}

	var err error
	if input.Currency, err = expense.ParseCurrency(ctx.Query("currency")); err != nil {
		handleLedgerError(ctx, err)
		return
	}
	if input.TZOffset, err = expense.ParseTimezoneOffset(ctx.Query("tzOffsetMinutes")); err != nil {
		handleLedgerError(ctx, err)
		return
	}

	output, err := c.summaryUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSummaryResponse(output))
}

// ChartByChannel handles GET /expenses-chart/channel requests.
func (c *ReportController) ChartByChannel(ctx *gin.Context) {
	c.chart(ctx, expense.ChartByChannel)
}

// ChartByCategory handles GET /expenses-chart/category requests.
func (c *ReportController) ChartByCategory(ctx *gin.Context) {
	c.chart(ctx, expense.ChartByCategory)
}

func (c *ReportController) chart(ctx *gin.Context, dim expense.ChartDimension) {
	input := expense.GetChartInput{
		Dimension: dim,
		Month:     ctx.Query("month"),
	}

	var err error
	if input.Currency, err = expense.ParseCurrency(ctx.Query("currency")); err != nil {
		handleLedgerError(ctx, err)
		return
	}
	if input.Start, err = expense.ParseDate("start", ctx.Query("start")); err != nil {
		handleLedgerError(ctx, err)
		return
	}
	if input.End, err = expense.ParseDate("end", ctx.Query("end")); err != nil {
		handleLedgerError(ctx, err)
		return
	}
	if input.TZOffset, err = expense.ParseTimezoneOffset(ctx.Query("tzOffsetMinutes")); err != nil {
		handleLedgerError(ctx, err)
		return
	}

	output, err := c.chartUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToChartResponse(output))
}
