package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/expense-tracker/backend/internal/application/usecase/expense"
	"github.com/expense-tracker/backend/internal/application/usecase/monthlysummary"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
)

// MonthlySummaryController handles balance snapshot endpoints.
type MonthlySummaryController struct {
	getUseCase  *monthlysummary.GetMonthlySummaryUseCase
	listUseCase *monthlysummary.ListMonthlySummariesUseCase
}

// NewMonthlySummaryController creates a new monthly summary controller instance.
func NewMonthlySummaryController(
	getUseCase *monthlysummary.GetMonthlySummaryUseCase,
	listUseCase *monthlysummary.ListMonthlySummariesUseCase,
) *MonthlySummaryController {
	return &MonthlySummaryController{
		getUseCase:  getUseCase,
		listUseCase: listUseCase,
	}
}

// List handles GET /monthly-summaries requests.
func (c *MonthlySummaryController) List(ctx *gin.Context) {
	currency, err := expense.ParseCurrency(ctx.Query("currency"))
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), monthlysummary.ListInput{Currency: currency})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMonthlySummaryListResponse(output.Summaries))
}

// Get handles GET /monthly-summaries/:month requests.
func (c *MonthlySummaryController) Get(ctx *gin.Context) {
	currency, err := expense.ParseCurrency(ctx.Query("currency"))
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), monthlysummary.GetInput{
		Month:    ctx.Param("month"),
		Currency: currency,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMonthlySummaryResponse(output.Summary))
}
