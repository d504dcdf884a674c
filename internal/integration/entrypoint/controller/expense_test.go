package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/expense-tracker/backend/internal/application/usecase/expense"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/expense-tracker/backend/internal/integration/persistence"
	"github.com/expense-tracker/backend/internal/integration/persistence/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func listEngine(t *testing.T) *gin.Engine {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ExpenseModel{}, &model.MonthlySummaryModel{}))

	repo := persistence.NewExpenseRepository(db)
	for _, e := range []*entity.Expense{
		entity.NewExpense("Groceries", decimal.NewFromInt(250), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
			entity.ExpenseTypeExpense, entity.CurrencyMYR, entity.ChannelCash, entity.CategoryGroceries),
		entity.NewExpense("Salary", decimal.NewFromInt(5000), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			entity.ExpenseTypeIncome, entity.CurrencyMYR, entity.ChannelOnlineBanking, entity.CategorySalary),
	} {
		require.NoError(t, repo.Create(context.Background(), e))
	}

	clock := fixedClock(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))
	c := NewExpenseController(nil, expense.NewListExpensesUseCase(repo, clock, expense.DefaultPolicy()), nil, nil, nil)

	r := gin.New()
	r.GET("/expenses", c.List)
	return r
}

func TestExpenseController_ListSearch(t *testing.T) {
	r := listEngine(t)

	tests := []struct {
		name      string
		query     string
		wantTotal int64
	}{
		{name: "q parameter", query: "q=groc", wantTotal: 1},
		{name: "search alias", query: "search=GROC", wantTotal: 1},
		{name: "q wins over search", query: "q=sal&search=groc", wantTotal: 1},
		{name: "no search", query: "", wantTotal: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/expenses?"+tt.query, nil))

			require.Equal(t, http.StatusOK, w.Code)
			var body dto.ExpenseListResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantTotal, body.Total)
		})
	}
}

func TestExpenseController_ListRejectsUnknownFilters(t *testing.T) {
	r := listEngine(t)

	for _, query := range []string{"category=bogus", "channel=cheque", "type=nope"} {
		t.Run(query, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/expenses?"+query, nil))

			require.Equal(t, http.StatusBadRequest, w.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, string(domainerror.ErrCodeInvalidLedgerFilter), body.Code)
		})
	}
}

func TestExpenseController_ListKnownFilters(t *testing.T) {
	r := listEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/expenses?type=income&channel=onlineBanking&category=salary", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body dto.ExpenseListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Salary", body.Items[0].Title)
}
