package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expense-tracker/backend/config"
	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/infra/db"
	"github.com/expense-tracker/backend/internal/infra/dependency"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// useTestLedger points the commands at a fresh in-memory database and returns
// an injector over a connection that stays open for the whole test.
func useTestLedger(t *testing.T) *dependency.Injector {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:          db.DriverSQLite,
			URL:             "file:" + uuid.NewString() + "?mode=memory&cache=shared",
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Hour,
		},
		Ledger: config.LedgerConfig{IncludeRecurring: true, DefaultTZOffsetMinutes: 480},
	}
	clock := fixedClock{now: time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)}

	connect := func() (*db.Database, *dependency.Injector) {
		database, err := db.NewConnection(&cfg.Database)
		require.NoError(t, err)
		return database, dependency.NewInjector(cfg, database.DB(), dependency.Dependencies{Clock: clock})
	}

	keeper, injector := connect()
	require.NoError(t, keeper.Migrate())
	t.Cleanup(func() { _ = keeper.Close() })

	previous := openLedger
	openLedger = func() (*ledger, error) {
		database, inj := connect()
		return &ledger{cfg: cfg, database: database, injector: inj}, nil
	}
	t.Cleanup(func() { openLedger = previous })

	return injector
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExpandCommand(t *testing.T) {
	injector := useTestLedger(t)

	def := entity.NewExpense("Rent", decimal.NewFromInt(1500), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		entity.ExpenseTypeExpense, entity.CurrencyMYR, entity.ChannelOnlineBanking, entity.CategoryRent)
	def.IsRecurring = true
	def.BillingMonth = &def.Date
	cycle := entity.RecurringCycleMonthly
	def.RecurringCycle = &cycle
	require.NoError(t, injector.ExpenseRepo.Create(context.Background(), def))

	out, err := run(t, "expand", "--id", def.ID.String(), "--from", "2024-01-01", "--to", "2024-04-30")
	require.NoError(t, err)

	assert.Contains(t, out, def.ID.String()+"__2024-02")
	assert.Contains(t, out, "2024-02-29")
	assert.Contains(t, out, "2024-04-30")
	assert.Contains(t, out, "4 occurrence(s)")
}

func TestExpandCommand_Errors(t *testing.T) {
	injector := useTestLedger(t)

	plain := entity.NewExpense("Coffee", decimal.NewFromInt(5), time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		entity.ExpenseTypeExpense, entity.CurrencyMYR, entity.ChannelCash, entity.CategoryEatingOut)
	require.NoError(t, injector.ExpenseRepo.Create(context.Background(), plain))

	_, err := run(t, "expand", "--id", plain.ID.String(), "--from", "2024-01-01", "--to", "2024-01-31")
	assert.ErrorContains(t, err, "is not recurring")

	_, err = run(t, "expand", "--id", uuid.NewString(), "--from", "2024-01-01", "--to", "2024-01-31")
	assert.ErrorContains(t, err, "not found")

	_, err = run(t, "expand", "--id", plain.ID.String(), "--from", "2024-02-01", "--to", "2024-01-01")
	assert.ErrorContains(t, err, "must not be after")
}

func TestSummaryCommands(t *testing.T) {
	injector := useTestLedger(t)
	ctx := context.Background()

	for _, e := range []*entity.Expense{
		entity.NewExpense("Salary", decimal.NewFromInt(5000), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			entity.ExpenseTypeIncome, entity.CurrencyMYR, entity.ChannelOnlineBanking, entity.CategorySalary),
		entity.NewExpense("Groceries", decimal.NewFromInt(300), time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			entity.ExpenseTypeExpense, entity.CurrencyMYR, entity.ChannelCash, entity.CategoryGroceries),
	} {
		require.NoError(t, injector.ExpenseRepo.Create(ctx, e))
	}

	out, err := run(t, "summary", "recompute", "--month", "2024-03", "--currency", "MYR", "--through-current")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03")
	assert.Contains(t, out, "2024-04")
	assert.Contains(t, out, "4700.00")

	stored, err := injector.SummaryRepo.ListByCurrency(ctx, entity.CurrencyMYR)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.True(t, stored[1].Opening.Equal(decimal.NewFromInt(4700)), "april opens with march's closing")

	out, err = run(t, "summary", "show", "--month", "2024-03", "--currency", "MYR")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)

	_, err = run(t, "summary", "show", "--month", "2024-03", "--currency", "USD")
	assert.Error(t, err)
}
