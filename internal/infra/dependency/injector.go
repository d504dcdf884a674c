// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/expense-tracker/backend/config"
	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/application/usecase/expense"
	"github.com/expense-tracker/backend/internal/application/usecase/monthlysummary"
	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/infra/server/router"
	"github.com/expense-tracker/backend/internal/integration/adapters"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/middleware"
	"github.com/expense-tracker/backend/internal/integration/messaging"
	"github.com/expense-tracker/backend/internal/integration/persistence"
	"github.com/expense-tracker/backend/internal/integration/worker"
)

// Dependencies holds the collaborators that differ between production and tests.
// Nil fields fall back to production defaults.
type Dependencies struct {
	Clock      adapter.Clock
	Publisher  adapter.EventPublisher
	Redis      redis.UniversalClient
	HTTPClient *http.Client
	DBPing     func(ctx context.Context) error
}

// Injector holds all application dependencies.
type Injector struct {
	Config        *config.Config
	DB            *gorm.DB
	Router        *router.Router
	ExpenseRepo   adapter.ExpenseRepository
	SummaryRepo   adapter.MonthlySummaryRepository
	Recompute     *monthlysummary.RecomputeMonthlySummaryUseCase
	GetSummary    *monthlysummary.GetMonthlySummaryUseCase
	SummaryWorker *worker.SummaryWorker
	Clock         adapter.Clock
	Policy        expense.Policy
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, deps Dependencies) *Injector {
	if deps.Clock == nil {
		deps.Clock = adapters.NewSystemClock()
	}
	if deps.Publisher == nil {
		deps.Publisher = messaging.NopPublisher{}
	}
	if deps.HTTPClient == nil {
		deps.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if deps.DBPing == nil {
		deps.DBPing = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}

	policy := LedgerPolicy(&cfg.Ledger)

	// Create repositories
	expenseRepo := persistence.NewExpenseRepository(db)
	summaryRepo := persistence.NewMonthlySummaryRepository(db)

	// Create expense use cases
	createExpenseUseCase := expense.NewCreateExpenseUseCase(expenseRepo, deps.Publisher, deps.Clock)
	listExpensesUseCase := expense.NewListExpensesUseCase(expenseRepo, deps.Clock, policy)
	getExpenseUseCase := expense.NewGetExpenseUseCase(expenseRepo)
	updateExpenseUseCase := expense.NewUpdateExpenseUseCase(expenseRepo, deps.Publisher, deps.Clock)
	deleteExpenseUseCase := expense.NewDeleteExpenseUseCase(expenseRepo, deps.Publisher, deps.Clock)
	getSummaryUseCase := expense.NewGetSummaryUseCase(expenseRepo, deps.Clock, policy)
	getChartUseCase := expense.NewGetChartUseCase(expenseRepo, deps.Clock, policy)

	// Create monthly summary use cases
	recomputeUseCase := monthlysummary.NewRecomputeMonthlySummaryUseCase(expenseRepo, summaryRepo, deps.Clock, policy.IncludeRecurring)
	getMonthlySummaryUseCase := monthlysummary.NewGetMonthlySummaryUseCase(summaryRepo, recomputeUseCase)
	listMonthlySummariesUseCase := monthlysummary.NewListMonthlySummariesUseCase(summaryRepo)

	// Create controllers
	healthController := controller.NewHealthController(deps.DBPing)
	expenseController := controller.NewExpenseController(
		createExpenseUseCase,
		listExpensesUseCase,
		getExpenseUseCase,
		updateExpenseUseCase,
		deleteExpenseUseCase,
	)
	reportController := controller.NewReportController(getSummaryUseCase, getChartUseCase)
	monthlySummaryController := controller.NewMonthlySummaryController(getMonthlySummaryUseCase, listMonthlySummariesUseCase)

	// Create middleware
	var authMiddleware *middleware.AuthMiddleware
	if cfg.Auth.Enabled {
		verifier := adapters.NewTokenVerifier(adapters.TokenVerifierConfig{
			Secret:   cfg.Auth.Secret,
			JWKSURI:  cfg.Auth.JWKSURI,
			Issuer:   cfg.Auth.Issuer,
			Audience: cfg.Auth.Audience,
		}, deps.HTTPClient)
		authMiddleware = middleware.NewAuthMiddleware(verifier)
	} else {
		slog.Warn("Authentication is disabled")
	}

	var writeRateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		var store middleware.RateLimitStore = middleware.NewMemoryStore(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
		if deps.Redis != nil {
			store = middleware.NewRedisStore(deps.Redis, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
		}
		writeRateLimiter = middleware.NewRateLimiter(store, "/api/v1/regular-expenses")
	}

	r := router.NewRouter(
		healthController,
		expenseController,
		reportController,
		monthlySummaryController,
		writeRateLimiter,
		authMiddleware,
	)

	summaryWorker := worker.NewSummaryWorker(recomputeUseCase, deps.Clock, worker.WorkerConfig{
		PollInterval:   cfg.SummaryWorker.PollInterval,
		LookbackMonths: cfg.SummaryWorker.LookbackMonths,
	})

	return &Injector{
		Config:        cfg,
		DB:            db,
		Router:        r,
		ExpenseRepo:   expenseRepo,
		SummaryRepo:   summaryRepo,
		Recompute:     recomputeUseCase,
		GetSummary:    getMonthlySummaryUseCase,
		SummaryWorker: summaryWorker,
		Clock:         deps.Clock,
		Policy:        policy,
	}
}

// LedgerPolicy builds the aggregation policy from configuration.
// Unknown channel names are logged and ignored.
func LedgerPolicy(cfg *config.LedgerConfig) expense.Policy {
	policy := expense.Policy{
		IncludeRecurring:      cfg.IncludeRecurring,
		DefaultTimezoneOffset: cfg.DefaultTZOffsetMinutes,
	}
	for _, name := range cfg.ExcludedExpenseChannels {
		ch := entity.Channel(name)
		if !ch.IsValid() {
			slog.Warn("Ignoring unknown excluded channel", "channel", name)
			continue
		}
		policy.ExcludedExpenseChannels = append(policy.ExcludedExpenseChannels, ch)
	}
	return policy
}
