// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/expense-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	expenseController        *controller.ExpenseController
	reportController         *controller.ReportController
	monthlySummaryController *controller.MonthlySummaryController
	writeRateLimiter         *middleware.RateLimiter
	authMiddleware           *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
// A nil rate limiter or auth middleware leaves the corresponding check off.
func NewRouter(
	healthController *controller.HealthController,
	expenseController *controller.ExpenseController,
	reportController *controller.ReportController,
	monthlySummaryController *controller.MonthlySummaryController,
	writeRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:         healthController,
		expenseController:        expenseController,
		reportController:         reportController,
		monthlySummaryController: monthlySummaryController,
		writeRateLimiter:         writeRateLimiter,
		authMiddleware:           authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.New()
	r.engine.Use(middleware.ErrorLogger(), middleware.Metrics())

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures unauthenticated operational endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	if r.authMiddleware != nil {
		v1.Use(r.authMiddleware.Authenticate())
	}

	create := []gin.HandlerFunc{r.expenseController.Create}
	if r.writeRateLimiter != nil {
		create = append([]gin.HandlerFunc{r.writeRateLimiter.Middleware()}, create...)
	}
	v1.POST("/regular-expenses", create...)

	expenses := v1.Group("/expenses")
	{
		expenses.GET("", r.expenseController.List)
		expenses.GET("/:id", r.expenseController.Get)
		expenses.PATCH("/:id", r.expenseController.Update)
		expenses.DELETE("/:id", r.expenseController.Delete)
	}

	v1.GET("/summary", r.reportController.Summary)

	charts := v1.Group("/expenses-chart")
	{
		charts.GET("/channel", r.reportController.ChartByChannel)
		charts.GET("/category", r.reportController.ChartByCategory)
	}

	summaries := v1.Group("/monthly-summaries")
	{
		summaries.GET("", r.monthlySummaryController.List)
		summaries.GET("/:month", r.monthlySummaryController.Get)
	}
}
