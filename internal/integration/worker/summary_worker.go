// Package worker runs background jobs that keep monthly snapshots current.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/application/usecase/monthlysummary"
	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
	"github.com/expense-tracker/backend/internal/infra/metrics"
)

// Recomputer rebuilds the snapshot of one month.
type Recomputer interface {
	Execute(ctx context.Context, input monthlysummary.RecomputeInput) (*monthlysummary.RecomputeOutput, error)
}

// EventSource delivers expense change events.
type EventSource interface {
	ConsumeExpenseChanged(ctx context.Context, handler func(context.Context, adapter.ExpenseChangedEvent) error) error
}

// SummaryWorker recomputes monthly snapshots on change events and on a fixed interval.
type SummaryWorker struct {
	recompute      Recomputer
	clock          adapter.Clock
	pollInterval   time.Duration
	lookbackMonths int
}

// WorkerConfig holds configuration for the summary worker.
type WorkerConfig struct {
	PollInterval   time.Duration
	LookbackMonths int
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval:   15 * time.Minute,
		LookbackMonths: 12,
	}
}

// NewSummaryWorker creates a new summary worker.
func NewSummaryWorker(recompute Recomputer, clock adapter.Clock, config WorkerConfig) *SummaryWorker {
	if config.LookbackMonths < 1 {
		config.LookbackMonths = 1
	}
	return &SummaryWorker{
		recompute:      recompute,
		clock:          clock,
		pollInterval:   config.PollInterval,
		lookbackMonths: config.LookbackMonths,
	}
}

// Start begins the periodic refresh loop. It blocks until the context is cancelled.
func (w *SummaryWorker) Start(ctx context.Context) {
	slog.Info("Summary worker started", "poll_interval", w.pollInterval)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Process immediately on start, then on ticker
	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Summary worker shutting down")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

// Consume recomputes snapshots for every event delivered by source until ctx is done.
func (w *SummaryWorker) Consume(ctx context.Context, source EventSource) error {
	return source.ConsumeExpenseChanged(ctx, w.HandleEvent)
}

// HandleEvent recomputes the event's month and every later month up to the current one,
// since each opening balance chains from the previous closing.
func (w *SummaryWorker) HandleEvent(ctx context.Context, event adapter.ExpenseChangedEvent) error {
	if !event.Currency.IsValid() {
		slog.Warn("Ignoring expense event with unknown currency",
			"expense_id", event.ExpenseID.String(),
			"currency", string(event.Currency),
		)
		return nil
	}

	current := valueobject.YearMonthOf(w.clock.Now().UTC())
	from := valueobject.YearMonthOf(event.Date.UTC())
	if earliest := w.earliest(current); from.Start().Before(earliest.Start()) {
		from = earliest
	}

	var errs []error
	for ym := range valueobject.MonthsBetween(from.Start(), current.Next().Start()) {
		errs = append(errs, w.recomputeMonth(ctx, "event", ym, event.Currency))
	}
	return errors.Join(errs...)
}

// ProcessNow refreshes the current and previous month immediately (useful for testing).
func (w *SummaryWorker) ProcessNow(ctx context.Context) {
	w.refresh(ctx)
}

func (w *SummaryWorker) refresh(ctx context.Context) {
	current := valueobject.YearMonthOf(w.clock.Now().UTC())
	for _, currency := range entity.Currencies {
		for _, ym := range []valueobject.YearMonth{current.Prev(), current} {
			select {
			case <-ctx.Done():
				return
			default:
			}
			_ = w.recomputeMonth(ctx, "interval", ym, currency)
		}
	}
}

func (w *SummaryWorker) recomputeMonth(ctx context.Context, trigger string, ym valueobject.YearMonth, currency entity.Currency) error {
	_, err := w.recompute.Execute(ctx, monthlysummary.RecomputeInput{Month: ym.String(), Currency: currency})
	metrics.SummaryRecomputeTotal.WithLabelValues(trigger, metrics.Result(err)).Inc()
	if err != nil {
		slog.Error("Failed to recompute monthly summary",
			"month", ym.String(),
			"currency", string(currency),
			"trigger", trigger,
			"error", err,
		)
	}
	return err
}

func (w *SummaryWorker) earliest(current valueobject.YearMonth) valueobject.YearMonth {
	ym := current
	for i := 1; i < w.lookbackMonths; i++ {
		ym = ym.Prev()
	}
	return ym
}
