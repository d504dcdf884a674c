package messaging

import (
	"context"
	"log/slog"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/infra/metrics"
)

// NopPublisher drops events. It is used when no broker is configured.
type NopPublisher struct{}

// PublishExpenseChanged logs the event at debug level and returns nil.
func (NopPublisher) PublishExpenseChanged(ctx context.Context, event adapter.ExpenseChangedEvent) error {
	slog.DebugContext(ctx, "broker disabled, dropping expense event",
		"expense_id", event.ExpenseID.String(),
		"action", string(event.Action),
	)
	metrics.EventsPublishedTotal.WithLabelValues(string(event.Action), "dropped").Inc()
	return nil
}
