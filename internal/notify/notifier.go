package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event names published on order lifecycle changes.
const (
	EventOrderConfirmed      = "order.confirmed"
	EventOrderAvailable      = "order.available"
	EventCourierAssigned     = "order.courier_assigned"
	EventOrderOutForDelivery = "order.out_for_delivery"
	EventOrderDelivered      = "order.delivered"
	EventOrderCanceled       = "order.canceled"
)

// Notifier publishes order lifecycle events to interested parties.
// Notification delivery is best-effort; implementations must not fail the
// calling flow.
type Notifier interface {
	Notify(ctx context.Context, event string, orderID uuid.UUID)
}

// logNotifier is a Notifier that records events in the structured log. It
// stands in where no push channel is configured.
type logNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a Notifier backed by the structured log.
func NewLogNotifier(logger zerolog.Logger) Notifier {
	return &logNotifier{
		logger: logger.With().Str("component", "notify").Logger(),
	}
}

func (n *logNotifier) Notify(ctx context.Context, event string, orderID uuid.UUID) {
	n.logger.Info().
		Str("event", event).
		Str("order_id", orderID.String()).
		Msg("order event")
}
