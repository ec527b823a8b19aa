package events

import (
	"context"

	"github.com/retailku/order-admin/pkg/httputil"
	"github.com/retailku/order-admin/pkg/logger"
	"github.com/retailku/order-admin/pkg/messaging"
)

// OrderEventPublisher publishes order-related events. Failures are logged
// and never returned: the store write has already happened.
type OrderEventPublisher struct {
	publisher messaging.EventPublisher
	logger    *logger.Logger
}

// NewOrderEventPublisher creates a new order event publisher
func NewOrderEventPublisher(publisher messaging.EventPublisher, log *logger.Logger) *OrderEventPublisher {
	return &OrderEventPublisher{
		publisher: publisher,
		logger:    log.WithComponent("order-events"),
	}
}

// PublishStatusChanged publishes an order status changed event
func (p *OrderEventPublisher) PublishStatusChanged(ctx context.Context, orderID, oldStatus, newStatus string) {
	data := messaging.OrderStatusChangedEvent{
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}

	ctx, log := p.correlate(ctx)
	if err := p.publisher.Publish(ctx, messaging.EventOrderStatusChanged, data); err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("failed to publish order status changed event")
	}
}

// PublishOrderDeleted publishes an order deleted event
func (p *OrderEventPublisher) PublishOrderDeleted(ctx context.Context, orderID, userID string) {
	data := messaging.OrderDeletedEvent{
		OrderID: orderID,
		UserID:  userID,
	}

	ctx, log := p.correlate(ctx)
	if err := p.publisher.Publish(ctx, messaging.EventOrderDeleted, data); err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("failed to publish order deleted event")
	}
}

// correlate tags the event with the request id that triggered it.
func (p *OrderEventPublisher) correlate(ctx context.Context) (context.Context, *logger.Logger) {
	requestID := httputil.GetRequestID(ctx)
	if requestID == "" {
		return ctx, p.logger
	}
	return messaging.WithCorrelationID(ctx, requestID), p.logger.WithCorrelationID(requestID)
}
