package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDeleted       = "order.deleted"
)

// Exchange names
const (
	ExchangeOrderEvents = "order.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// OrderStatusChangedEvent is published after an order's status was written
type OrderStatusChangedEvent struct {
	OrderID   string `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// OrderDeletedEvent is published after an order document was removed
type OrderDeletedEvent struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return uuid.NewString()
}
