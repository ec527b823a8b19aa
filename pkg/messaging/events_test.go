package messaging

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	event, err := NewEvent(EventOrderStatusChanged, "order-admin", "corr-1", OrderStatusChangedEvent{
		OrderID:   "o1",
		OldStatus: "Sedang di proses",
		NewStatus: "Telah sampai",
	})
	require.NoError(t, err)

	_, err = uuid.Parse(event.ID)
	assert.NoError(t, err)
	assert.Equal(t, "order.status_changed", event.Type)
	assert.Equal(t, "corr-1", event.CorrelationID)

	var data OrderStatusChangedEvent
	require.NoError(t, json.Unmarshal(event.Data, &data))
	assert.Equal(t, "o1", data.OrderID)
	assert.Equal(t, "Telah sampai", data.NewStatus)
}

func TestOrderDeletedEvent_JSON(t *testing.T) {
	raw, err := json.Marshal(OrderDeletedEvent{OrderID: "o2", UserID: "u1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"order_id":"o2","user_id":"u1"}`, string(raw))
}

func TestNewEvent_RejectsUnmarshalableData(t *testing.T) {
	_, err := NewEvent(EventOrderDeleted, "order-admin", "", make(chan int))
	assert.Error(t, err)
}

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, getCorrelationID(context.Background()))
	ctx := WithCorrelationID(context.Background(), "abc")
	assert.Equal(t, "abc", getCorrelationID(ctx))
}

func TestNopPublisher(t *testing.T) {
	var p EventPublisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), EventOrderDeleted, OrderDeletedEvent{OrderID: "o1"}))
}
