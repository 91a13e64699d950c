package infra

import (
	"context"
	"encoding/json"
	"testing"

	"farmconnect/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	a := NewEnvelope(domain.EventOrderCreated, "12", domain.OrderCreatedEvent{OrderID: 12})
	b := NewEnvelope(domain.EventOrderCreated, "12", domain.OrderCreatedEvent{OrderID: 12})

	assert.NotEqual(t, a.EventID, b.EventID)
	assert.Len(t, a.EventID, 36)
	assert.False(t, a.OccurredAt.IsZero())

	raw, err := json.Marshal(a)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "order.created", decoded["type"])
	assert.Equal(t, "12", decoded["key"])
	assert.Equal(t, float64(12), decoded["data"].(map[string]any)["orderId"])
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), "x", "1", nil))
}
