package infra

import (
	"context"
	"time"

	"farmconnect/internal/domain"

	"github.com/google/uuid"
)

// Publisher sends a domain event to the message broker. key groups events
// that must stay ordered (the order id).
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, data any) error
}

// TokenVerifier checks a bearer token issued by the identity provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

// Envelope is the wire format shared by every broker.
type Envelope struct {
	EventID    string    `json:"eventId"`
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

func NewEnvelope(eventType, key string, data any) Envelope {
	return Envelope{
		EventID:    uuid.NewString(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// NoopPublisher drops events. Used when EVENT_BROKER=none.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, string, any) error { return nil }

var (
	_ Publisher     = NoopPublisher{}
	_ TokenVerifier = (*JWTVerifier)(nil)
)
