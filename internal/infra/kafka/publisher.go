package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"farmconnect/internal/infra"

	"github.com/segmentio/kafka-go"
)

// Publisher writes every event to one topic, keyed so that events of the
// same order land on the same partition.
type Publisher struct {
	writer *kafka.Writer
}

var _ infra.Publisher = (*Publisher)(nil)

func NewPublisher(brokersCSV, topic string) *Publisher {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return &Publisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

func (p *Publisher) Publish(ctx context.Context, eventType, key string, data any) error {
	env := infra.NewEnvelope(eventType, key, data)
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "event_id", Value: []byte(env.EventID)},
		},
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
