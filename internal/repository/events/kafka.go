package events

import (
	"context"

	"onchainiq/internal/domain/repository"
	pkgkafka "onchainiq/pkg/kafka"
)

// KafkaPublisher implements repository.EventPublisher for Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a publisher writing analysis events to topic.
// Events are keyed by token address so one token's events stay ordered.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

var _ repository.EventPublisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) PublishAnalysis(ctx context.Context, ev repository.AnalysisEvent) error {
	var key []byte
	if ev.TokenAddress != "" {
		key = []byte(ev.TokenAddress)
	}
	return p.producer.Publish(ctx, p.topic, key, ev)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
