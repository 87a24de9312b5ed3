package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
)

// Publisher is the contract for emitting booking-lifecycle messages.
type Publisher interface {
	PublishLifecycleEvent(ctx context.Context, event *LifecycleEvent) error
	Close() error
}

// KafkaConfig contains configuration for the Kafka lifecycle publisher
type KafkaConfig struct {
	Brokers         []string
	Topic           string
	RetryMax        int
	TimeoutMs       int
	RequiredAcks    sarama.RequiredAcks
	CompressionType sarama.CompressionCodec
}

// DefaultKafkaConfig returns a default publisher configuration
func DefaultKafkaConfig() *KafkaConfig {
	return &KafkaConfig{
		Brokers:         []string{"localhost:9092"},
		Topic:           "booking-lifecycle",
		RetryMax:        3,
		TimeoutMs:       10000,
		RequiredAcks:    sarama.WaitForAll,
		CompressionType: sarama.CompressionSnappy,
	}
}

// kafkaPublisher publishes lifecycle events to Kafka
type kafkaPublisher struct {
	producer sarama.SyncProducer
	config   *KafkaConfig
}

// NewKafkaPublisher creates a Kafka-backed lifecycle publisher
func NewKafkaPublisher(config *KafkaConfig) (Publisher, error) {
	if config == nil {
		config = DefaultKafkaConfig()
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	// hash partitioner keeps one event's messages on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaPublisher{producer: producer, config: config}, nil
}

func (p *kafkaPublisher) PublishLifecycleEvent(ctx context.Context, event *LifecycleEvent) error {
	if event == nil {
		return fmt.Errorf("nil lifecycle event")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal lifecycle event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.config.Topic,
		Key:   sarama.StringEncoder(strconv.Itoa(event.EventID)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(event.Type)},
		},
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// noopPublisher keeps the orchestrator unconditional about publishing when
// Kafka is not configured.
type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every message.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishLifecycleEvent(ctx context.Context, event *LifecycleEvent) error {
	return nil
}

func (noopPublisher) Close() error {
	return nil
}
