package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"boxoffice/pkg/logger"
)

// Publisher records user actions. Publishing never fails the action itself:
// implementations log and swallow delivery errors.
type Publisher interface {
	Publish(ctx context.Context, action *Action)
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka activity producer
type KafkaProducerConfig struct {
	Brokers      []string
	Topic        string
	RetryMax     int
	Timeout      time.Duration
	RequiredAcks sarama.RequiredAcks
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:      []string{"localhost:9092"},
		Topic:        "boxoffice-activity",
		RetryMax:     3,
		Timeout:      10 * time.Second,
		RequiredAcks: sarama.WaitForAll, // Wait for all in-sync replicas
	}
}

// SaramaConfig builds the producer settings for cfg
func (cfg *KafkaProducerConfig) SaramaConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = cfg.RequiredAcks
	saramaConfig.Producer.Retry.Max = cfg.RetryMax
	saramaConfig.Producer.Timeout = cfg.Timeout

	// Use hash partitioner for consistent routing based on username
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	return saramaConfig
}

// KafkaPublisher publishes actions to a Kafka topic
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaPublisher connects a sync producer to the configured brokers
func NewKafkaPublisher(cfg *KafkaProducerConfig, log *logger.Logger) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, cfg.SaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, cfg.Topic, log), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, log *logger.Logger) *KafkaPublisher {
	if log == nil {
		log = logger.GetDefault()
	}
	return &KafkaPublisher{producer: producer, topic: topic, log: log}
}

func (k *KafkaPublisher) Publish(ctx context.Context, action *Action) {
	messageBytes, err := action.ToJSON()
	if err != nil {
		k.log.ErrorWithContext(ctx, "Failed to marshal activity", err, map[string]interface{}{"action": string(action.Type)})
		return
	}

	message := &sarama.ProducerMessage{
		Topic:     k.topic,
		Key:       sarama.StringEncoder(action.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   createHeaders(action),
		Timestamp: action.Timestamp,
	}

	partition, offset, err := k.producer.SendMessage(message)
	if err != nil {
		k.log.ErrorWithContext(ctx, "Failed to publish activity", err, map[string]interface{}{
			"action": string(action.Type),
			"topic":  k.topic,
		})
		return
	}

	k.log.DebugContext(ctx, "Activity published",
		"topic", k.topic,
		"partition", partition,
		"offset", offset,
		"action", string(action.Type),
	)
}

func createHeaders(action *Action) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("action_id"), Value: []byte(action.ID.String())},
		{Key: []byte("action_type"), Value: []byte(action.Type)},
		{Key: []byte("producer"), Value: []byte("boxoffice-web")},
		{Key: []byte("created_at"), Value: []byte(action.Timestamp.Format(time.RFC3339))},
	}
	if action.RequestID != "" {
		headers = append(headers, sarama.RecordHeader{Key: []byte("request_id"), Value: []byte(action.RequestID)})
	}
	return headers
}

// Close closes the Kafka producer
func (k *KafkaPublisher) Close() error {
	if k.producer == nil {
		return nil
	}
	if err := k.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// NopPublisher drops every action, used when no brokers are configured
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Action) {}

func (NopPublisher) Close() error { return nil }
