package admissions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// Event is the audit record published for every gate decision.
type Event struct {
	Code       string    `json:"code"`
	Outcome    string    `json:"outcome"`
	Reason     string    `json:"reason,omitempty"`
	HolderName string    `json:"holder_name,omitempty"`
	Category   string    `json:"category,omitempty"`
	Gate       string    `json:"gate"`
	At         time.Time `json:"at"`
}

// Producer publishes gate decisions for back-office auditing. Publishing is
// best-effort: a failed publish must never change a validation outcome.
type Producer interface {
	PublishAdmission(ctx context.Context, event *Event) error
	Close() error
}

// Config contains Kafka producer settings.
type Config struct {
	Brokers  []string
	Topic    string
	RetryMax int
}

// DefaultConfig returns the default producer configuration.
func DefaultConfig() *Config {
	return &Config{
		Brokers:  []string{"localhost:9092"},
		Topic:    "gate-admissions",
		RetryMax: 3,
	}
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	config   *Config
}

// NewKafkaProducer creates a sync producer with idempotent writes, so a
// broker retry cannot duplicate an admission record.
func NewKafkaProducer(config *Config) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Hash partitioner keyed by ticket code keeps per-code ordering.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaProducer{producer: producer, config: config}, nil
}

func (p *kafkaProducer) PublishAdmission(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal admission event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(event.Code),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: event.At,
	}

	if _, _, err := p.producer.SendMessage(message); err != nil {
		return fmt.Errorf("failed to publish admission event: %w", err)
	}
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.producer.Close()
}
