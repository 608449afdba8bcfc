package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/Gopher0727/StudyGroup/config"
	"github.com/Gopher0727/StudyGroup/internal/domain"
)

// KafkaNotifier appends each message to a topic, keyed by group or
// recipient so one conversation stays on one partition.
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaNotifier creates an idempotent synchronous producer for cfg.Topic.
//
// Parameters:
//   - cfg: Kafka settings with broker addresses, topic and retry budget
//
// Returns:
//   - *KafkaNotifier: The notifier, ready to publish
//   - error: Any error encountered while connecting to the brokers
func NewKafkaNotifier(cfg *config.KafkaConfig) (*KafkaNotifier, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = cfg.MaxRetries
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	saramaConfig.Net.DialTimeout = 10 * time.Second
	saramaConfig.Net.ReadTimeout = 10 * time.Second
	saramaConfig.Net.WriteTimeout = 10 * time.Second
	saramaConfig.Metadata.Retry.Max = 3
	saramaConfig.Metadata.Retry.Backoff = 250 * time.Millisecond

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaNotifierWithProducer(producer, cfg.Topic), nil
}

// NewKafkaNotifierWithProducer wraps an existing producer. The notifier
// takes ownership of producer and closes it on Close.
//
// Parameters:
//   - producer: A connected sarama synchronous producer
//   - topic: The topic every message is sent to
//
// Returns:
//   - *KafkaNotifier: The notifier
func NewKafkaNotifierWithProducer(producer sarama.SyncProducer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

// Publish sends msg as a JSON event and waits for the broker ack.
//
// Parameters:
//   - ctx: Checked before sending; a canceled context sends nothing
//   - msg: The stored message to announce
//
// Returns:
//   - error: ctx.Err(), an encoding error or the producer failure
func (n *KafkaNotifier) Publish(ctx context.Context, msg *domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := encode(msg)
	if err != nil {
		return err
	}

	_, _, err = n.producer.SendMessage(&sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(routingKey(msg)),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", n.topic, err)
	}
	return nil
}

// Close shuts down the underlying producer.
func (n *KafkaNotifier) Close() error {
	if err := n.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}
