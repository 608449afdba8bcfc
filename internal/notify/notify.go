// Package notify publishes delivered messages to an outbound side channel.
// Publishing is best effort; the caller logs failures and carries on.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gopher0727/StudyGroup/config"
	"github.com/Gopher0727/StudyGroup/internal/domain"
)

type Notifier interface {
	Publish(ctx context.Context, msg *domain.Message) error
	Close() error
}

// Event is the JSON payload written to every sink.
type Event struct {
	Type        string          `json:"type"`
	Message     *domain.Message `json:"message"`
	PublishedAt time.Time       `json:"published_at"`
}

func newEvent(msg *domain.Message) Event {
	return Event{
		Type:        "message." + string(msg.Kind()),
		Message:     msg,
		PublishedAt: time.Now().UTC(),
	}
}

func encode(msg *domain.Message) ([]byte, error) {
	payload, err := json.Marshal(newEvent(msg))
	if err != nil {
		return nil, fmt.Errorf("failed to encode message %d: %w", msg.ID, err)
	}
	return payload, nil
}

// routingKey is the group ID for group messages and the recipient ID for
// direct messages.
func routingKey(msg *domain.Message) string {
	if msg.Kind() == domain.MessageGroup {
		return msg.GroupID
	}
	return msg.RecipientID
}

// Noop drops every message.
type Noop struct{}

// Publish discards msg.
func (Noop) Publish(context.Context, *domain.Message) error { return nil }
// Close does nothing.
func (Noop) Close() error                                  { return nil }

// New builds the notifier selected by cfg.Driver.
//
// Parameters:
//   - cfg: Notify settings; driver "none" yields Noop
//
// Returns:
//   - Notifier: The redis, kafka or no-op notifier
//   - error: Any error encountered while connecting, or an unknown driver
func New(cfg *config.NotifyConfig) (Notifier, error) {
	switch cfg.Driver {
	case "", "none":
		return Noop{}, nil
	case "redis":
		return NewRedisNotifier(&cfg.Redis)
	case "kafka":
		return NewKafkaNotifier(&cfg.Kafka)
	default:
		return nil, fmt.Errorf("unknown notify driver %q", cfg.Driver)
	}
}
