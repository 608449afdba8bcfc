package notify

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/Gopher0727/StudyGroup/config"
	"github.com/Gopher0727/StudyGroup/internal/domain"
)

// RedisNotifier publishes each message on a pub/sub channel named
// "<prefix>:group:<groupID>" or "<prefix>:user:<recipientID>".
type RedisNotifier struct {
	client *redis.Client
	prefix string
}

// NewRedisNotifier connects to Redis and verifies the connection with a ping.
//
// Parameters:
//   - cfg: Redis address, credentials, pool size and channel prefix
//
// Returns:
//   - *RedisNotifier: The notifier, ready to publish
//   - error: Any error encountered while connecting
func NewRedisNotifier(cfg *config.RedisConfig) (*RedisNotifier, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisNotifierWithClient(rdb, cfg.Prefix), nil
}

// NewRedisNotifierWithClient wraps an existing client. The notifier takes
// ownership of client and closes it on Close.
//
// Parameters:
//   - client: A go-redis client
//   - prefix: The channel prefix, e.g. "studygroup"
//
// Returns:
//   - *RedisNotifier: The notifier
func NewRedisNotifierWithClient(client *redis.Client, prefix string) *RedisNotifier {
	return &RedisNotifier{client: client, prefix: prefix}
}

// Channel returns the channel msg is published on.
func (n *RedisNotifier) Channel(msg *domain.Message) string {
	if msg.Kind() == domain.MessageGroup {
		return fmt.Sprintf("%s:group:%s", n.prefix, msg.GroupID)
	}
	return fmt.Sprintf("%s:user:%s", n.prefix, msg.RecipientID)
}

// Publish sends msg as a JSON event on its channel. Having no subscribers
// is not an error.
//
// Parameters:
//   - ctx: Context for cancellation and timeout control
//   - msg: The stored message to announce
//
// Returns:
//   - error: An encoding error or the Redis failure
func (n *RedisNotifier) Publish(ctx context.Context, msg *domain.Message) error {
	payload, err := encode(msg)
	if err != nil {
		return err
	}
	channel := n.Channel(msg)
	if err := n.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to channel %s: %w", channel, err)
	}
	return nil
}

// Close releases the client connection pool.
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
