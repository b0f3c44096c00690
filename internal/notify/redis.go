package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher is the subset of a redis client used for delivery.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Redis publishes events as JSON on a per-renter channel.
type Redis struct {
	client  Publisher
	prefix  string
	timeout time.Duration
	log     *zap.Logger
}

func NewRedis(client Publisher, prefix string, timeout time.Duration, log *zap.Logger) *Redis {
	if prefix == "" {
		prefix = "rentledger:renter:"
	}

	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Redis{client: client, prefix: prefix, timeout: timeout, log: log}
}

// Channel returns the channel a renter's events are published on.
func (n *Redis) Channel(renterID string) string {
	return n.prefix + renterID
}

func (n *Redis) Notify(ctx context.Context, e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		n.log.Warn("failed to encode notification", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	if err := n.client.Publish(ctx, n.Channel(e.RenterID), payload).Err(); err != nil {
		n.log.Warn("failed to publish notification",
			zap.String("kind", string(e.Kind)),
			zap.String("renter_id", e.RenterID),
			zap.Error(err),
		)
	}
}
