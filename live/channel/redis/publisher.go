package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/imtaco/resonare-live/internal/log"
	"github.com/imtaco/resonare-live/internal/retry"
	"github.com/imtaco/resonare-live/live"
	"github.com/imtaco/resonare-live/live/channel"
)

// Publisher publishes change events to Redis channels, retrying transient
// failures with exponential backoff.
type Publisher struct {
	client redis.UniversalClient
	retry  retry.Retry
	logger *log.Logger
}

var _ live.Publisher = (*Publisher)(nil)

func NewPublisher(client redis.UniversalClient, cfg channel.Config, logger *log.Logger) *Publisher {
	return &Publisher{
		client: client,
		retry:  retry.New(logger, cfg.PublishPolicy()),
		logger: logger,
	}
}

func (p *Publisher) Publish(ctx context.Context, topic string, ev live.RawEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	var receivers int64
	err = p.retry.Do(ctx, func() error {
		n, err := p.client.Publish(ctx, topic, payload).Result()
		receivers = n
		return err
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	p.logger.Debug("Event published",
		log.String("topic", topic),
		log.Int64("receivers", receivers))
	return nil
}
