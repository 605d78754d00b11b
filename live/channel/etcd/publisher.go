package etcd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/etcd/api/v3/v3rpc/rpctypes"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/imtaco/resonare-live/internal/etcd"
	"github.com/imtaco/resonare-live/internal/log"
	"github.com/imtaco/resonare-live/internal/retry"
	"github.com/imtaco/resonare-live/live"
	"github.com/imtaco/resonare-live/live/channel"
)

// Publisher writes each event as a leased key under the topic prefix, so
// watchers see a put and the key expires after the event TTL.
type Publisher struct {
	client etcd.Client
	root   string
	ttl    time.Duration
	retry  retry.Retry
	logger *log.Logger
}

var _ live.Publisher = (*Publisher)(nil)

func NewPublisher(client etcd.Client, cfg channel.Config, logger *log.Logger) *Publisher {
	def := channel.DefaultConfig()
	if cfg.EtcdPrefix == "" {
		cfg.EtcdPrefix = def.EtcdPrefix
	}
	if cfg.EventTTL < time.Second {
		cfg.EventTTL = def.EventTTL
	}
	return &Publisher{
		client: client,
		root:   cfg.EtcdPrefix,
		ttl:    cfg.EventTTL,
		retry:  retry.New(logger, cfg.PublishPolicy()),
		logger: logger,
	}
}

func (p *Publisher) Publish(ctx context.Context, topic string, ev live.RawEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	key := topicKey(p.root, topic) + uuid.NewString()

	err = p.retry.Do(ctx, func() error {
		lease, err := p.client.Grant(ctx, int64(p.ttl/time.Second))
		if err != nil {
			return classify(err)
		}
		_, err = p.client.Put(ctx, key, string(payload), clientv3.WithLease(lease.ID))
		return classify(err)
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	p.logger.Debug("Event published", log.String("key", key))
	return nil
}

// classify stops retries on errors another attempt cannot fix.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, rpctypes.ErrNoSpace),
		errors.Is(err, rpctypes.ErrPermissionDenied),
		errors.Is(err, rpctypes.ErrRequestTooLarge):
		return retry.Permanent(err)
	}
	return err
}
