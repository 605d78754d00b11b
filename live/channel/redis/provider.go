package redis

import (
	"context"
	"encoding/json"
	"net"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/imtaco/resonare-live/internal/errors"
	"github.com/imtaco/resonare-live/internal/log"
	"github.com/imtaco/resonare-live/live"
	"github.com/imtaco/resonare-live/live/channel"
)

// Provider opens live channels over Redis Pub/Sub. Each topic is a Redis
// channel carrying JSON encoded live.RawEvent payloads.
type Provider struct {
	client      redis.UniversalClient
	joinTimeout time.Duration
	logger      *log.Logger
}

var _ live.ChannelProvider = (*Provider)(nil)

func NewProvider(client redis.UniversalClient, cfg channel.Config, logger *log.Logger) *Provider {
	if cfg.JoinTimeout <= 0 {
		cfg.JoinTimeout = channel.DefaultConfig().JoinTimeout
	}
	return &Provider{
		client:      client,
		joinTimeout: cfg.JoinTimeout,
		logger:      logger,
	}
}

func (p *Provider) Open(_ context.Context, topic, filter string, h live.ChannelHandler) (live.Channel, error) {
	f, err := channel.ParseFilter(filter)
	if err != nil {
		return nil, err
	}

	// the subscription outlives the Open call
	ctx, cancel := context.WithCancel(context.Background())
	c := &pubsubChannel{
		topic:   topic,
		filter:  f,
		ps:      p.client.Subscribe(ctx, topic),
		handler: h,
		cancel:  cancel,
		done:    make(chan struct{}),
		logger:  p.logger.With(log.String("topic", topic)),
	}
	c.state.Store(live.StatusConnecting)

	go c.run(ctx, p.joinTimeout)
	return c, nil
}

type pubsubChannel struct {
	topic   string
	filter  channel.Filter
	ps      *redis.PubSub
	handler live.ChannelHandler
	state   atomic.Value
	closed  atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
	logger  *log.Logger
}

func (c *pubsubChannel) Topic() string {
	return c.topic
}

func (c *pubsubChannel) State() live.Status {
	return c.state.Load().(live.Status)
}

func (c *pubsubChannel) Close(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.cancel()
	err := c.ps.Close()

	select {
	case <-c.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

func (c *pubsubChannel) emit(status live.Status, err error) {
	c.state.Store(status)
	c.handler.OnStatus(status, err)
}

func (c *pubsubChannel) run(ctx context.Context, joinTimeout time.Duration) {
	defer close(c.done)

	c.handler.OnStatus(live.StatusConnecting, nil)
	if !c.join(ctx, joinTimeout) {
		return
	}

	for {
		msg, err := c.ps.Receive(ctx)
		if err != nil {
			c.terminate(err)
			return
		}

		switch m := msg.(type) {
		case *redis.Message:
			c.deliver(m.Payload)
		case *redis.Subscription:
			if m.Kind == "unsubscribe" && !c.closed.Load() {
				c.emit(live.StatusClosed, nil)
				return
			}
		case *redis.Pong:
		}
	}
}

// join waits for the subscribe confirmation.
func (c *pubsubChannel) join(ctx context.Context, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			c.emit(live.StatusTimedOut, nil)
			return false
		}

		msg, err := c.ps.ReceiveTimeout(ctx, remaining)
		if err != nil {
			if c.closed.Load() {
				c.emit(live.StatusClosed, nil)
				return false
			}
			if isTimeout(err) {
				c.emit(live.StatusTimedOut, err)
				return false
			}
			c.emit(live.StatusError, err)
			return false
		}

		if sub, ok := msg.(*redis.Subscription); ok && sub.Kind == "subscribe" {
			c.logger.Debug("Channel subscribed")
			c.emit(live.StatusSubscribed, nil)
			return true
		}
	}
}

func (c *pubsubChannel) terminate(err error) {
	if c.closed.Load() {
		c.emit(live.StatusClosed, nil)
		return
	}
	c.logger.Warn("Channel receive failed", log.Error(err))
	c.emit(live.StatusError, err)
}

func (c *pubsubChannel) deliver(payload string) {
	var ev live.RawEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		c.logger.Warn("Dropping undecodable payload", log.Error(err))
		return
	}
	if !c.filter.Match(ev.Record) {
		return
	}
	c.handler.OnEvent(ev)
}

func isTimeout(err error) bool {
	ne, ok := errors.As[net.Error](err)
	return ok && (*ne).Timeout()
}
