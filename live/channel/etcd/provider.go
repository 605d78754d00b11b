package etcd

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/imtaco/resonare-live/internal/errors"
	"github.com/imtaco/resonare-live/internal/etcd"
	"github.com/imtaco/resonare-live/internal/log"
	"github.com/imtaco/resonare-live/live"
	"github.com/imtaco/resonare-live/live/channel"
)

var errWatchClosed = errors.PureNew("watch stream closed")

// Provider opens live channels as etcd prefix watches. A topic maps to the
// key prefix <root><topic>/ and every put under it is one event.
type Provider struct {
	client      etcd.Watcher
	root        string
	joinTimeout time.Duration
	clock       clockwork.Clock
	logger      *log.Logger
}

var _ live.ChannelProvider = (*Provider)(nil)

func NewProvider(client etcd.Watcher, cfg channel.Config, logger *log.Logger) *Provider {
	return newProviderWithClock(client, cfg, logger, clockwork.NewRealClock())
}

func newProviderWithClock(client etcd.Watcher, cfg channel.Config, logger *log.Logger, clock clockwork.Clock) *Provider {
	def := channel.DefaultConfig()
	if cfg.JoinTimeout <= 0 {
		cfg.JoinTimeout = def.JoinTimeout
	}
	if cfg.EtcdPrefix == "" {
		cfg.EtcdPrefix = def.EtcdPrefix
	}
	return &Provider{
		client:      client,
		root:        cfg.EtcdPrefix,
		joinTimeout: cfg.JoinTimeout,
		clock:       clock,
		logger:      logger,
	}
}

func topicKey(root, topic string) string {
	return root + topic + "/"
}

func (p *Provider) Open(_ context.Context, topic, filter string, h live.ChannelHandler) (live.Channel, error) {
	f, err := channel.ParseFilter(filter)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	key := topicKey(p.root, topic)
	wch := p.client.Watch(ctx, key,
		clientv3.WithPrefix(),
		clientv3.WithCreatedNotify())

	c := &watchChannel{
		topic:   topic,
		filter:  f,
		handler: h,
		cancel:  cancel,
		done:    make(chan struct{}),
		logger:  p.logger.With(log.String("topic", topic)),
	}
	c.state.Store(live.StatusConnecting)

	go c.run(wch, p.clock, p.joinTimeout)
	return c, nil
}

type watchChannel struct {
	topic   string
	filter  channel.Filter
	handler live.ChannelHandler
	state   atomic.Value
	closed  atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
	logger  *log.Logger
}

func (c *watchChannel) Topic() string {
	return c.topic
}

func (c *watchChannel) State() live.Status {
	return c.state.Load().(live.Status)
}

func (c *watchChannel) Close(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.cancel()

	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *watchChannel) emit(status live.Status, err error) {
	c.state.Store(status)
	c.handler.OnStatus(status, err)
}

func (c *watchChannel) run(wch clientv3.WatchChan, clock clockwork.Clock, joinTimeout time.Duration) {
	defer close(c.done)

	c.handler.OnStatus(live.StatusConnecting, nil)

	timer := clock.NewTimer(joinTimeout)
	defer timer.Stop()

	select {
	case resp, ok := <-wch:
		if !ok {
			c.terminate(errWatchClosed)
			return
		}
		if err := resp.Err(); err != nil {
			c.terminate(err)
			return
		}
		c.logger.Debug("Watch created")
		c.emit(live.StatusSubscribed, nil)
		c.handle(resp)
	case <-timer.Chan():
		c.emit(live.StatusTimedOut, nil)
		return
	}

	for resp := range wch {
		if err := resp.Err(); err != nil {
			c.terminate(err)
			return
		}
		c.handle(resp)
	}
	c.terminate(errWatchClosed)
}

func (c *watchChannel) terminate(err error) {
	if c.closed.Load() {
		c.emit(live.StatusClosed, nil)
		return
	}
	c.logger.Warn("Watch failed", log.Error(err))
	c.emit(live.StatusError, err)
}

func (c *watchChannel) handle(resp clientv3.WatchResponse) {
	for _, ev := range resp.Events {
		// deletes are lease expiry of delivered events
		if ev.Type != clientv3.EventTypePut {
			continue
		}
		var raw live.RawEvent
		if err := json.Unmarshal(ev.Kv.Value, &raw); err != nil {
			c.logger.Warn("Dropping undecodable value",
				log.String("key", string(ev.Kv.Key)),
				log.Error(err))
			continue
		}
		if !c.filter.Match(raw.Record) {
			continue
		}
		c.handler.OnEvent(raw)
	}
}
