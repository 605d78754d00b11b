package realtime

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/imtaco/resonare-live/internal/log"
	"github.com/imtaco/resonare-live/internal/scheduler"
	"github.com/imtaco/resonare-live/internal/sync"
	"github.com/imtaco/resonare-live/live"
)

const closeTimeout = 5 * time.Second

// Callback receives every materialized notification for a subscription.
type Callback = func(n *live.Notification)

// Materializer turns a raw change event into a notification. The bool is
// false when the event must be dropped.
type Materializer interface {
	Materialize(ctx context.Context, ev live.RawEvent) (*live.Notification, bool)
}

type entry struct {
	key string
	// gen identifies the channel instance the entry currently owns
	gen uint64
	// owner identifies the Subscribe call whose callback is installed
	owner      uint64
	channel    live.Channel
	lastStatus live.Status
	callback   Callback
	attempt    int
	retrySeq   uint64
	retryTimer clockwork.Timer
	retrying   bool
	phase      Phase
}

func newEntry(key string, gen, owner uint64, cb Callback) *entry {
	return &entry{
		key:        key,
		gen:        gen,
		owner:      owner,
		callback:   cb,
		phase:      PhaseConnecting,
		lastStatus: live.StatusConnecting,
	}
}

func (e *entry) liveHealthy() bool {
	if e.channel != nil {
		return e.channel.State().Healthy()
	}
	return e.lastStatus.Healthy()
}

func (e *entry) state(maxAttempts int) State {
	return State{
		Phase:       e.phase,
		Retrying:    e.retrying,
		LiveHealthy: e.liveHealthy(),
		Attempt:     e.attempt,
		MaxAttempts: maxAttempts,
	}
}

func (e *entry) apply(d Decision) {
	e.phase = d.Phase
	e.retrying = d.Retrying
	e.attempt = d.Attempt
}

func (e *entry) stopTimer() {
	if e.retryTimer != nil {
		e.retryTimer.Stop()
		e.retryTimer = nil
	}
}

// Snapshot is a read-only view of a subscription entry.
type Snapshot struct {
	Phase    Phase
	Status   live.Status
	Attempt  int
	Retrying bool
	Healthy  bool
}

var _ live.Subscriptions = (*Manager)(nil)

// Manager owns at most one live channel per subscriber key and keeps it
// alive across channel errors with bounded, jittered retries.
type Manager struct {
	provider     live.ChannelProvider
	materializer Materializer
	entries      *sync.Map[string, *entry]
	seq          atomic.Uint64

	backoff        Backoff
	maxAttempts    int
	healthInterval time.Duration
	probeTimeout   time.Duration
	readyTimeout   time.Duration
	topicPrefix    string

	sweeper *scheduler.KeyedScheduler
	started atomic.Bool
	ready   chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	clock  clockwork.Clock
	logger *log.Logger
}

func NewManager(
	cfg *Config,
	provider live.ChannelProvider,
	materializer Materializer,
	logger *log.Logger,
) *Manager {
	return newManagerWithClock(cfg, provider, materializer, logger, clockwork.NewRealClock())
}

func newManagerWithClock(
	cfg *Config,
	provider live.ChannelProvider,
	materializer Materializer,
	logger *log.Logger,
	clock clockwork.Clock,
) *Manager {
	if provider == nil {
		panic("channel provider is required")
	}
	if materializer == nil {
		panic("materializer is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		provider:       provider,
		materializer:   materializer,
		entries:        sync.NewMap[string, *entry](),
		backoff:        NewBackoff(cfg.InitialDelay, cfg.MaxDelay),
		maxAttempts:    cfg.MaxAttempts,
		healthInterval: cfg.HealthInterval,
		probeTimeout:   cfg.ProbeTimeout,
		readyTimeout:   cfg.ReadyTimeout,
		topicPrefix:    cfg.TopicPrefix,
		ready:          make(chan struct{}),
		ctx:            ctx,
		cancel:         cancel,
		clock:          clock,
		logger:         logger,
	}

	if m.healthInterval > 0 {
		m.sweeper = scheduler.NewKeyedSchedulerWithClock(logger.Module("Sweeper"), clock)
		go m.sweep()
	}
	return m
}

// Subscribe registers cb for key. A healthy existing entry only has its
// callback swapped; an unhealthy one is torn down and replaced. The returned
// func unsubscribes, unless a later Subscribe for the same key took over.
func (m *Manager) Subscribe(key string, cb Callback) func() {
	if m.ctx.Err() != nil {
		m.logger.Warn("Subscribe after shutdown ignored", log.String("key", key))
		return func() {}
	}

	owner := m.seq.Add(1)
	var (
		stale  *entry
		gen    uint64
		reused bool
		closed bool
	)
	m.entries.WithLock(func(v sync.View[string, *entry]) {
		// Shutdown drains under this lock, re-check so nothing slips in after
		if m.ctx.Err() != nil {
			closed = true
			return
		}
		if e, ok := v.Get(key); ok {
			if e.liveHealthy() {
				e.callback = cb
				e.owner = owner
				reused = true
				return
			}
			e.stopTimer()
			stale = e
		}
		gen = m.seq.Add(1)
		v.Set(key, newEntry(key, gen, owner, cb))
	})

	if closed {
		m.logger.Warn("Subscribe after shutdown ignored", log.String("key", key))
		return func() {}
	}

	unsubscribe := func() { m.remove(key, owner) }
	if reused {
		m.logger.Debug("Reusing healthy subscription", log.String("key", key))
		return unsubscribe
	}

	if stale != nil {
		m.logger.Info("Replacing unhealthy subscription",
			log.String("key", key),
			log.String("phase", stale.phase.String()))
		m.closeChannel(key, stale.channel)
	} else {
		subscriptionsActive.Add(m.ctx, 1)
		if m.sweeper != nil {
			m.sweeper.Enqueue(key, m.healthInterval)
		}
	}

	m.open(key, gen)
	return unsubscribe
}

// Unsubscribe stops any pending retry, closes the channel and removes the
// entry. Missing keys are ignored.
func (m *Manager) Unsubscribe(key string) {
	m.remove(key, 0)
}

func (m *Manager) remove(key string, owner uint64) {
	var removed *entry
	m.entries.WithLock(func(v sync.View[string, *entry]) {
		e, ok := v.Get(key)
		if !ok || (owner != 0 && e.owner != owner) {
			return
		}
		e.stopTimer()
		v.Delete(key)
		removed = e
	})
	if removed == nil {
		return
	}

	subscriptionsActive.Add(m.ctx, -1)
	if m.sweeper != nil {
		m.sweeper.Cancel(key)
	}
	m.closeChannel(key, removed.channel)
	m.logger.Info("Unsubscribed", log.String("key", key))
}

// Refresh tears down the entry for key and resubscribes from attempt 0 with
// the stored callback. It also resumes entries that gave up retrying.
func (m *Manager) Refresh(key string) bool {
	var (
		old   live.Channel
		gen   uint64
		found bool
	)
	m.entries.WithLock(func(v sync.View[string, *entry]) {
		e, ok := v.Get(key)
		if !ok {
			return
		}
		found = true
		e.stopTimer()
		old = e.channel
		gen = m.seq.Add(1)
		v.Set(key, newEntry(key, gen, e.owner, e.callback))
	})
	if !found {
		m.logger.Debug("Refresh for unknown key", log.String("key", key))
		return false
	}

	m.logger.Info("Refreshing subscription", log.String("key", key))
	m.closeChannel(key, old)
	m.open(key, gen)
	return true
}

// CheckHealth enters the retry path when the live channel state is unhealthy
// and no retry is pending. It reports whether a retry was scheduled.
func (m *Manager) CheckHealth(key string) bool {
	d, ok := m.step(key, 0, "", Check)
	if !ok {
		return false
	}
	m.report(key, d, nil)
	return d.Action == ActionScheduleRetry
}

// Healthy reports whether the channel for key currently reports a healthy
// state. Unknown keys are unhealthy.
func (m *Manager) Healthy(key string) bool {
	snap, ok := m.Snapshot(key)
	return ok && snap.Healthy
}

func (m *Manager) Len() int {
	return m.entries.Len()
}

func (m *Manager) Snapshot(key string) (Snapshot, bool) {
	var (
		snap Snapshot
		ok   bool
	)
	m.entries.WithLock(func(v sync.View[string, *entry]) {
		e, found := v.Get(key)
		if !found {
			return
		}
		ok = true
		status := e.lastStatus
		if e.channel != nil {
			status = e.channel.State()
		}
		snap = Snapshot{
			Phase:    e.phase,
			Status:   status,
			Attempt:  e.attempt,
			Retrying: e.retrying,
			Healthy:  status.Healthy(),
		}
	})
	return snap, ok
}

// Shutdown stops every timer and closes every channel.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.cancel()
	if m.sweeper != nil {
		m.sweeper.Shutdown()
	}

	var removed []*entry
	m.entries.WithLock(func(v sync.View[string, *entry]) {
		v.Range(func(key string, e *entry) bool {
			e.stopTimer()
			removed = append(removed, e)
			v.Delete(key)
			return true
		})
	})
	if len(removed) == 0 {
		return nil
	}
	subscriptionsActive.Add(ctx, -int64(len(removed)))

	var g errgroup.Group
	for _, e := range removed {
		if e.channel == nil {
			continue
		}
		ch := e.channel
		g.Go(func() error {
			return ch.Close(ctx)
		})
	}
	err := g.Wait()
	m.logger.Info("Subscriptions closed", log.Int("count", len(removed)))
	return err
}

func (m *Manager) open(key string, gen uint64) {
	h := &handler{m: m, key: key, gen: gen}
	topic := live.NotificationTopic(m.topicPrefix, key)

	ch, err := m.provider.Open(m.ctx, topic, live.NotificationFilter(key), h)
	if err != nil {
		openFailures.Add(m.ctx, 1)
		m.logger.Warn("Failed to open channel",
			log.String("key", key),
			log.String("topic", topic),
			log.Error(err))
		// an open failure counts as a failed attempt
		m.onStatus(key, gen, live.StatusError, err)
		return
	}

	attached := false
	m.entries.WithLock(func(v sync.View[string, *entry]) {
		if e, ok := v.Get(key); ok && e.gen == gen {
			e.channel = ch
			attached = true
		}
	})
	if !attached {
		// superseded while opening
		m.closeChannel(key, ch)
	}
}

func (m *Manager) closeChannel(key string, ch live.Channel) {
	if ch == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := ch.Close(ctx); err != nil {
		m.logger.Warn("Failed to close channel",
			log.String("key", key),
			log.Error(err))
	}
}

func (m *Manager) onStatus(key string, gen uint64, status live.Status, cause error) {
	rule := func(s State) Decision { return Transition(s, status) }
	d, ok := m.step(key, gen, status, rule)
	if !ok {
		m.logger.Debug("Ignoring status from stale channel",
			log.String("key", key),
			log.String("status", string(status)))
		return
	}
	m.report(key, d, cause)
}

// step runs rule against the entry for key under lock and performs the
// timer side of the decision. gen 0 matches whatever channel is current.
func (m *Manager) step(key string, gen uint64, status live.Status, rule func(State) Decision) (Decision, bool) {
	var (
		d       Decision
		matched bool
	)
	m.entries.WithLock(func(v sync.View[string, *entry]) {
		e, ok := v.Get(key)
		if !ok || (gen != 0 && e.gen != gen) {
			return
		}
		matched = true
		if status != "" {
			e.lastStatus = status
		}

		d = rule(e.state(m.maxAttempts))
		e.apply(d)

		switch d.Action {
		case ActionResetRetry, ActionGiveUp:
			e.stopTimer()
		case ActionScheduleRetry:
			e.stopTimer()
			e.retrySeq = m.seq.Add(1)
			chGen, seq := e.gen, e.retrySeq
			e.retryTimer = m.clock.AfterFunc(m.backoff.Delay(e.attempt), func() {
				m.fire(key, chGen, seq)
			})
		}
	})
	return d, matched
}

func (m *Manager) report(key string, d Decision, cause error) {
	switch d.Action {
	case ActionResetRetry:
		m.logger.Info("Subscription healthy", log.String("key", key))
	case ActionScheduleRetry:
		retriesScheduled.Add(m.ctx, 1)
		m.logger.Warn("Subscription degraded, retry scheduled",
			log.String("key", key),
			log.Int("attempt", d.Attempt),
			log.Error(cause))
	case ActionGiveUp:
		retriesGivenUp.Add(m.ctx, 1)
		m.logger.Error("Max retry attempts reached, subscription dormant until refresh",
			log.String("key", key),
			log.Int("attempts", d.Attempt),
			log.Error(cause))
	}
}

func (m *Manager) fire(key string, gen, seq uint64) {
	if m.ctx.Err() != nil {
		return
	}

	var (
		d       Decision
		old     live.Channel
		newGen  uint64
		matched bool
	)
	m.entries.WithLock(func(v sync.View[string, *entry]) {
		e, ok := v.Get(key)
		if !ok || e.gen != gen || !e.retrying || e.retrySeq != seq {
			return
		}
		matched = true
		e.retryTimer = nil

		d = Fire(e.state(m.maxAttempts))
		e.apply(d)
		if d.Action != ActionResubscribe {
			return
		}
		old = e.channel
		newGen = m.seq.Add(1)
		e.channel = nil
		e.gen = newGen
		e.lastStatus = live.StatusConnecting
	})
	if !matched {
		return
	}
	if d.Action != ActionResubscribe {
		m.logger.Info("Retry cancelled, channel already recovered", log.String("key", key))
		return
	}

	resubscribes.Add(m.ctx, 1)
	m.logger.Info("Retrying subscription",
		log.String("key", key),
		log.Int("attempt", d.Attempt))
	m.closeChannel(key, old)
	m.open(key, newGen)
}

func (m *Manager) onEvent(key string, gen uint64, ev live.RawEvent) {
	if _, ok := m.callbackFor(key, gen); !ok {
		return
	}

	n, ok := m.materializer.Materialize(m.ctx, ev)
	if !ok {
		eventsDropped.Add(m.ctx, 1)
		return
	}

	// the entry may have been replaced or its callback swapped meanwhile
	cb, ok := m.callbackFor(key, gen)
	if !ok {
		return
	}
	m.deliver(key, cb, n)
}

func (m *Manager) callbackFor(key string, gen uint64) (Callback, bool) {
	var cb Callback
	m.entries.WithLock(func(v sync.View[string, *entry]) {
		if e, ok := v.Get(key); ok && e.gen == gen {
			cb = e.callback
		}
	})
	return cb, cb != nil
}

func (m *Manager) deliver(key string, cb Callback, n *live.Notification) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Subscriber callback panicked",
				log.String("key", key),
				log.Any("panic", r))
		}
	}()
	cb(n)
	eventsDelivered.Add(m.ctx, 1)
}

func (m *Manager) sweep() {
	for key := range m.sweeper.Chan() {
		exists := false
		m.entries.WithLock(func(v sync.View[string, *entry]) {
			_, exists = v.Get(key)
		})
		if !exists {
			continue
		}
		m.CheckHealth(key)
		// enqueue off the fire loop, it blocks until this loop reads again
		go m.sweeper.Enqueue(key, m.healthInterval)
	}
}

// handler routes callbacks of one channel instance back to the manager.
type handler struct {
	m   *Manager
	key string
	gen uint64
}

func (h *handler) OnStatus(status live.Status, err error) {
	h.m.onStatus(h.key, h.gen, status, err)
}

func (h *handler) OnEvent(ev live.RawEvent) {
	h.m.onEvent(h.key, h.gen, ev)
}
