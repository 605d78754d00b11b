package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/imtaco/resonare-live/internal/log"
	intsync "github.com/imtaco/resonare-live/internal/sync"
	"github.com/imtaco/resonare-live/live"
	"github.com/imtaco/resonare-live/live/fakes"
)

type stubMaterializer struct{}

func (stubMaterializer) Materialize(_ context.Context, ev live.RawEvent) (*live.Notification, bool) {
	id, ok := ev.Record["id"].(string)
	if !ok {
		return nil, false
	}
	return &live.Notification{ID: id}, true
}

type recorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *recorder) callback(n *live.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, n.ID)
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func event(id string) live.RawEvent {
	return live.RawEvent{
		Type:   "INSERT",
		Table:  "notifications",
		Record: map[string]any{"id": id},
	}
}

type ManagerTestSuite struct {
	suite.Suite
	clock    *clockwork.FakeClock
	provider *fakes.Provider
	manager  *Manager
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func (s *ManagerTestSuite) SetupTest() {
	s.clock = clockwork.NewFakeClock()
	s.provider = fakes.NewProvider()

	cfg := DefaultConfig()
	cfg.HealthInterval = 0
	s.manager = newManagerWithClock(cfg, s.provider, stubMaterializer{}, log.NewTest(s.T()), s.clock)
	s.manager.backoff.rand = func() float64 { return 0 }
}

func (s *ManagerTestSuite) TearDownTest() {
	s.Require().NoError(s.manager.Shutdown(context.Background()))
}

func (s *ManagerTestSuite) waitChannels(n int) {
	s.Require().Eventually(func() bool {
		return s.provider.Count() == n
	}, time.Second, 5*time.Millisecond, "expected %d channels", n)
}

func (s *ManagerTestSuite) snapshot(key string) Snapshot {
	snap, ok := s.manager.Snapshot(key)
	s.Require().True(ok, "entry %s missing", key)
	return snap
}

func (s *ManagerTestSuite) TestSubscribeOpensChannel() {
	s.manager.Subscribe("u1", func(*live.Notification) {})

	s.Require().Equal(1, s.provider.Count())
	ch := s.provider.Last()
	s.Assert().Equal("notifications:u1", ch.Topic())
	s.Assert().Equal("user_id=eq.u1", ch.Filter())
	s.Assert().Equal(1, s.manager.Len())
	s.Assert().Equal(PhaseConnecting, s.snapshot("u1").Phase)
}

func (s *ManagerTestSuite) TestIdempotentSubscribe() {
	first := &recorder{}
	second := &recorder{}

	s.manager.Subscribe("u1", first.callback)
	s.provider.Last().Emit(live.StatusSubscribed, nil)

	s.manager.Subscribe("u1", second.callback)

	s.Assert().Equal(1, s.provider.Count())
	s.Assert().Equal(1, s.provider.OpenCount())
	s.Assert().Equal(1, s.manager.Len())

	s.provider.Last().Deliver(event("n1"))
	s.Assert().Empty(first.got())
	s.Assert().Equal([]string{"n1"}, second.got())
}

func (s *ManagerTestSuite) TestSubscribeReplacesUnhealthyEntry() {
	s.manager.Subscribe("u1", func(*live.Notification) {})
	old := s.provider.Last()
	old.Emit(live.StatusError, errors.New("boom"))

	s.manager.Subscribe("u1", func(*live.Notification) {})

	s.Assert().Equal(2, s.provider.Count())
	s.Assert().True(old.Closed())
	s.Assert().Equal(1, s.provider.OpenCount())

	// the retry armed for the replaced entry must not fire
	s.clock.Advance(time.Minute)
	s.Assert().Never(func() bool {
		return s.provider.Count() > 2
	}, 50*time.Millisecond, 5*time.Millisecond)

	snap := s.snapshot("u1")
	s.Assert().False(snap.Retrying)
	s.Assert().Equal(0, snap.Attempt)
}

func (s *ManagerTestSuite) TestNoDuplicateRetries() {
	s.manager.Subscribe("u1", func(*live.Notification) {})
	ch := s.provider.Last()

	ch.Emit(live.StatusError, errors.New("boom"))
	ch.Emit(live.StatusTimedOut, nil)
	s.Assert().True(s.snapshot("u1").Retrying)

	s.clock.Advance(time.Second)
	s.waitChannels(2)

	s.clock.Advance(time.Minute)
	s.Assert().Never(func() bool {
		return s.provider.Count() > 2
	}, 50*time.Millisecond, 5*time.Millisecond)

	s.Assert().True(ch.Closed())
	s.Assert().Equal(1, s.snapshot("u1").Attempt)
}

func (s *ManagerTestSuite) TestStaleClosedIgnored() {
	s.manager.Subscribe("u1", func(*live.Notification) {})
	ch := s.provider.Last()

	ch.Emit(live.StatusError, errors.New("boom"))
	ch.Emit(live.StatusSubscribed, nil)
	ch.EmitStale(live.StatusClosed)

	s.clock.Advance(time.Minute)
	s.Assert().Never(func() bool {
		return s.provider.Count() > 1
	}, 50*time.Millisecond, 5*time.Millisecond)

	snap := s.snapshot("u1")
	s.Assert().True(snap.Healthy)
	s.Assert().False(snap.Retrying)
	s.Assert().Equal(0, snap.Attempt)
	s.Assert().Equal(PhaseHealthy, snap.Phase)
}

func (s *ManagerTestSuite) TestClosedWhenUnhealthyRetries() {
	s.manager.Subscribe("u1", func(*live.Notification) {})
	s.provider.Last().Emit(live.StatusClosed, nil)

	s.Assert().True(s.snapshot("u1").Retrying)
	s.clock.Advance(time.Second)
	s.waitChannels(2)
}

func (s *ManagerTestSuite) TestRetryCancelledWhenRecovered() {
	s.manager.Subscribe("u1", func(*live.Notification) {})
	ch := s.provider.Last()

	ch.Emit(live.StatusError, errors.New("boom"))
	// recovers without a status callback reaching us
	ch.SetState(live.StatusSubscribed)

	s.clock.Advance(time.Second)
	s.Require().Eventually(func() bool {
		snap := s.snapshot("u1")
		return !snap.Retrying && snap.Phase == PhaseHealthy
	}, time.Second, 5*time.Millisecond)

	s.Assert().Equal(1, s.provider.Count())
	s.Assert().False(ch.Closed())
}

func (s *ManagerTestSuite) TestRetryCeiling() {
	s.manager.Subscribe("u1", func(*live.Notification) {})

	for attempt := 0; attempt < 5; attempt++ {
		s.provider.Last().Emit(live.StatusError, errors.New("boom"))
		s.Require().True(s.snapshot("u1").Retrying)

		s.clock.Advance(s.manager.backoff.Base(attempt))
		s.waitChannels(attempt + 2)
	}

	// sixth consecutive failure gives up
	s.provider.Last().Emit(live.StatusError, errors.New("boom"))

	snap := s.snapshot("u1")
	s.Assert().Equal(PhaseTerminated, snap.Phase)
	s.Assert().False(snap.Retrying)
	s.Assert().Equal(5, snap.Attempt)

	s.clock.Advance(time.Hour)
	s.Assert().Never(func() bool {
		return s.provider.Count() > 6
	}, 50*time.Millisecond, 5*time.Millisecond)
	s.Assert().Equal(1, s.manager.Len())

	// dormant entries ignore health checks
	s.Assert().False(s.manager.CheckHealth("u1"))

	s.Require().True(s.manager.Refresh("u1"))
	s.Assert().Equal(7, s.provider.Count())
	snap = s.snapshot("u1")
	s.Assert().Equal(0, snap.Attempt)
	s.Assert().Equal(PhaseConnecting, snap.Phase)
}

func (s *ManagerTestSuite) TestOpenFailureCountsAsAttempt() {
	s.provider.FailNext(errors.New("dial failed"))

	s.manager.Subscribe("u1", func(*live.Notification) {})
	s.Assert().Equal(0, s.provider.Count())
	s.Assert().True(s.snapshot("u1").Retrying)

	s.clock.Advance(time.Second)
	s.waitChannels(1)
	s.Assert().Equal(1, s.snapshot("u1").Attempt)
}

func (s *ManagerTestSuite) TestSubscribedResetsAttempt() {
	s.manager.Subscribe("u1", func(*live.Notification) {})
	s.provider.Last().Emit(live.StatusError, errors.New("boom"))
	s.clock.Advance(time.Second)
	s.waitChannels(2)

	s.provider.Last().Emit(live.StatusSubscribed, nil)

	snap := s.snapshot("u1")
	s.Assert().Equal(0, snap.Attempt)
	s.Assert().True(snap.Healthy)
}

func (s *ManagerTestSuite) TestUnsubscribeClearsPendingRetry() {
	s.manager.Subscribe("u1", func(*live.Notification) {})
	ch := s.provider.Last()
	ch.Emit(live.StatusError, errors.New("boom"))

	s.manager.Unsubscribe("u1")
	s.Assert().True(ch.Closed())
	s.Assert().Equal(0, s.manager.Len())

	s.clock.Advance(time.Minute)
	s.Assert().Never(func() bool {
		return s.provider.Count() > 1
	}, 50*time.Millisecond, 5*time.Millisecond)

	// missing key is a no-op
	s.manager.Unsubscribe("u1")
	s.manager.Unsubscribe("nobody")
}

func (s *ManagerTestSuite) TestUnsubscribeFuncOwnedByLatestSubscriber() {
	unsub1 := s.manager.Subscribe("u1", func(*live.Notification) {})
	s.provider.Last().Emit(live.StatusSubscribed, nil)
	unsub2 := s.manager.Subscribe("u1", func(*live.Notification) {})

	unsub1()
	s.Assert().Equal(1, s.manager.Len())

	unsub2()
	s.Assert().Equal(0, s.manager.Len())
	s.Assert().True(s.provider.Last().Closed())
}

func (s *ManagerTestSuite) TestEventsMaterializedAndDelivered() {
	rec := &recorder{}
	s.manager.Subscribe("u1", rec.callback)
	ch := s.provider.Last()
	ch.Emit(live.StatusSubscribed, nil)

	ch.Deliver(event("n1"))
	ch.Deliver(live.RawEvent{Record: map[string]any{"unexpected": true}})
	ch.Deliver(event("n2"))

	s.Assert().Equal([]string{"n1", "n2"}, rec.got())
}

func (s *ManagerTestSuite) TestCallbackPanicContained() {
	calls := 0
	s.manager.Subscribe("u1", func(*live.Notification) {
		calls++
		panic("consumer bug")
	})
	ch := s.provider.Last()

	s.Assert().NotPanics(func() {
		ch.Deliver(event("n1"))
		ch.Deliver(event("n2"))
	})
	s.Assert().Equal(2, calls)
}

func (s *ManagerTestSuite) TestRefreshReusesCallback() {
	rec := &recorder{}
	s.manager.Subscribe("u1", rec.callback)
	old := s.provider.Last()
	old.Emit(live.StatusSubscribed, nil)

	s.Require().True(s.manager.Refresh("u1"))
	s.Assert().True(old.Closed())
	s.Assert().Equal(2, s.provider.Count())

	// stale channel callbacks are ignored
	old.Deliver(event("stale"))
	old.EmitStale(live.StatusError)
	s.Assert().False(s.snapshot("u1").Retrying)

	s.provider.Last().Deliver(event("fresh"))
	s.Assert().Equal([]string{"fresh"}, rec.got())

	s.Assert().False(s.manager.Refresh("nobody"))
}

func (s *ManagerTestSuite) TestCheckHealth() {
	s.manager.Subscribe("u1", func(*live.Notification) {})
	ch := s.provider.Last()
	ch.Emit(live.StatusSubscribed, nil)

	s.Assert().False(s.manager.CheckHealth("u1"))

	// status callback missed
	ch.SetState(live.StatusError)
	s.Assert().True(s.manager.CheckHealth("u1"))
	s.Assert().False(s.manager.CheckHealth("u1"))

	s.clock.Advance(time.Second)
	s.waitChannels(2)

	s.Assert().False(s.manager.CheckHealth("nobody"))
}

func (s *ManagerTestSuite) TestHealthy() {
	s.Assert().False(s.manager.Healthy("u1"))

	s.manager.Subscribe("u1", func(*live.Notification) {})
	ch := s.provider.Last()
	s.Assert().False(s.manager.Healthy("u1"))

	ch.Emit(live.StatusSubscribed, nil)
	s.Assert().True(s.manager.Healthy("u1"))
	s.Assert().False(s.manager.CheckHealth("u1"))

	ch.SetState(live.StatusError)
	s.Assert().False(s.manager.Healthy("u1"))
}

func (s *ManagerTestSuite) TestSubscribeRacingShutdown() {
	subscribed := make(chan func(), 1)
	s.manager.entries.WithLock(func(intsync.View[string, *entry]) {
		go func() {
			subscribed <- s.manager.Subscribe("late", func(*live.Notification) {})
		}()
		// give Subscribe time to pass its early check and wait on the lock
		time.Sleep(20 * time.Millisecond)
		s.manager.cancel()
	})

	unsubscribe := <-subscribed
	unsubscribe()
	s.Assert().Equal(0, s.manager.Len())
	s.Assert().Equal(0, s.provider.Count())
}

func (s *ManagerTestSuite) TestShutdownClosesEverything() {
	s.manager.Subscribe("u1", func(*live.Notification) {})
	s.manager.Subscribe("u2", func(*live.Notification) {})
	s.provider.Channel(0).Emit(live.StatusError, errors.New("boom"))

	s.Require().NoError(s.manager.Shutdown(context.Background()))
	s.Assert().Equal(0, s.manager.Len())
	s.Assert().Equal(0, s.provider.OpenCount())

	s.clock.Advance(time.Minute)
	s.manager.Subscribe("u3", func(*live.Notification) {})
	s.Assert().Equal(2, s.provider.Count())
}

func (s *ManagerTestSuite) TestProbeSubscribed() {
	result := make(chan live.Status, 1)
	go func() {
		result <- s.manager.Probe(context.Background())
	}()

	s.waitChannels(1)
	ch := s.provider.Last()
	s.Assert().Contains(ch.Topic(), "test:")
	ch.Emit(live.StatusSubscribed, nil)

	s.Assert().Equal(live.StatusSubscribed, <-result)
	s.Require().Eventually(ch.Closed, time.Second, 5*time.Millisecond)
	s.Assert().Equal(0, s.manager.Len())
}

func (s *ManagerTestSuite) TestProbeTimeout() {
	result := make(chan live.Status, 1)
	go func() {
		result <- s.manager.Probe(context.Background())
	}()

	s.waitChannels(1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Require().NoError(s.clock.BlockUntilContext(ctx, 1))
	s.clock.Advance(2 * time.Second)

	s.Assert().Equal(live.StatusTimedOut, <-result)
	s.Require().Eventually(s.provider.Last().Closed, time.Second, 5*time.Millisecond)
}

func (s *ManagerTestSuite) TestProbeOpenError() {
	s.provider.FailNext(errors.New("dial failed"))
	s.Assert().Equal(live.StatusError, s.manager.Probe(context.Background()))
}

func (s *ManagerTestSuite) TestStartMarksReady() {
	s.Assert().False(s.manager.Ready())
	s.manager.Start()
	s.manager.Start()

	s.waitChannels(1)
	s.provider.Last().Emit(live.StatusSubscribed, nil)

	s.Assert().True(s.manager.WaitReady(context.Background()))
	s.Assert().True(s.manager.Ready())
}

func TestHealthSweep(t *testing.T) {
	clock := clockwork.NewFakeClock()
	provider := fakes.NewProvider()
	cfg := DefaultConfig()
	cfg.HealthInterval = 30 * time.Second

	m := newManagerWithClock(cfg, provider, stubMaterializer{}, log.NewTest(t), clock)
	m.backoff.rand = func() float64 { return 0 }
	defer func() {
		_ = m.Shutdown(context.Background())
	}()

	m.Subscribe("u1", func(*live.Notification) {})
	ch := provider.Last()
	ch.Emit(live.StatusSubscribed, nil)
	ch.SetState(live.StatusError)

	require.Eventually(t, func() bool {
		clock.Advance(30 * time.Second)
		return provider.Count() >= 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, ch.Closed())
}
