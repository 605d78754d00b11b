package realtime

import (
	"context"

	"github.com/google/uuid"

	"github.com/imtaco/resonare-live/internal/log"
	"github.com/imtaco/resonare-live/live"
)

// Start runs the connectivity probe in the background. The manager reports
// ready once the probe settles, whatever its outcome; subscriptions do not
// wait for it.
func (m *Manager) Start() {
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(m.ready)
		m.Probe(m.ctx)
	}()
}

func (m *Manager) Ready() bool {
	select {
	case <-m.ready:
		return true
	default:
		return false
	}
}

// WaitReady blocks until the startup probe settled, ctx is done or the ready
// timeout elapsed.
func (m *Manager) WaitReady(ctx context.Context) bool {
	timer := m.clock.NewTimer(m.readyTimeout)
	defer timer.Stop()

	select {
	case <-m.ready:
		return true
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		m.logger.Warn("Timed out waiting for realtime readiness")
		return false
	}
}

// Probe opens a throwaway channel and waits a bounded time for its first
// settled status. It never fails; timeouts and errors are logged and returned
// as the observed status.
func (m *Manager) Probe(ctx context.Context) live.Status {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	h := &probeHandler{ch: make(chan probeResult, 1)}
	topic := "test:" + uuid.NewString()

	ch, err := m.provider.Open(ctx, topic, "", h)
	if err != nil {
		m.logger.Warn("Realtime probe failed to open channel, continuing", log.Error(err))
		return live.StatusError
	}
	defer m.closeChannel(topic, ch)

	timer := m.clock.NewTimer(m.probeTimeout)
	defer timer.Stop()

	select {
	case res := <-h.ch:
		if res.status.Healthy() {
			m.logger.Info("Realtime probe succeeded")
		} else {
			m.logger.Warn("Realtime probe reported unhealthy status, continuing",
				log.String("status", string(res.status)),
				log.Error(res.err))
		}
		return res.status
	case <-timer.Chan():
		m.logger.Warn("Realtime probe timed out, continuing",
			log.Duration("timeout", m.probeTimeout))
		return live.StatusTimedOut
	case <-ctx.Done():
		return live.StatusClosed
	}
}

type probeResult struct {
	status live.Status
	err    error
}

type probeHandler struct {
	ch chan probeResult
}

func (h *probeHandler) OnStatus(status live.Status, err error) {
	if status == live.StatusConnecting {
		return
	}
	select {
	case h.ch <- probeResult{status: status, err: err}:
	default:
	}
}

func (h *probeHandler) OnEvent(live.RawEvent) {}
