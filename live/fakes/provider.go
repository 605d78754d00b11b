package fakes

import (
	"context"
	"sync"

	"github.com/imtaco/resonare-live/live"
)

// Provider is an in-memory live.ChannelProvider. Status and events are
// pushed by the test through the returned channels.
type Provider struct {
	mu       sync.Mutex
	channels []*Channel
	openErrs []error
}

func NewProvider() *Provider {
	return &Provider{}
}

// FailNext makes the next Open calls fail with the given errors, in order.
func (p *Provider) FailNext(errs ...error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.openErrs = append(p.openErrs, errs...)
}

func (p *Provider) Open(_ context.Context, topic, filter string, h live.ChannelHandler) (live.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.openErrs) > 0 {
		err := p.openErrs[0]
		p.openErrs = p.openErrs[1:]
		return nil, err
	}

	ch := &Channel{
		topic:   topic,
		filter:  filter,
		handler: h,
		state:   live.StatusConnecting,
	}
	p.channels = append(p.channels, ch)
	return ch, nil
}

// Count is the number of channels opened so far.
func (p *Provider) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.channels)
}

func (p *Provider) Channel(i int) *Channel {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.channels) {
		return nil
	}
	return p.channels[i]
}

func (p *Provider) Last() *Channel {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.channels) == 0 {
		return nil
	}
	return p.channels[len(p.channels)-1]
}

// OpenCount counts channels that have not been closed.
func (p *Provider) OpenCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, ch := range p.channels {
		if !ch.Closed() {
			n++
		}
	}
	return n
}

type Channel struct {
	topic   string
	filter  string
	handler live.ChannelHandler

	mu     sync.Mutex
	state  live.Status
	closed bool
}

func (c *Channel) Topic() string  { return c.topic }
func (c *Channel) Filter() string { return c.filter }

func (c *Channel) State() live.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetState changes the live state without notifying the handler.
func (c *Channel) SetState(s live.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

// Emit changes the live state and reports it to the handler.
func (c *Channel) Emit(s live.Status, err error) {
	c.SetState(s)
	c.handler.OnStatus(s, err)
}

// EmitStale reports a status without touching the live state, as a delayed
// callback would.
func (c *Channel) EmitStale(s live.Status) {
	c.handler.OnStatus(s, nil)
}

func (c *Channel) Deliver(ev live.RawEvent) {
	c.handler.OnEvent(ev)
}

func (c *Channel) Close(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.state = live.StatusClosed
	return nil
}

func (c *Channel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
