package materialize

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/imtaco/resonare-live/internal/log"
	"github.com/imtaco/resonare-live/live"
)

const (
	defaultCacheSize = 1024
	defaultCacheTTL  = time.Minute
)

// Fetcher is the subset of live.Store used for hydration.
type Fetcher interface {
	FetchNotification(ctx context.Context, id string) (*live.Notification, error)
	FetchActor(ctx context.Context, id string) (*live.Actor, error)
}

// Materializer hydrates raw change events into notifications. Hydration
// failures degrade the result instead of failing it.
type Materializer struct {
	store  Fetcher
	actors *expirable.LRU[string, *live.Actor]
	sf     singleflight.Group
	logger *log.Logger
}

func New(store Fetcher, logger *log.Logger) *Materializer {
	return NewWithCache(store, defaultCacheSize, defaultCacheTTL, logger)
}

func NewWithCache(store Fetcher, size int, ttl time.Duration, logger *log.Logger) *Materializer {
	if store == nil {
		panic("store is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Materializer{
		store:  store,
		actors: expirable.NewLRU[string, *live.Actor](size, nil, ttl),
		logger: logger,
	}
}

// Materialize returns false only when the event does not decode as a
// notification row. Every decoded event yields a notification: the full
// record when the store answers, else the raw row with the actor joined
// when possible, else the raw row alone.
func (m *Materializer) Materialize(ctx context.Context, ev live.RawEvent) (n *live.Notification, ok bool) {
	rec, err := decode(ev)
	if err != nil {
		m.logger.Warn("Dropping malformed change event",
			log.String("type", ev.Type),
			log.String("table", ev.Table),
			log.Error(err))
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Materialize panicked, using raw record",
				log.String("id", rec.ID),
				log.Any("panic", r))
			eventsDegraded.Add(ctx, 1)
			n, ok = rec.notification(), true
		}
	}()

	full, err := m.store.FetchNotification(ctx, rec.ID)
	if err == nil && full != nil {
		if full.Actor != nil {
			m.actors.Add(full.ActorID, full.Actor)
		}
		eventsHydrated.Add(ctx, 1)
		return full, true
	}
	m.logger.Warn("Failed to fetch notification, falling back to raw record",
		log.String("id", rec.ID),
		log.Error(err))
	eventsDegraded.Add(ctx, 1)

	n = rec.notification()
	actor, err := m.actor(ctx, rec.ActorID)
	if err != nil {
		m.logger.Warn("Failed to fetch actor, delivering without it",
			log.String("id", rec.ID),
			log.String("actorId", rec.ActorID),
			log.Error(err))
		return n, true
	}
	n.Actor = actor
	return n, true
}

func (m *Materializer) actor(ctx context.Context, id string) (*live.Actor, error) {
	if a, ok := m.actors.Get(id); ok {
		return a, nil
	}

	v, err, _ := m.sf.Do(id, func() (any, error) {
		a, err := m.store.FetchActor(ctx, id)
		if err != nil {
			return nil, err
		}
		if a != nil {
			m.actors.Add(id, a)
		}
		return a, nil
	})
	if err != nil {
		return nil, err
	}
	a, _ := v.(*live.Actor)
	return a, nil
}
