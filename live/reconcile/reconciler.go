package reconcile

import (
	"context"
	"time"

	"github.com/imtaco/resonare-live/internal/errors"
	"github.com/imtaco/resonare-live/internal/log"
	"github.com/imtaco/resonare-live/internal/sync"
	"github.com/imtaco/resonare-live/live"
)

// Backend is the subset of live.Store the reconciler talks to.
type Backend interface {
	InsertLike(ctx context.Context, itemID, userID string) error
	DeleteLike(ctx context.Context, itemID, userID string) error
	SocialInfo(ctx context.Context, itemID, userID string) (*live.SocialInfo, error)
}

// Reconciler holds like state per (user, item) and merges optimistic
// toggles with the backend's authoritative counts. At most one toggle per
// user and item is in flight; other users and items are independent.
type Reconciler struct {
	backend  Backend
	states   *sync.Map[likeKey, live.LikeState]
	inserted InsertHook
	logger   *log.Logger
}

// InsertHook runs after a toggle that inserted a new like has settled.
type InsertHook func(ctx context.Context, itemID, userID string)

type likeKey struct {
	userID string
	itemID string
}

func New(backend Backend, logger *log.Logger) *Reconciler {
	if backend == nil {
		panic("backend is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Reconciler{
		backend: backend,
		states:  sync.NewMap[likeKey, live.LikeState](),
		logger:  logger,
	}
}

// OnInserted registers the hook fired for freshly inserted likes. It must be
// called before the first Toggle.
func (r *Reconciler) OnInserted(hook InsertHook) {
	r.inserted = hook
}

// optimistic is the record of one applied optimistic delta.
type optimistic struct {
	pre    live.LikeState
	target bool
	// applied is the count change actually made, after clamping at zero
	applied int
}

// inverse undoes exactly the applied delta, relative to the state just
// before the flip. The flag returns to the pre-toggle truth the delta was
// computed from.
func (o optimistic) inverse() live.LikeState {
	return live.LikeState{
		HasLiked:   !o.target,
		LikesCount: o.flipped().LikesCount - o.applied,
	}
}

// flipped is the optimistic state installed by apply.
func (o optimistic) flipped() live.LikeState {
	return live.LikeState{
		HasLiked:   o.target,
		LikesCount: o.pre.LikesCount + o.applied,
		Loading:    true,
	}
}

// Toggle flips the like state of itemID for userID. The local state changes
// before the backend call is issued. known, when set, is the caller's
// pre-toggle truth and takes precedence over the stored state.
func (r *Reconciler) Toggle(ctx context.Context, itemID, userID string, known *bool) (live.LikeState, error) {
	key := likeKey{userID: userID, itemID: itemID}
	op, cur, ok := r.apply(key, known)
	if !ok {
		togglesRejected.Add(ctx, 1)
		return cur, errors.Newf(live.ErrToggleInProgress, "toggle already in progress for %s", itemID)
	}
	togglesTotal.Add(ctx, 1)
	defer func(start time.Time) {
		toggleDuration.Record(ctx, time.Since(start).Seconds())
	}(time.Now())

	var err error
	if op.target {
		err = r.backend.InsertLike(ctx, itemID, userID)
	} else {
		err = r.backend.DeleteLike(ctx, itemID, userID)
	}

	switch {
	case err == nil:
	case op.target && errors.Is(err, live.ErrAlreadyLiked),
		!op.target && errors.Is(err, live.ErrNotLiked):
		// the requested end state already holds
		r.logger.Debug("Like already in requested state",
			log.String("itemId", itemID),
			log.Bool("target", op.target))
	default:
		rolled := r.rollback(key, op)
		togglesRolledBack.Add(ctx, 1)
		r.logger.Warn("Toggle failed, rolled back",
			log.String("itemId", itemID),
			log.String("userId", userID),
			log.Int("likesCount", rolled.LikesCount),
			log.Error(err))
		return rolled, err
	}

	final := r.commit(ctx, key, op)
	if op.target && err == nil && r.inserted != nil {
		r.inserted(ctx, itemID, userID)
	}
	return final, nil
}

// apply snapshots the current state and installs the optimistic delta.
func (r *Reconciler) apply(key likeKey, known *bool) (optimistic, live.LikeState, bool) {
	var (
		op  optimistic
		cur live.LikeState
		ok  bool
	)
	r.states.WithLock(func(v sync.View[likeKey, live.LikeState]) {
		cur, _ = v.Get(key)
		if cur.Loading {
			return
		}
		ok = true

		liked := cur.HasLiked
		if known != nil {
			liked = *known
		}
		op = optimistic{pre: cur, target: !liked}

		count := cur.LikesCount
		if op.target {
			count++
		} else if count > 0 {
			count--
		}
		op.applied = count - cur.LikesCount

		cur = op.flipped()
		v.Set(key, cur)
	})
	return op, cur, ok
}

// commit installs the authoritative count after a successful mutation.
func (r *Reconciler) commit(ctx context.Context, key likeKey, op optimistic) live.LikeState {
	final := op.flipped()
	final.Loading = false

	info, err := r.backend.SocialInfo(ctx, key.itemID, key.userID)
	if err != nil {
		r.logger.Warn("Failed to refetch likes count, keeping optimistic count",
			log.String("itemId", key.itemID),
			log.Error(err))
	} else if info != nil {
		final.LikesCount = info.LikesCount
	}

	r.settle(key, final)
	return final
}

func (r *Reconciler) rollback(key likeKey, op optimistic) live.LikeState {
	final := op.inverse()
	r.settle(key, final)
	return final
}

// settle stores final unless the state was cleared while the toggle ran.
func (r *Reconciler) settle(key likeKey, final live.LikeState) {
	r.states.Update(key, func(cur live.LikeState, ok bool) (live.LikeState, bool) {
		if ok && cur.Loading {
			return final, true
		}
		return cur, ok
	})
}

// Load fetches authoritative social info for userID and seeds the local
// state with it.
func (r *Reconciler) Load(ctx context.Context, itemID, userID string) (*live.SocialInfo, error) {
	info, err := r.backend.SocialInfo(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}
	r.seed(likeKey{userID: userID, itemID: itemID}, info.LikesCount, info.HasLiked)
	return info, nil
}

// seed records known counts. A toggle in flight is left untouched, its
// commit installs the authoritative state.
func (r *Reconciler) seed(key likeKey, likesCount int, hasLiked bool) {
	if likesCount < 0 {
		likesCount = 0
	}
	r.states.Update(key, func(cur live.LikeState, ok bool) (live.LikeState, bool) {
		if ok && cur.Loading {
			return cur, true
		}
		return live.LikeState{HasLiked: hasLiked, LikesCount: likesCount}, true
	})
}

// ClearUser drops every like state held for userID. Toggles still in flight
// for that user settle without restoring it.
func (r *Reconciler) ClearUser(userID string) int {
	var n int
	r.states.WithLock(func(v sync.View[likeKey, live.LikeState]) {
		v.Range(func(key likeKey, _ live.LikeState) bool {
			if key.userID == userID {
				v.Delete(key)
				n++
			}
			return true
		})
	})
	return n
}
