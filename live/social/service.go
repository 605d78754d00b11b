package social

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/imtaco/resonare-live/internal/log"
	intotel "github.com/imtaco/resonare-live/internal/otel"
	"github.com/imtaco/resonare-live/live"
	"github.com/imtaco/resonare-live/live/reconcile"
)

const changeTable = "notifications"

// Service implements live.SocialService on top of a store, the like
// reconciler and a publisher for the owner's notification feed.
type Service struct {
	store       live.Store
	reconciler  *reconcile.Reconciler
	publisher   live.Publisher
	topicPrefix string
	newID       func() string
	now         func() time.Time
	logger      *log.Logger
	tracer      trace.Tracer
	// pending tracks like notifications still being delivered
	pending sync.WaitGroup
}

var _ live.SocialService = (*Service)(nil)

func New(store live.Store, publisher live.Publisher, topicPrefix string, logger *log.Logger) *Service {
	if store == nil {
		panic("store is required")
	}
	if publisher == nil {
		panic("publisher is required")
	}
	s := &Service{
		store:       store,
		publisher:   publisher,
		topicPrefix: topicPrefix,
		newID:       uuid.NewString,
		now:         time.Now,
		logger:      logger,
		tracer:      otel.Tracer("live.social"),
	}
	s.reconciler = reconcile.New(store, logger.Module("Reconcile"))
	s.reconciler.OnInserted(s.likeInserted)
	return s
}

func (s *Service) ToggleLike(ctx context.Context, itemID, userID string, currentHasLiked *bool) (live.LikeState, error) {
	ctx, span := intotel.StartSpan(ctx, s.tracer, "social.ToggleLike",
		attribute.String("item.id", itemID),
		attribute.String("user.id", userID))
	defer span.End()

	state, err := s.reconciler.Toggle(ctx, itemID, userID, currentHasLiked)
	intotel.RecordError(span, err)
	intotel.SetSpanAttributes(span,
		attribute.Bool("like.has_liked", state.HasLiked),
		attribute.Int("like.count", state.LikesCount))
	return state, err
}

func (s *Service) SocialInfo(ctx context.Context, itemID, userID string) (*live.SocialInfo, error) {
	return s.reconciler.Load(ctx, itemID, userID)
}

// Forget drops the like states cached for userID.
func (s *Service) Forget(userID string) {
	if n := s.reconciler.ClearUser(userID); n > 0 {
		s.logger.Debug("Cleared like states", log.String("userId", userID), log.Int("items", n))
	}
}

func (s *Service) Notifications(ctx context.Context, userID string, limit, offset int) ([]*live.Notification, error) {
	return s.store.ListNotifications(ctx, userID, limit, offset)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.store.UnreadCount(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	return s.store.MarkRead(ctx, userID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.store.MarkAllRead(ctx, userID)
}

func (s *Service) DeleteNotification(ctx context.Context, userID, id string) error {
	return s.store.DeleteNotification(ctx, userID, id)
}

// likeInserted hands the owner notification to the background. It runs on a
// context detached from the request, so a disconnecting client does not
// abort delivery.
func (s *Service) likeInserted(ctx context.Context, itemID, likerID string) {
	ctx = context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.notifyLike(ctx, itemID, likerID)
	}()
}

// Drain waits for like notifications still in flight.
func (s *Service) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// notifyLike records a diary_like notification for the item owner and
// pushes the change event to the owner's feed. Failures are logged only,
// the like itself already succeeded.
func (s *Service) notifyLike(ctx context.Context, itemID, likerID string) {
	ctx, span := intotel.StartSpan(ctx, s.tracer, "social.NotifyLike",
		attribute.String("item.id", itemID))
	defer span.End()

	logger := s.logger.With(log.String("itemId", itemID), log.String("likerId", likerID))

	owner, err := s.store.ItemOwner(ctx, itemID)
	if err != nil {
		intotel.RecordError(span, err)
		logger.Warn("Failed to resolve item owner", log.Error(err))
		return
	}
	if owner == likerID {
		return
	}

	n := &live.Notification{
		ID:          s.newID(),
		UserID:      owner,
		Type:        live.NotificationDiaryLike,
		ActorID:     likerID,
		ReferenceID: itemID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.InsertNotification(ctx, n); err != nil {
		intotel.RecordError(span, err)
		logger.Warn("Failed to insert like notification", log.Error(err))
		return
	}
	notificationsCreated.Add(ctx, 1)

	if err := s.publisher.Publish(ctx, live.NotificationTopic(s.topicPrefix, owner), changeEvent(n)); err != nil {
		publishFailures.Add(ctx, 1)
		intotel.RecordError(span, err)
		logger.Warn("Failed to publish like notification",
			log.String("notificationId", n.ID),
			log.Error(err))
	}
}

// changeEvent renders n the way the change feed carries an inserted row.
func changeEvent(n *live.Notification) live.RawEvent {
	record := map[string]any{
		"id":         n.ID,
		"user_id":    n.UserID,
		"actor_id":   n.ActorID,
		"type":       string(n.Type),
		"read":       n.Read,
		"created_at": n.CreatedAt.Format(time.RFC3339Nano),
	}
	if n.ReferenceID != "" {
		record["reference_id"] = n.ReferenceID
	} else {
		record["reference_id"] = nil
	}
	return live.RawEvent{Type: "INSERT", Table: changeTable, Record: record}
}
