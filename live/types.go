//go:generate mockgen -source=types.go -destination=mocks/types.go -package=mocks

package live

import (
	"context"
	"time"

	"github.com/imtaco/resonare-live/internal/errors"
)

const (
	// ErrAlreadyLiked is returned by Store.InsertLike when the (item, user) pair exists.
	ErrAlreadyLiked errors.Code = "already_liked"
	// ErrNotLiked is returned by Store.DeleteLike when there is nothing to delete.
	ErrNotLiked         errors.Code = "not_liked"
	ErrPermissionDenied errors.Code = "permission_denied"
	ErrNotFound         errors.Code = "not_found"
	ErrInvalidEvent     errors.Code = "invalid_event"
	// ErrToggleInProgress rejects a toggle while another one for the same
	// item is unresolved.
	ErrToggleInProgress errors.Code = "toggle_in_progress"
)

// Status is a lifecycle signal reported by a channel provider.
type Status string

const (
	StatusConnecting Status = "connecting"
	StatusSubscribed Status = "subscribed"
	StatusError      Status = "channel_error"
	StatusTimedOut   Status = "timed_out"
	StatusClosed     Status = "closed"
)

// Healthy reports whether the status means events are flowing.
func (s Status) Healthy() bool {
	return s == StatusSubscribed
}

type NotificationType string

const (
	NotificationFollow         NotificationType = "follow"
	NotificationFollowRequest  NotificationType = "follow_request"
	NotificationFollowAccepted NotificationType = "follow_request_accepted"
	NotificationDiaryLike      NotificationType = "diary_like"
	NotificationDiaryComment   NotificationType = "diary_comment"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationFollow,
		NotificationFollowRequest,
		NotificationFollowAccepted,
		NotificationDiaryLike,
		NotificationDiaryComment:
		return true
	}
	return false
}

// Actor is the profile snippet inlined into a notification.
type Actor struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Notification is the fully materialized domain object handed to subscribers.
type Notification struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	Type        NotificationType `json:"type"`
	ActorID     string           `json:"actorId"`
	ReferenceID string           `json:"referenceId,omitempty"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"createdAt"`
	Actor       *Actor           `json:"actor,omitempty"`
}

// RawEvent is the loosely typed change event delivered by a channel provider.
// It carries the row identifier and the mutated columns only.
type RawEvent struct {
	Type   string         `json:"type"`
	Table  string         `json:"table"`
	Record map[string]any `json:"record"`
}

// LikeState is the locally held like state of one content item.
type LikeState struct {
	HasLiked   bool `json:"hasLiked"`
	LikesCount int  `json:"likesCount"`
	Loading    bool `json:"loading"`
}

type SocialInfo struct {
	LikesCount    int  `json:"likesCount"`
	CommentsCount int  `json:"commentsCount"`
	HasLiked      bool `json:"hasLiked"`
}

// ChannelHandler receives callbacks from a single channel.
// Providers must not invoke it synchronously from within Open.
type ChannelHandler interface {
	OnStatus(status Status, err error)
	OnEvent(ev RawEvent)
}

// Channel is one logical subscription to a topic. A handle is never reused
// after Close.
type Channel interface {
	Topic() string
	// State returns the live channel-reported state, which may be fresher
	// than the last status delivered to the handler.
	State() Status
	Close(ctx context.Context) error
}

// ChannelProvider opens channels on the real-time messaging backend.
type ChannelProvider interface {
	Open(ctx context.Context, topic, filter string, h ChannelHandler) (Channel, error)
}

// Store is the backing data store used by the live-update layer.
type Store interface {
	FetchNotification(ctx context.Context, id string) (*Notification, error)
	FetchActor(ctx context.Context, id string) (*Actor, error)

	InsertLike(ctx context.Context, itemID, userID string) error
	DeleteLike(ctx context.Context, itemID, userID string) error
	SocialInfo(ctx context.Context, itemID, userID string) (*SocialInfo, error)
	ItemOwner(ctx context.Context, itemID string) (string, error)

	InsertNotification(ctx context.Context, n *Notification) error
	ListNotifications(ctx context.Context, userID string, limit, offset int) ([]*Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	DeleteNotification(ctx context.Context, userID, id string) error
}

// Publisher emits raw change events to the topic a subscriber listens on.
type Publisher interface {
	Publish(ctx context.Context, topic string, ev RawEvent) error
}

// Subscriptions keeps one live notification feed per user.
type Subscriptions interface {
	Subscribe(userID string, cb func(n *Notification)) (unsubscribe func())
	Unsubscribe(userID string)
	Refresh(userID string) bool
	// CheckHealth reports whether a retry was scheduled for userID.
	CheckHealth(userID string) bool
	// Healthy reports whether userID's channel currently reports a healthy state.
	Healthy(userID string) bool
	// Ready reports whether the startup connectivity check has settled.
	Ready() bool
}

// SocialService is the consumer-facing API for likes and the notification inbox.
type SocialService interface {
	ToggleLike(ctx context.Context, itemID, userID string, currentHasLiked *bool) (LikeState, error)
	SocialInfo(ctx context.Context, itemID, userID string) (*SocialInfo, error)
	// Forget drops the per-session like state kept for userID.
	Forget(userID string)

	Notifications(ctx context.Context, userID string, limit, offset int) ([]*Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	DeleteNotification(ctx context.Context, userID, id string) error
}

// NotificationTopic is the per-user topic name shared by subscribers and publishers.
func NotificationTopic(prefix, userID string) string {
	return prefix + userID
}

// NotificationFilter restricts a topic to rows addressed to userID.
func NotificationFilter(userID string) string {
	return "user_id=eq." + userID
}
