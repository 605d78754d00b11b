package social

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	gomock "go.uber.org/mock/gomock"

	interrors "github.com/imtaco/resonare-live/internal/errors"
	"github.com/imtaco/resonare-live/internal/log"
	"github.com/imtaco/resonare-live/live"
	"github.com/imtaco/resonare-live/live/mocks"
)

type ServiceTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	publisher *mocks.MockPublisher
	svc       *Service
	ctx       context.Context
	now       time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)
	s.svc = New(s.store, s.publisher, "notifications:", log.NewTest(s.T()))
	s.now = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	s.svc.newID = func() string { return "n-1" }
	s.svc.now = func() time.Time { return s.now }
	s.ctx = context.Background()
}

// drain waits for background like notifications so their mock calls land
// inside the test.
func (s *ServiceTestSuite) drain() {
	ctx, cancel := context.WithTimeout(s.ctx, time.Second)
	defer cancel()
	s.Require().NoError(s.svc.Drain(ctx))
}

func (s *ServiceTestSuite) TestLikeNotifiesOwner() {
	gomock.InOrder(
		s.store.EXPECT().InsertLike(gomock.Any(), "entry-1", "fan").Return(nil),
		s.store.EXPECT().SocialInfo(gomock.Any(), "entry-1", "fan").
			Return(&live.SocialInfo{LikesCount: 5, HasLiked: true}, nil),
		s.store.EXPECT().ItemOwner(gomock.Any(), "entry-1").Return("owner", nil),
		s.store.EXPECT().InsertNotification(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, n *live.Notification) error {
				s.Assert().Equal("n-1", n.ID)
				s.Assert().Equal("owner", n.UserID)
				s.Assert().Equal("fan", n.ActorID)
				s.Assert().Equal(live.NotificationDiaryLike, n.Type)
				s.Assert().Equal("entry-1", n.ReferenceID)
				return nil
			}),
		s.publisher.EXPECT().Publish(gomock.Any(), "notifications:owner", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, ev live.RawEvent) error {
				s.Assert().Equal("INSERT", ev.Type)
				s.Assert().Equal("notifications", ev.Table)
				s.Assert().Equal("n-1", ev.Record["id"])
				s.Assert().Equal("owner", ev.Record["user_id"])
				s.Assert().Equal("diary_like", ev.Record["type"])
				s.Assert().Equal("2026-10-01T12:00:00Z", ev.Record["created_at"])
				return nil
			}),
	)

	st, err := s.svc.ToggleLike(s.ctx, "entry-1", "fan", nil)
	s.Require().NoError(err)
	s.Assert().Equal(live.LikeState{HasLiked: true, LikesCount: 5}, st)
	s.drain()
}

func (s *ServiceTestSuite) TestSelfLikeDoesNotNotify() {
	s.store.EXPECT().InsertLike(gomock.Any(), "entry-1", "owner").Return(nil)
	s.store.EXPECT().ItemOwner(gomock.Any(), "entry-1").Return("owner", nil)
	s.store.EXPECT().SocialInfo(gomock.Any(), "entry-1", "owner").
		Return(&live.SocialInfo{LikesCount: 1, HasLiked: true}, nil)

	_, err := s.svc.ToggleLike(s.ctx, "entry-1", "owner", nil)
	s.Require().NoError(err)
	s.drain()
}

func (s *ServiceTestSuite) TestAlreadyLikedDoesNotNotify() {
	s.store.EXPECT().InsertLike(gomock.Any(), "entry-1", "fan").
		Return(interrors.New(live.ErrAlreadyLiked, "duplicate"))
	s.store.EXPECT().SocialInfo(gomock.Any(), "entry-1", "fan").
		Return(&live.SocialInfo{LikesCount: 1, HasLiked: true}, nil)

	st, err := s.svc.ToggleLike(s.ctx, "entry-1", "fan", nil)
	s.Require().NoError(err)
	s.Assert().True(st.HasLiked)
}

func (s *ServiceTestSuite) TestUnlikeDoesNotNotify() {
	liked := true
	s.store.EXPECT().DeleteLike(gomock.Any(), "entry-1", "fan").Return(nil)
	s.store.EXPECT().SocialInfo(gomock.Any(), "entry-1", "fan").
		Return(&live.SocialInfo{LikesCount: 0}, nil)

	st, err := s.svc.ToggleLike(s.ctx, "entry-1", "fan", &liked)
	s.Require().NoError(err)
	s.Assert().False(st.HasLiked)
}

func (s *ServiceTestSuite) TestNotificationFailureKeepsLike() {
	s.store.EXPECT().InsertLike(gomock.Any(), "entry-1", "fan").Return(nil)
	s.store.EXPECT().ItemOwner(gomock.Any(), "entry-1").Return("owner", nil)
	s.store.EXPECT().InsertNotification(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	s.store.EXPECT().SocialInfo(gomock.Any(), "entry-1", "fan").
		Return(&live.SocialInfo{LikesCount: 1, HasLiked: true}, nil)

	st, err := s.svc.ToggleLike(s.ctx, "entry-1", "fan", nil)
	s.Require().NoError(err)
	s.Assert().Equal(live.LikeState{HasLiked: true, LikesCount: 1}, st)
	s.drain()
}

func (s *ServiceTestSuite) TestPublishFailureKeepsLike() {
	s.store.EXPECT().InsertLike(gomock.Any(), "entry-1", "fan").Return(nil)
	s.store.EXPECT().ItemOwner(gomock.Any(), "entry-1").Return("owner", nil)
	s.store.EXPECT().InsertNotification(gomock.Any(), gomock.Any()).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), "notifications:owner", gomock.Any()).
		Return(errors.New("redis down"))
	s.store.EXPECT().SocialInfo(gomock.Any(), "entry-1", "fan").
		Return(&live.SocialInfo{LikesCount: 1, HasLiked: true}, nil)

	_, err := s.svc.ToggleLike(s.ctx, "entry-1", "fan", nil)
	s.Require().NoError(err)
	s.drain()
}

func (s *ServiceTestSuite) TestPermissionDeniedSurfaced() {
	s.store.EXPECT().InsertLike(gomock.Any(), "entry-1", "fan").
		Return(interrors.New(live.ErrPermissionDenied, "blocked"))

	st, err := s.svc.ToggleLike(s.ctx, "entry-1", "fan", nil)
	s.Require().Error(err)
	s.Assert().True(interrors.Is(err, live.ErrPermissionDenied))
	s.Assert().Equal(live.LikeState{}, st)
}

func (s *ServiceTestSuite) TestSocialInfoLoadsState() {
	s.store.EXPECT().SocialInfo(gomock.Any(), "entry-1", "fan").
		Return(&live.SocialInfo{LikesCount: 9, CommentsCount: 2, HasLiked: true}, nil)

	info, err := s.svc.SocialInfo(s.ctx, "entry-1", "fan")
	s.Require().NoError(err)
	s.Assert().Equal(2, info.CommentsCount)

	// the loaded like decides the next toggle's direction
	s.store.EXPECT().DeleteLike(gomock.Any(), "entry-1", "fan").Return(nil)
	s.store.EXPECT().SocialInfo(gomock.Any(), "entry-1", "fan").
		Return(&live.SocialInfo{LikesCount: 8}, nil)

	st, err := s.svc.ToggleLike(s.ctx, "entry-1", "fan", nil)
	s.Require().NoError(err)
	s.Assert().Equal(live.LikeState{LikesCount: 8}, st)
}

func (s *ServiceTestSuite) TestForgetDropsUserState() {
	s.store.EXPECT().SocialInfo(gomock.Any(), "entry-1", "fan").
		Return(&live.SocialInfo{LikesCount: 3, HasLiked: true}, nil)
	_, err := s.svc.SocialInfo(s.ctx, "entry-1", "fan")
	s.Require().NoError(err)

	s.svc.Forget("fan")
	s.svc.Forget("nobody")

	// without the cached like the toggle starts from not liked
	s.store.EXPECT().InsertLike(gomock.Any(), "entry-1", "fan").
		Return(interrors.New(live.ErrAlreadyLiked, "duplicate"))
	s.store.EXPECT().SocialInfo(gomock.Any(), "entry-1", "fan").
		Return(&live.SocialInfo{LikesCount: 3, HasLiked: true}, nil)

	st, err := s.svc.ToggleLike(s.ctx, "entry-1", "fan", nil)
	s.Require().NoError(err)
	s.Assert().Equal(live.LikeState{HasLiked: true, LikesCount: 3}, st)
}

func (s *ServiceTestSuite) TestUsersToggleIndependently() {
	s.store.EXPECT().ItemOwner(gomock.Any(), "entry-1").Return("owner", nil).Times(2)
	s.store.EXPECT().InsertNotification(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	s.publisher.EXPECT().Publish(gomock.Any(), "notifications:owner", gomock.Any()).Return(nil).Times(2)

	gomock.InOrder(
		s.store.EXPECT().InsertLike(gomock.Any(), "entry-1", "alice").Return(nil),
		s.store.EXPECT().SocialInfo(gomock.Any(), "entry-1", "alice").
			Return(&live.SocialInfo{LikesCount: 1, HasLiked: true}, nil),
	)
	st, err := s.svc.ToggleLike(s.ctx, "entry-1", "alice", nil)
	s.Require().NoError(err)
	s.Assert().Equal(live.LikeState{HasLiked: true, LikesCount: 1}, st)

	// alice's like must not turn bob's first toggle into an unlike
	gomock.InOrder(
		s.store.EXPECT().InsertLike(gomock.Any(), "entry-1", "bob").Return(nil),
		s.store.EXPECT().SocialInfo(gomock.Any(), "entry-1", "bob").
			Return(&live.SocialInfo{LikesCount: 2, HasLiked: true}, nil),
	)
	st, err = s.svc.ToggleLike(s.ctx, "entry-1", "bob", nil)
	s.Require().NoError(err)
	s.Assert().Equal(live.LikeState{HasLiked: true, LikesCount: 2}, st)
	s.drain()
}

func (s *ServiceTestSuite) TestToggleInFlightDoesNotBlockOtherUsers() {
	entered := make(chan struct{})
	release := make(chan struct{})
	s.store.EXPECT().InsertLike(gomock.Any(), "entry-1", "alice").DoAndReturn(
		func(context.Context, string, string) error {
			close(entered)
			<-release
			return errors.New("timeout")
		})
	s.store.EXPECT().InsertLike(gomock.Any(), "entry-1", "bob").
		Return(interrors.New(live.ErrAlreadyLiked, "duplicate"))
	s.store.EXPECT().SocialInfo(gomock.Any(), "entry-1", "bob").
		Return(&live.SocialInfo{LikesCount: 1, HasLiked: true}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.svc.ToggleLike(s.ctx, "entry-1", "alice", nil)
		done <- err
	}()
	<-entered

	st, err := s.svc.ToggleLike(s.ctx, "entry-1", "bob", nil)
	s.Require().NoError(err)
	s.Assert().Equal(live.LikeState{HasLiked: true, LikesCount: 1}, st)

	close(release)
	s.Assert().Error(<-done)
}

func (s *ServiceTestSuite) TestSlowPublishDoesNotHoldToggle() {
	release := make(chan struct{})
	publishCtxErr := make(chan error, 1)

	s.store.EXPECT().InsertLike(gomock.Any(), "entry-1", "fan").Return(nil)
	s.store.EXPECT().SocialInfo(gomock.Any(), "entry-1", "fan").
		Return(&live.SocialInfo{LikesCount: 1, HasLiked: true}, nil)
	s.store.EXPECT().ItemOwner(gomock.Any(), "entry-1").Return("owner", nil)
	s.store.EXPECT().InsertNotification(gomock.Any(), gomock.Any()).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), "notifications:owner", gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ live.RawEvent) error {
			<-release
			publishCtxErr <- ctx.Err()
			return nil
		})

	reqCtx, cancel := context.WithCancel(s.ctx)
	st, err := s.svc.ToggleLike(reqCtx, "entry-1", "fan", nil)
	s.Require().NoError(err)
	s.Assert().False(st.Loading)
	// the client went away while the notification is still being published
	cancel()

	// the item is settled, an unlike goes through without a conflict
	s.store.EXPECT().DeleteLike(gomock.Any(), "entry-1", "fan").Return(nil)
	s.store.EXPECT().SocialInfo(gomock.Any(), "entry-1", "fan").
		Return(&live.SocialInfo{}, nil)
	st, err = s.svc.ToggleLike(s.ctx, "entry-1", "fan", nil)
	s.Require().NoError(err)
	s.Assert().Equal(live.LikeState{}, st)

	close(release)
	s.drain()
	s.Assert().NoError(<-publishCtxErr)
}

func (s *ServiceTestSuite) TestDrainHonoursContext() {
	release := make(chan struct{})
	defer func() {
		close(release)
		s.drain()
	}()

	s.store.EXPECT().InsertLike(gomock.Any(), "entry-1", "fan").Return(nil)
	s.store.EXPECT().SocialInfo(gomock.Any(), "entry-1", "fan").
		Return(&live.SocialInfo{LikesCount: 1, HasLiked: true}, nil)
	s.store.EXPECT().ItemOwner(gomock.Any(), "entry-1").DoAndReturn(
		func(context.Context, string) (string, error) {
			<-release
			return "fan", nil
		})

	_, err := s.svc.ToggleLike(s.ctx, "entry-1", "fan", nil)
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(s.ctx, 20*time.Millisecond)
	defer cancel()
	s.Assert().ErrorIs(s.svc.Drain(ctx), context.DeadlineExceeded)
}

func (s *ServiceTestSuite) TestInboxPassthrough() {
	list := []*live.Notification{{ID: "n1"}}
	s.store.EXPECT().ListNotifications(gomock.Any(), "owner", 10, 5).Return(list, nil)
	s.store.EXPECT().UnreadCount(gomock.Any(), "owner").Return(3, nil)
	s.store.EXPECT().MarkRead(gomock.Any(), "owner", "n1").Return(nil)
	s.store.EXPECT().MarkAllRead(gomock.Any(), "owner").Return(nil)
	s.store.EXPECT().DeleteNotification(gomock.Any(), "owner", "n1").
		Return(interrors.New(live.ErrNotFound, "gone"))

	got, err := s.svc.Notifications(s.ctx, "owner", 10, 5)
	s.Require().NoError(err)
	s.Assert().Equal(list, got)

	n, err := s.svc.UnreadCount(s.ctx, "owner")
	s.Require().NoError(err)
	s.Assert().Equal(3, n)

	s.Assert().NoError(s.svc.MarkRead(s.ctx, "owner", "n1"))
	s.Assert().NoError(s.svc.MarkAllRead(s.ctx, "owner"))
	s.Assert().True(interrors.Is(s.svc.DeleteNotification(s.ctx, "owner", "n1"), live.ErrNotFound))
}

func (s *ServiceTestSuite) TestChangeEventNullReference() {
	ev := changeEvent(&live.Notification{ID: "n1", UserID: "u", ActorID: "a", Type: live.NotificationFollow})
	v, ok := ev.Record["reference_id"]
	s.Assert().True(ok)
	s.Assert().Nil(v)
}
