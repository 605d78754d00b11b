package transport

import (
	"context"
	"net"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"github.com/imtaco/resonare-live/internal/errors"
	"github.com/imtaco/resonare-live/internal/log"
	"github.com/imtaco/resonare-live/live"
)

const (
	ErrBufferFull   errors.Code = "buffer_full"
	ErrShuttingDown errors.Code = "shutting_down"
)

const (
	pingInterval = 10 * time.Second
	pingTimeout  = 3 * time.Second
	writeTimeout = 3 * time.Second
	bufMessages  = 16
)

// feedMessage is one frame on a notification websocket.
type feedMessage struct {
	Type         string             `json:"type"`
	Notification *live.Notification `json:"notification"`
}

// feed pumps one user's notifications onto a websocket. The subscription
// callback never blocks: a full buffer closes the socket.
type feed struct {
	conn   *websocket.Conn
	chBuf  chan *live.Notification
	cancel context.CancelCauseFunc
	logger *log.Logger
}

func (r *Router) notificationFeed(c *gin.Context) {
	var req UserURI
	if err := c.ShouldBindUri(&req); err != nil {
		badRequest(c, err)
		return
	}

	logger := r.logger.With(log.String("userId", req.UserID))
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: r.origins,
	})
	if err != nil {
		logger.Warn("WebSocket open failed",
			log.String("remote_addr", c.Request.RemoteAddr),
			log.Error(err))
		return
	}

	// the client sends nothing, CloseRead turns its close into ctx cancel
	ctx, cancel := context.WithCancelCause(conn.CloseRead(context.Background()))
	stop := context.AfterFunc(r.ctx, func() { cancel(ErrShuttingDown) })
	defer stop()

	f := &feed{
		conn:   conn,
		chBuf:  make(chan *live.Notification, bufMessages),
		cancel: cancel,
		logger: logger,
	}

	unsubscribe := r.subs.Subscribe(req.UserID, f.push)
	feedsActive.Add(ctx, 1)
	logger.Info("Notification feed opened", log.String("remote_addr", c.Request.RemoteAddr))

	f.writePump(ctx)
	unsubscribe()
	r.social.Forget(req.UserID)
	feedsActive.Add(context.Background(), -1)
	f.close(context.Cause(ctx))
}

func (f *feed) push(n *live.Notification) {
	select {
	case f.chBuf <- n:
	default:
		feedsDropped.Add(context.Background(), 1)
		f.cancel(ErrBufferFull)
	}
}

func (f *feed) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := f.ping(ctx); err != nil {
				f.cancel(err)
				return
			}
		case n := <-f.chBuf:
			if err := f.write(ctx, n); err != nil {
				f.cancel(err)
				return
			}
			feedsDelivered.Add(ctx, 1)
		}
	}
}

func (f *feed) write(ctx context.Context, n *live.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, f.conn, feedMessage{Type: "notification", Notification: n})
}

func (f *feed) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return f.conn.Ping(ctx)
}

func (f *feed) close(cause error) {
	switch {
	case errors.Is(cause, ErrBufferFull):
		f.logger.Warn("Feed closed, client too slow")
		f.conn.Close(websocket.StatusPolicyViolation, "too slow")
	case errors.Is(cause, ErrShuttingDown):
		f.logger.Info("Feed closed for shutdown")
		f.conn.Close(websocket.StatusGoingAway, "shutting down")
	case websocket.CloseStatus(cause) != -1,
		errors.Is(cause, context.Canceled),
		errors.Is(cause, net.ErrClosed):
		f.logger.Info("Feed closed by client")
		_ = f.conn.CloseNow()
	default:
		f.logger.Warn("Feed closed on error", log.Error(cause))
		f.conn.Close(websocket.StatusInternalError, "bye")
	}
}
