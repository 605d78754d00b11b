package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/imtaco/resonare-live/internal/errors"
	"github.com/imtaco/resonare-live/internal/log"
	"github.com/imtaco/resonare-live/internal/validation"
	"github.com/imtaco/resonare-live/live"
)

const serviceName = "resonare-live"

type Router struct {
	social  live.SocialService
	subs    live.Subscriptions
	origins []string
	engine  *gin.Engine
	// ctx ends every open feed on Close
	ctx    context.Context
	cancel context.CancelFunc
	logger *log.Logger
}

func NewRouter(social live.SocialService, subs live.Subscriptions, cfg *Config, logger *log.Logger) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	// Add OpenTelemetry middleware for automatic HTTP tracing
	engine.Use(otelgin.Middleware(serviceName))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	r := &Router{
		social:  social,
		subs:    subs,
		origins: origins,
		engine:  engine,
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger,
	}

	// Request logging middleware
	r.engine.Use(func(c *gin.Context) {
		r.logger.Debug("Incoming request",
			log.String("method", c.Request.Method),
			log.String("url", c.Request.URL.String()))
		c.Next()
	})

	r.setupRoutes()
	return r
}

func (r *Router) Handler() http.Handler {
	return r.engine
}

// Close ends every open notification feed.
func (r *Router) Close() {
	r.cancel()
}

func (r *Router) setupRoutes() {
	// Live notification feed
	r.engine.GET("/ws/notifications/:userId", r.notificationFeed)
	r.engine.POST("/api/notifications/:userId/refresh", r.refreshSubscription)
	r.engine.POST("/api/notifications/:userId/health", r.checkHealth)

	// Inbox
	r.engine.GET("/api/notifications/:userId", r.listNotifications)
	r.engine.GET("/api/notifications/:userId/unread", r.unreadCount)
	r.engine.POST("/api/notifications/:userId/read", r.markAllRead)
	r.engine.POST("/api/notifications/:userId/items/:id/read", r.markRead)
	r.engine.DELETE("/api/notifications/:userId/items/:id", r.deleteNotification)

	// Likes
	r.engine.POST("/api/items/:itemId/like", r.toggleLike)
	r.engine.GET("/api/items/:itemId/social", r.socialInfo)

	// Health check
	r.engine.GET("/health", r.healthCheck)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Validation failed",
		"details": validation.FormatValidationError(err),
	})
}

// fail maps a service error to its HTTP status. Unclassified errors are
// logged and answered with message.
func (r *Router) fail(c *gin.Context, err error, message string, extra gin.H) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, live.ErrToggleInProgress):
		status = http.StatusConflict
	case errors.Is(err, live.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, live.ErrNotFound):
		status = http.StatusNotFound
	default:
		r.logger.Error(message, log.Error(err))
	}

	body := gin.H{"success": false, "error": message}
	if status != http.StatusInternalServerError {
		body["error"] = err.Error()
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func (r *Router) refreshSubscription(c *gin.Context) {
	var req UserURI
	if err := c.ShouldBindUri(&req); err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"refreshed": r.subs.Refresh(req.UserID),
	})
}

func (r *Router) checkHealth(c *gin.Context) {
	var req UserURI
	if err := c.ShouldBindUri(&req); err != nil {
		badRequest(c, err)
		return
	}

	retrying := r.subs.CheckHealth(req.UserID)
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"healthy":        r.subs.Healthy(req.UserID),
		"retryScheduled": retrying,
	})
}

func (r *Router) listNotifications(c *gin.Context) {
	var req UserURI
	if err := c.ShouldBindUri(&req); err != nil {
		badRequest(c, err)
		return
	}
	var query ListNotificationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}

	list, err := r.social.Notifications(c.Request.Context(), req.UserID, query.Limit, query.Offset)
	if err != nil {
		r.fail(c, err, "Failed to list notifications", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"count":         len(list),
		"notifications": list,
	})
}

func (r *Router) unreadCount(c *gin.Context) {
	var req UserURI
	if err := c.ShouldBindUri(&req); err != nil {
		badRequest(c, err)
		return
	}

	n, err := r.social.UnreadCount(c.Request.Context(), req.UserID)
	if err != nil {
		r.fail(c, err, "Failed to count unread notifications", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"unread":  n,
	})
}

func (r *Router) markAllRead(c *gin.Context) {
	var req UserURI
	if err := c.ShouldBindUri(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := r.social.MarkAllRead(c.Request.Context(), req.UserID); err != nil {
		r.fail(c, err, "Failed to mark notifications read", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (r *Router) markRead(c *gin.Context) {
	var req NotificationURI
	if err := c.ShouldBindUri(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := r.social.MarkRead(c.Request.Context(), req.UserID, req.NotificationID); err != nil {
		r.fail(c, err, "Failed to mark notification read", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (r *Router) deleteNotification(c *gin.Context) {
	var req NotificationURI
	if err := c.ShouldBindUri(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := r.social.DeleteNotification(c.Request.Context(), req.UserID, req.NotificationID); err != nil {
		r.fail(c, err, "Failed to delete notification", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (r *Router) toggleLike(c *gin.Context) {
	var uri ItemURI
	var body ToggleLikeRequest

	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	state, err := r.social.ToggleLike(ctx, uri.ItemID, body.UserID, body.CurrentHasLiked)
	if err != nil {
		if errors.Is(err, live.ErrToggleInProgress) {
			toggleConflicts.Add(ctx, 1)
		}
		r.fail(c, err, "Failed to toggle like", gin.H{"state": state})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"state":   state,
	})
}

func (r *Router) socialInfo(c *gin.Context) {
	var uri ItemURI
	var query SocialInfoQuery

	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}

	info, err := r.social.SocialInfo(c.Request.Context(), uri.ItemID, query.UserID)
	if err != nil {
		r.fail(c, err, "Failed to get social info", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"social":  info,
	})
}

func (r *Router) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"service":       serviceName,
		"realtimeReady": r.subs.Ready(),
		"timestamp":     time.Now().Unix(),
	})
}
