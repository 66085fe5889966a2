package api

import (
	"net/http"

	"github.com/Domenick1991/eventspark/internal/notify"
	"github.com/gin-gonic/gin"
)

type NotificationFeed interface {
	Recent() []notify.Notification
}

type NotificationHandler struct {
	feed NotificationFeed
}

func NewNotificationHandler(feed NotificationFeed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

func (h *NotificationHandler) Register(router *gin.RouterGroup) {
	router.GET("/notifications", h.list)
}

func (h *NotificationHandler) list(c *gin.Context) {
	recent := h.feed.Recent()
	if recent == nil {
		recent = []notify.Notification{}
	}
	c.JSON(http.StatusOK, recent)
}
