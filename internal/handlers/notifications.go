package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) ListNotifications(c *gin.Context) {
	list, err := h.notifications.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h HandlerSet) MarkNotificationRead(c *gin.Context) {
	notification, err := h.notifications.MarkRead(c.Request.Context(), c.Param("id"), currentUser(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}

func (h HandlerSet) UnreadCounts(c *gin.Context) {
	counts, err := h.notifications.Unread(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
