package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alumniconnect/internal/models"
	"alumniconnect/internal/service"
)

type mentorshipQuery struct {
	MentorID string `form:"mentorId"`
	MenteeID string `form:"menteeId"`
}

func (h HandlerSet) ListMentorships(c *gin.Context) {
	var q mentorshipQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	list, err := h.mentorships.List(c.Request.Context(), models.MentorshipFilter{MentorID: q.MentorID, MenteeID: q.MenteeID})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Status is accepted for compatibility; every request starts pending.
type mentorshipRequest struct {
	MentorID string  `json:"mentorId" binding:"required"`
	MenteeID string  `json:"menteeId" binding:"required"`
	Field    *string `json:"field"`
	Status   string  `json:"status"`
}

func (h HandlerSet) RequestMentorship(c *gin.Context) {
	var req mentorshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	mentorship, err := h.mentorships.Request(c.Request.Context(), service.MentorshipRequestInput{
		RequesterID: currentUser(c).ID,
		MentorID:    req.MentorID,
		MenteeID:    req.MenteeID,
		Field:       req.Field,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mentorship)
}

type statusRequest struct {
	Status models.MentorshipStatus `json:"status" binding:"required,mentorship_status"`
}

func (h HandlerSet) UpdateMentorshipStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	mentorship, err := h.mentorships.UpdateStatus(c.Request.Context(), c.Param("id"), currentUser(c).ID, req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mentorship)
}

func (h HandlerSet) DeleteMentorship(c *gin.Context) {
	if err := h.mentorships.Delete(c.Request.Context(), c.Param("id"), currentUser(c).ID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Mentorship deleted successfully"})
}

func (h HandlerSet) ListMessages(c *gin.Context) {
	messages, err := h.messages.List(c.Request.Context(), c.Param("id"), currentUser(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

type sendMessageRequest struct {
	Content    string `json:"content"`
	ReceiverID string `json:"receiverId"`
}

func (h HandlerSet) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	message, err := h.messages.Send(c.Request.Context(), service.SendMessageInput{
		MentorshipID: c.Param("id"),
		SenderID:     currentUser(c).ID,
		ReceiverID:   req.ReceiverID,
		Content:      req.Content,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

func (h HandlerSet) MarkMessageRead(c *gin.Context) {
	message, err := h.messages.MarkRead(c.Request.Context(), c.Param("id"), currentUser(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

// MentorshipSocket streams new messages of one mentorship to a party.
func (h HandlerSet) MentorshipSocket(c *gin.Context) {
	user := currentUser(c)
	mentorship, err := h.mentorships.Get(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if h.hub == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Realtime updates are not enabled"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug().Err(err).Str("mentorship_id", mentorship.ID).Msg("websocket upgrade failed")
		return
	}

	if err := h.hub.Serve(conn, user.ID, mentorship.ID); err != nil {
		h.log.Debug().Err(err).Str("mentorship_id", mentorship.ID).Msg("websocket session ended")
	}
}
