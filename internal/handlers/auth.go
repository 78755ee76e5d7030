package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"alumniconnect/internal/middleware"
	"alumniconnect/internal/models"
	"alumniconnect/internal/service"
)

type registerRequest struct {
	Username       string          `json:"username" binding:"required,notblank,max=64"`
	Email          string          `json:"email" binding:"required,email"`
	Password       string          `json:"password" binding:"required,min=6"`
	FullName       string          `json:"fullName" binding:"required,notblank"`
	College        string          `json:"college" binding:"required,notblank"`
	Role           models.UserRole `json:"role" binding:"omitempty,role"`
	GraduationYear *int            `json:"graduationYear" binding:"omitempty,min=1900,max=2100"`
	Department     *string         `json:"department"`
	Company        *string         `json:"company"`
	Position       *string         `json:"position"`
	Location       *string         `json:"location"`
	Bio            *string         `json:"bio"`
}

func (h HandlerSet) SignUp(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		FullName:       req.FullName,
		College:        req.College,
		Role:           req.Role,
		GraduationYear: req.GraduationYear,
		Department:     req.Department,
		Company:        req.Company,
		Position:       req.Position,
		Location:       req.Location,
		Bio:            req.Bio,
		IPAddress:      c.ClientIP(),
		UserAgent:      c.GetHeader("User-Agent"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setSessionCookie(c, result.Token)
	c.JSON(http.StatusOK, result.User)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Username:  req.Username,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setSessionCookie(c, result.Token)
	c.JSON(http.StatusOK, result.User)
}

// Logout always clears the cookie, even when the session is already gone.
func (h HandlerSet) Logout(c *gin.Context) {
	if token, _ := c.Cookie(h.cfg.Security.CookieName); token != "" {
		_, session, err := h.auth.Authenticate(c.Request.Context(), token, c.ClientIP(), c.GetHeader("User-Agent"))
		if err == nil {
			if err := h.auth.Logout(c.Request.Context(), session.ID); err != nil {
				respondError(c, h.log, err)
				return
			}
		}
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h HandlerSet) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

type sessionResponse struct {
	ID         string    `json:"id"`
	IPAddress  string    `json:"ipAddress"`
	UserAgent  string    `json:"userAgent"`
	CreatedAt  time.Time `json:"createdAt"`
	LastSeenAt time.Time `json:"lastSeenAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Current    bool      `json:"current"`
}

func (h HandlerSet) ListSessions(c *gin.Context) {
	user := currentUser(c)
	current, _ := middleware.CurrentSession(c)

	sessions, err := h.auth.Sessions(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, sessionResponse{
			ID:         session.ID,
			IPAddress:  session.IPAddress,
			UserAgent:  session.UserAgent,
			CreatedAt:  session.CreatedAt,
			LastSeenAt: session.LastSeenAt,
			ExpiresAt:  session.ExpiresAt,
			Current:    session.ID == current.ID,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": resp,
	})
}

func (h HandlerSet) RevokeSession(c *gin.Context) {
	user := currentUser(c)
	current, _ := middleware.CurrentSession(c)

	if err := h.auth.RevokeSession(c.Request.Context(), user.ID, current.ID, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Security.CookieName, token, int(h.cfg.Security.SessionTTL/time.Second), "/", "", h.cfg.IsProduction(), true)
}

func (h HandlerSet) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Security.CookieName, "", -1, "/", "", h.cfg.IsProduction(), true)
}
