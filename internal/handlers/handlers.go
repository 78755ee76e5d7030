package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"alumniconnect/internal/config"
	"alumniconnect/internal/middleware"
	"alumniconnect/internal/models"
	"alumniconnect/internal/realtime"
	"alumniconnect/internal/service"
)

// Services groups the business services the HTTP layer depends on.
type Services struct {
	Auth          *service.AuthService
	Profiles      *service.ProfileService
	Uploads       *service.UploadService
	Mentorships   *service.MentorshipService
	Messages      *service.MessageService
	Content       *service.ContentService
	Notifications *service.NotificationService
}

// HealthCheck is a named dependency check reported by /healthz.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type HandlerSet struct {
	log           zerolog.Logger
	cfg           *config.AppConfig
	auth          *service.AuthService
	profiles      *service.ProfileService
	uploads       *service.UploadService
	mentorships   *service.MentorshipService
	messages      *service.MessageService
	content       *service.ContentService
	notifications *service.NotificationService
	hub           *realtime.Hub
	upgrader      websocket.Upgrader
	checks        []HealthCheck
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, services Services, hub *realtime.Hub, checks ...HealthCheck) HandlerSet {
	RegisterValidators()

	return HandlerSet{
		log:           log,
		cfg:           cfg,
		auth:          services.Auth,
		profiles:      services.Profiles,
		uploads:       services.Uploads,
		mentorships:   services.Mentorships,
		messages:      services.Messages,
		content:       services.Content,
		notifications: services.Notifications,
		hub:           hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowCORSOrigins),
		},
		checks: checks,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	requireSession := middleware.Auth(h.cfg.Security.CookieName, h.auth)

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.SignUp)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)

		protected := auth.Group("", requireSession)
		protected.GET("/me", h.Me)
		protected.GET("/sessions", h.ListSessions)
		protected.DELETE("/sessions/:id", h.RevokeSession)
	}

	router.GET("/users", h.ListUsers)
	router.GET("/users/:id", h.GetUser)
	router.PATCH("/users/me", requireSession, h.UpdateProfile)
	router.POST("/users/me/avatar", requireSession, h.UploadAvatar)
	router.GET("/alumni", h.SearchAlumni)

	mentorships := router.Group("/mentorships", requireSession)
	{
		mentorships.GET("", h.ListMentorships)
		mentorships.POST("", h.RequestMentorship)
		mentorships.PATCH("/:id/status", h.UpdateMentorshipStatus)
		mentorships.DELETE("/:id", h.DeleteMentorship)
		mentorships.GET("/:id/messages", h.ListMessages)
		mentorships.POST("/:id/messages", h.SendMessage)
		mentorships.GET("/:id/ws", h.MentorshipSocket)
	}
	router.PATCH("/messages/:id/read", requireSession, h.MarkMessageRead)

	notifications := router.Group("/notifications", requireSession)
	{
		notifications.GET("", h.ListNotifications)
		notifications.GET("/unread", h.UnreadCounts)
		notifications.PATCH("/:id/read", h.MarkNotificationRead)
	}

	router.GET("/feed", h.ListPosts)
	router.POST("/feed", requireSession, h.CreatePost)

	router.GET("/interview-guides", h.ListGuides)
	router.POST("/interview-guides", requireSession, middleware.RequireRoles(models.UserRoleAlumni, models.UserRoleStaff), h.CreateGuide)

	router.GET("/assessments", h.ListAssessments)
	router.GET("/assessments/:id", h.GetAssessment)
	router.POST("/assessments", requireSession, middleware.RequireRoles(models.UserRoleStaff), h.CreateAssessment)
	router.POST("/assessment-results", requireSession, h.SubmitResult)
	router.GET("/assessment-results/user/:userId", requireSession, h.ListResults)

	router.GET("/events", h.ListEvents)
	router.POST("/events", requireSession, middleware.RequireRoles(models.UserRoleStaff), h.CreateEvent)

	router.GET("/placements", h.ListPlacements)
	router.GET("/placements/stats", h.PlacementStats)
	router.POST("/placements", requireSession, middleware.RequireRoles(models.UserRoleStaff), h.CreatePlacement)
	router.POST("/placements/self", requireSession, h.CreateOwnPlacement)
}

func originChecker(allowed []string) func(r *http.Request) bool {
	allow := middleware.AllowOrigin(allowed)
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allow(origin)
	}
}
