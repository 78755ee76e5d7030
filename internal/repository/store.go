package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"alumniconnect/internal/models"
)

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindFirstByRole(ctx context.Context, role models.UserRole) (models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	SearchAlumni(ctx context.Context, filter models.AlumniFilter) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.User, error)
	SetAvatar(ctx context.Context, id string, avatarURL string) error
	CountByRole(ctx context.Context, role models.UserRole) (int, error)
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	GetByID(ctx context.Context, id string) (models.Session, error)
	ListByUser(ctx context.Context, userID string) ([]models.Session, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	DeleteOldestSessions(ctx context.Context, userID string, keepLatest int) error
	DeleteByID(ctx context.Context, id string) error
	DeleteForUser(ctx context.Context, userID string, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Touch(ctx context.Context, id string, ip string, userAgent string) error
}

type MentorshipStore interface {
	// Create fails with ErrDuplicateMentorship when the unordered pair already exists.
	Create(ctx context.Context, mentorship models.Mentorship) error
	GetByID(ctx context.Context, id string) (models.Mentorship, error)
	FindBetween(ctx context.Context, userA, userB string) (models.Mentorship, error)
	List(ctx context.Context, filter models.MentorshipFilter) ([]models.MentorshipView, error)
	// UpdateStatus only applies when the stored status still equals from.
	UpdateStatus(ctx context.Context, id string, from, to models.MentorshipStatus, at time.Time) (models.Mentorship, error)
	// Delete removes the mentorship and its messages.
	Delete(ctx context.Context, id string) error
}

type MessageStore interface {
	Create(ctx context.Context, message models.Message) error
	GetByID(ctx context.Context, id string) (models.Message, error)
	ListByMentorship(ctx context.Context, mentorshipID string) ([]models.MessageView, error)
	MarkRead(ctx context.Context, id string) (models.Message, error)
	CountUnread(ctx context.Context, receiverID string) (int, error)
}

type PostStore interface {
	Create(ctx context.Context, post models.Post) error
	List(ctx context.Context, filter models.PostFilter) ([]models.PostView, error)
}

type InterviewGuideStore interface {
	Create(ctx context.Context, guide models.InterviewGuide) error
	List(ctx context.Context, company string) ([]models.InterviewGuideView, error)
	Count(ctx context.Context) (int, error)
}

type AssessmentStore interface {
	Create(ctx context.Context, assessment models.Assessment) error
	GetByID(ctx context.Context, id string) (models.Assessment, error)
	List(ctx context.Context) ([]models.Assessment, error)
	Count(ctx context.Context) (int, error)
	CreateResult(ctx context.Context, result models.AssessmentResult) error
	ListResultsByUser(ctx context.Context, userID string) ([]models.AssessmentResult, error)
}

type EventStore interface {
	Create(ctx context.Context, event models.Event) error
	List(ctx context.Context) ([]models.EventView, error)
}

type PlacementStore interface {
	Create(ctx context.Context, placement models.Placement) error
	List(ctx context.Context) ([]models.PlacementView, error)
	ListAll(ctx context.Context) ([]models.Placement, error)
}

type NotificationStore interface {
	Create(ctx context.Context, notification models.Notification) error
	GetByID(ctx context.Context, id string) (models.Notification, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) (models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
}

// Stores bundles every collection the services depend on.
type Stores struct {
	Users         UserStore
	Sessions      SessionStore
	Mentorships   MentorshipStore
	Messages      MessageStore
	Posts         PostStore
	Guides        InterviewGuideStore
	Assessments   AssessmentStore
	Events        EventStore
	Placements    PlacementStore
	Notifications NotificationStore
}

func NewPostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Users:         NewUserRepository(pool),
		Sessions:      NewSessionRepository(pool),
		Mentorships:   NewMentorshipRepository(pool),
		Messages:      NewMessageRepository(pool),
		Posts:         NewPostRepository(pool),
		Guides:        NewInterviewGuideRepository(pool),
		Assessments:   NewAssessmentRepository(pool),
		Events:        NewEventRepository(pool),
		Placements:    NewPlacementRepository(pool),
		Notifications: NewNotificationRepository(pool),
	}
}
