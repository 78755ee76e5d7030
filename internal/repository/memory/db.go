// Package memory is a mutex-guarded in-process implementation of the
// repository interfaces, used by the memory store driver and by tests.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
)

// DB holds every collection behind a single lock.
type DB struct {
	mu sync.RWMutex

	users         map[string]models.User
	sessions      map[string]models.Session
	mentorships   map[string]models.Mentorship
	pairs         map[string]string
	messages      map[string]models.Message
	posts         map[string]models.Post
	guides        map[string]models.InterviewGuide
	assessments   map[string]models.Assessment
	results       map[string]models.AssessmentResult
	events        map[string]models.Event
	placements    []models.Placement
	notifications map[string]models.Notification

	now func() time.Time
}

func New() *DB {
	return &DB{
		users:         make(map[string]models.User),
		sessions:      make(map[string]models.Session),
		mentorships:   make(map[string]models.Mentorship),
		pairs:         make(map[string]string),
		messages:      make(map[string]models.Message),
		posts:         make(map[string]models.Post),
		guides:        make(map[string]models.InterviewGuide),
		assessments:   make(map[string]models.Assessment),
		results:       make(map[string]models.AssessmentResult),
		events:        make(map[string]models.Event),
		notifications: make(map[string]models.Notification),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// NewStores wires every memory repository onto db.
func NewStores(db *DB) repository.Stores {
	return repository.Stores{
		Users:         NewUserRepository(db),
		Sessions:      NewSessionRepository(db),
		Mentorships:   NewMentorshipRepository(db),
		Messages:      NewMessageRepository(db),
		Posts:         NewPostRepository(db),
		Guides:        NewInterviewGuideRepository(db),
		Assessments:   NewAssessmentRepository(db),
		Events:        NewEventRepository(db),
		Placements:    NewPlacementRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// summary must be called with the lock held.
func (db *DB) summary(userID string) (models.UserSummary, bool) {
	user, ok := db.users[userID]
	if !ok {
		return models.UserSummary{}, false
	}
	return user.Summary(), true
}

func containsFold(value *string, query string) bool {
	if value == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*value), strings.ToLower(query))
}

// newestFirst orders by created descending, id descending on ties.
func newestFirst(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA > idB
}

func sortNewestFirst[T any](items []T, key func(T) (time.Time, string)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		return newestFirst(ti, tj, idi, idj)
	})
}

var (
	_ repository.UserStore           = (*UserRepository)(nil)
	_ repository.SessionStore        = (*SessionRepository)(nil)
	_ repository.MentorshipStore     = (*MentorshipRepository)(nil)
	_ repository.MessageStore        = (*MessageRepository)(nil)
	_ repository.PostStore           = (*PostRepository)(nil)
	_ repository.InterviewGuideStore = (*InterviewGuideRepository)(nil)
	_ repository.AssessmentStore     = (*AssessmentRepository)(nil)
	_ repository.EventStore          = (*EventRepository)(nil)
	_ repository.PlacementStore      = (*PlacementRepository)(nil)
	_ repository.NotificationStore   = (*NotificationRepository)(nil)
)
