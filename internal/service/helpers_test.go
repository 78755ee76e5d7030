package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"alumniconnect/internal/ids"
	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
	"alumniconnect/internal/repository/memory"
	"alumniconnect/internal/tasks"
)

// stepClock advances one second per reading so timestamps are strictly ordered.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type recordingQueue struct {
	mu    sync.Mutex
	tasks []tasks.Task
}

func (q *recordingQueue) Enqueue(_ context.Context, task tasks.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *recordingQueue) notifications(t *testing.T) []models.Notification {
	t.Helper()
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []models.Notification
	for _, task := range q.tasks {
		if task.Type != tasks.TypeNotification {
			continue
		}
		var n models.Notification
		require.NoError(t, json.Unmarshal(task.Payload, &n))
		out = append(out, n)
	}
	return out
}

type fixture struct {
	stores      repository.Stores
	queue       *recordingQueue
	clock       *stepClock
	mentorships *MentorshipService
	messages    *MessageService
}

func newFixture() *fixture {
	stores := memory.NewStores(memory.New())
	queue := &recordingQueue{}
	clock := newStepClock()
	notifier := NewNotifier(queue, zerolog.Nop())

	mentorships := NewMentorshipService(stores.Users, stores.Mentorships, notifier, zerolog.Nop())
	mentorships.now = clock.Now
	messages := NewMessageService(stores.Users, stores.Mentorships, stores.Messages, nil, notifier, zerolog.Nop())
	messages.now = clock.Now

	return &fixture{
		stores:      stores,
		queue:       queue,
		clock:       clock,
		mentorships: mentorships,
		messages:    messages,
	}
}

func (f *fixture) user(t *testing.T, username, college string, role models.UserRole) models.User {
	t.Helper()
	user := models.User{
		ID:        ids.New(),
		Username:  username,
		Email:     username + "@example.com",
		Role:      role,
		FullName:  username + " Example",
		College:   college,
		CreatedAt: f.clock.Now(),
	}
	require.NoError(t, f.stores.Users.Create(context.Background(), user))
	return user
}

// pair creates an alumni mentor and a student mentee at the same college.
func (f *fixture) pair(t *testing.T) (models.User, models.User) {
	t.Helper()
	return f.user(t, "mentor", "MIT", models.UserRoleAlumni), f.user(t, "mentee", "MIT", models.UserRoleStudent)
}

func (f *fixture) activeMentorship(t *testing.T) (models.Mentorship, models.User, models.User) {
	t.Helper()
	ctx := context.Background()
	mentor, mentee := f.pair(t)
	m, err := f.mentorships.Request(ctx, MentorshipRequestInput{RequesterID: mentee.ID, MentorID: mentor.ID, MenteeID: mentee.ID})
	require.NoError(t, err)
	m, err = f.mentorships.Respond(ctx, m.ID, mentor.ID, DecisionAccept)
	require.NoError(t, err)
	return m, mentor, mentee
}
