package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumniconnect/internal/models"
	"alumniconnect/internal/repository/memory"
)

func TestTaskValuesRoundTrip(t *testing.T) {
	task, err := NewNotificationTask(models.Notification{ID: "n1", UserID: "u1", Kind: models.NotificationMessageReceived})
	require.NoError(t, err)

	decoded, err := Decode(task.Values())
	require.NoError(t, err)
	assert.Equal(t, TypeNotification, decoded.Type)
	assert.JSONEq(t, string(task.Payload), string(decoded.Payload))

	cleanup, err := Decode(NewSessionCleanupTask().Values())
	require.NoError(t, err)
	assert.Equal(t, TypeSessionCleanup, cleanup.Type)
	assert.Empty(t, cleanup.Payload)
}

func TestDecodeRejectsBadEntries(t *testing.T) {
	_, err := Decode(map[string]any{})
	assert.Error(t, err)

	_, err = Decode(map[string]any{"type": TypeNotification, "payload": "{broken"})
	assert.Error(t, err)
}

func TestProcessorStoresNotificationOnce(t *testing.T) {
	db := memory.New()
	notifications := memory.NewNotificationRepository(db)
	p := NewProcessor(notifications, memory.NewSessionRepository(db), zerolog.Nop())

	task, err := NewNotificationTask(models.Notification{
		ID:        "n1",
		UserID:    "u1",
		Kind:      models.NotificationMentorshipRequested,
		Title:     "New mentorship request",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, p.Handle(ctx, redis.XMessage{ID: "1-0", Values: task.Values()}))
	require.NoError(t, p.Handle(ctx, redis.XMessage{ID: "1-0", Values: task.Values()}))

	list, err := notifications.ListByUser(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "New mentorship request", list[0].Title)
}

func TestProcessorCleansExpiredSessions(t *testing.T) {
	db := memory.New()
	sessions := memory.NewSessionRepository(db)
	p := NewProcessor(memory.NewNotificationRepository(db), sessions, zerolog.Nop())

	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, sessions.Create(ctx, models.Session{ID: "old", UserID: "u1", CreatedAt: now.Add(-48 * time.Hour), ExpiresAt: now.Add(-24 * time.Hour)}))
	require.NoError(t, sessions.Create(ctx, models.Session{ID: "live", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))

	require.NoError(t, p.Process(ctx, NewSessionCleanupTask()))

	_, err := sessions.GetByID(ctx, "old")
	assert.Error(t, err)
	_, err = sessions.GetByID(ctx, "live")
	assert.NoError(t, err)
}

func TestProcessorIgnoresUnknownTask(t *testing.T) {
	db := memory.New()
	p := NewProcessor(memory.NewNotificationRepository(db), memory.NewSessionRepository(db), zerolog.Nop())
	assert.NoError(t, p.Process(context.Background(), Task{Type: "thumbnail"}))
}
