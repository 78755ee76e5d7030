package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumniconnect/internal/apperrors"
	"alumniconnect/internal/models"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages map[string][]models.MessageView
}

func (p *recordingPublisher) Publish(mentorshipID string, message models.MessageView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.messages == nil {
		p.messages = make(map[string][]models.MessageView)
	}
	p.messages[mentorshipID] = append(p.messages[mentorshipID], message)
}

func TestSendValidatesInput(t *testing.T) {
	f := newFixture()
	m, mentor, mentee := f.activeMentorship(t)
	ctx := context.Background()

	for _, input := range []SendMessageInput{
		{MentorshipID: m.ID, SenderID: mentee.ID, ReceiverID: mentor.ID, Content: "   "},
		{MentorshipID: m.ID, SenderID: mentee.ID, ReceiverID: "", Content: "hi"},
	} {
		_, err := f.messages.Send(ctx, input)
		require.Error(t, err)
		assert.Equal(t, "Content and receiverId are required", err.Error())
	}

	_, err := f.messages.Send(ctx, SendMessageInput{MentorshipID: m.ID, SenderID: mentee.ID, ReceiverID: mentor.ID, Content: strings.Repeat("x", MaxMessageLength+1)})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = f.messages.Send(ctx, SendMessageInput{MentorshipID: m.ID, SenderID: mentee.ID, ReceiverID: mentee.ID, Content: "to myself"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = f.messages.Send(ctx, SendMessageInput{MentorshipID: "missing", SenderID: mentee.ID, ReceiverID: mentor.ID, Content: "hi"})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestSendRequiresParty(t *testing.T) {
	f := newFixture()
	m, mentor, _ := f.activeMentorship(t)
	outsider := f.user(t, "outsider", "MIT", models.UserRoleStudent)

	_, err := f.messages.Send(context.Background(), SendMessageInput{MentorshipID: m.ID, SenderID: outsider.ID, ReceiverID: mentor.ID, Content: "hi"})
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = f.messages.List(context.Background(), m.ID, outsider.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestSendStoresTrimmedUnreadTextMessage(t *testing.T) {
	f := newFixture()
	publisher := &recordingPublisher{}
	f.messages.publisher = publisher
	m, mentor, mentee := f.activeMentorship(t)

	msg, err := f.messages.Send(context.Background(), SendMessageInput{MentorshipID: m.ID, SenderID: mentee.ID, ReceiverID: mentor.ID, Content: "  hello there  "})
	require.NoError(t, err)
	assert.Equal(t, "hello there", msg.Content)
	assert.False(t, msg.IsRead)
	assert.Equal(t, models.MessageTypeText, msg.MessageType)

	require.Len(t, publisher.messages[m.ID], 1)
	assert.Equal(t, "mentee", publisher.messages[m.ID][0].Sender.Username)

	var kinds []models.NotificationKind
	for _, n := range f.queue.notifications(t) {
		if n.UserID == mentor.ID {
			kinds = append(kinds, n.Kind)
		}
	}
	assert.Contains(t, kinds, models.NotificationMessageReceived)
}

func TestListMessagesAscendingAndStable(t *testing.T) {
	f := newFixture()
	m, mentor, mentee := f.activeMentorship(t)
	ctx := context.Background()

	for i, sender := range []models.User{mentee, mentor, mentee, mentor, mentee} {
		receiver := mentor
		if sender.ID == mentor.ID {
			receiver = mentee
		}
		_, err := f.messages.Send(ctx, SendMessageInput{MentorshipID: m.ID, SenderID: sender.ID, ReceiverID: receiver.ID, Content: string(rune('a' + i))})
		require.NoError(t, err)
	}

	first, err := f.messages.List(ctx, m.ID, mentee.ID)
	require.NoError(t, err)
	require.Len(t, first, 5)
	for i := 1; i < len(first); i++ {
		assert.False(t, first[i].CreatedAt.Before(first[i-1].CreatedAt))
	}
	assert.Equal(t, "a", first[0].Content)
	assert.Equal(t, "e", first[4].Content)

	second, err := f.messages.List(ctx, m.ID, mentor.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestListMessagesBreaksTimestampTiesById(t *testing.T) {
	f := newFixture()
	m, mentor, mentee := f.activeMentorship(t)
	frozen := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f.messages.now = func() time.Time { return frozen }
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := f.messages.Send(ctx, SendMessageInput{MentorshipID: m.ID, SenderID: mentee.ID, ReceiverID: mentor.ID, Content: "same instant"})
		require.NoError(t, err)
	}

	list, err := f.messages.List(ctx, m.ID, mentor.ID)
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}

func TestMarkReadIdempotentAndReceiverOnly(t *testing.T) {
	f := newFixture()
	m, mentor, mentee := f.activeMentorship(t)
	ctx := context.Background()

	msg, err := f.messages.Send(ctx, SendMessageInput{MentorshipID: m.ID, SenderID: mentee.ID, ReceiverID: mentor.ID, Content: "ping"})
	require.NoError(t, err)

	_, err = f.messages.MarkRead(ctx, msg.ID, mentee.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	count, err := f.messages.UnreadCount(ctx, mentor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	for i := 0; i < 2; i++ {
		read, err := f.messages.MarkRead(ctx, msg.ID, mentor.ID)
		require.NoError(t, err)
		assert.True(t, read.IsRead)
	}

	count, err = f.messages.UnreadCount(ctx, mentor.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = f.messages.MarkRead(ctx, "missing", mentor.ID)
	require.Error(t, err)
	assert.Equal(t, "Message not found", err.Error())
}

func TestNotificationServiceOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", "MIT", models.UserRoleStudent)
	other := f.user(t, "other", "MIT", models.UserRoleStudent)

	require.NoError(t, f.stores.Notifications.Create(ctx, models.Notification{ID: "n1", UserID: owner.ID, Title: "hi", CreatedAt: f.clock.Now()}))
	svc := NewNotificationService(f.stores.Notifications, f.stores.Messages)

	_, err := svc.MarkRead(ctx, "n1", other.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	counts, err := svc.Unread(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, UnreadCounts{Messages: 0, Notifications: 1}, counts)

	n, err := svc.MarkRead(ctx, "n1", owner.ID)
	require.NoError(t, err)
	assert.True(t, n.IsRead)

	list, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.MarkRead(ctx, "missing", owner.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestNotifierToleratesNilQueue(t *testing.T) {
	var n *Notifier
	n.Notify(context.Background(), "u1", models.NotificationMessageReceived, "t", "b", "r")
	NewNotifier(nil, zerolog.Nop()).Notify(context.Background(), "u1", models.NotificationMessageReceived, "t", "b", "r")
}
