package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumniconnect/internal/apperrors"
	"alumniconnect/internal/models"
)

func TestRequestRejectsSelf(t *testing.T) {
	f := newFixture()
	for _, role := range []models.UserRole{models.UserRoleStudent, models.UserRoleAlumni, models.UserRoleStaff} {
		u := f.user(t, "self-"+string(role), "MIT", role)
		_, err := f.mentorships.Request(context.Background(), MentorshipRequestInput{RequesterID: u.ID, MentorID: u.ID, MenteeID: u.ID})
		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		assert.Equal(t, msgSelfRequest, err.Error())
	}
}

func TestRequestRejectsCrossCollegeBothDirections(t *testing.T) {
	f := newFixture()
	a := f.user(t, "a", "MIT", models.UserRoleAlumni)
	b := f.user(t, "b", "Stanford", models.UserRoleStudent)
	ctx := context.Background()

	_, err := f.mentorships.Request(ctx, MentorshipRequestInput{RequesterID: b.ID, MentorID: a.ID, MenteeID: b.ID})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
	assert.Equal(t, msgCrossCollege, err.Error())

	_, err = f.mentorships.Request(ctx, MentorshipRequestInput{RequesterID: a.ID, MentorID: b.ID, MenteeID: a.ID})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
}

func TestRequestRejectsDuplicatesInEitherOrder(t *testing.T) {
	f := newFixture()
	mentor, mentee := f.pair(t)
	ctx := context.Background()

	first, err := f.mentorships.Request(ctx, MentorshipRequestInput{RequesterID: mentee.ID, MentorID: mentor.ID, MenteeID: mentee.ID})
	require.NoError(t, err)
	assert.Equal(t, models.MentorshipPending, first.Status)

	_, err = f.mentorships.Request(ctx, MentorshipRequestInput{RequesterID: mentee.ID, MentorID: mentor.ID, MenteeID: mentee.ID})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, msgDuplicateRequest, err.Error())

	_, err = f.mentorships.Request(ctx, MentorshipRequestInput{RequesterID: mentee.ID, MentorID: mentee.ID, MenteeID: mentor.ID})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestRequestChecks(t *testing.T) {
	f := newFixture()
	mentor, mentee := f.pair(t)
	outsider := f.user(t, "outsider", "MIT", models.UserRoleStudent)
	ctx := context.Background()

	_, err := f.mentorships.Request(ctx, MentorshipRequestInput{RequesterID: outsider.ID, MentorID: mentor.ID, MenteeID: mentee.ID})
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = f.mentorships.Request(ctx, MentorshipRequestInput{RequesterID: mentee.ID, MentorID: "missing", MenteeID: mentee.ID})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, msgUserNotFound, err.Error())
}

func TestRequestNotifiesCounterparty(t *testing.T) {
	f := newFixture()
	mentor, mentee := f.pair(t)

	m, err := f.mentorships.Request(context.Background(), MentorshipRequestInput{RequesterID: mentee.ID, MentorID: mentor.ID, MenteeID: mentee.ID})
	require.NoError(t, err)
	assert.Equal(t, mentee.ID, m.RequestedBy)

	notes := f.queue.notifications(t)
	require.Len(t, notes, 1)
	assert.Equal(t, mentor.ID, notes[0].UserID)
	assert.Equal(t, models.NotificationMentorshipRequested, notes[0].Kind)
	assert.Equal(t, m.ID, notes[0].RefID)
}

func TestStatusTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("accept moves to active", func(t *testing.T) {
		f := newFixture()
		mentor, mentee := f.pair(t)
		m, err := f.mentorships.Request(ctx, MentorshipRequestInput{RequesterID: mentee.ID, MentorID: mentor.ID, MenteeID: mentee.ID})
		require.NoError(t, err)

		m, err = f.mentorships.Respond(ctx, m.ID, mentor.ID, DecisionAccept)
		require.NoError(t, err)
		assert.Equal(t, models.MentorshipActive, m.Status)
	})

	t.Run("decline moves to rejected and is terminal", func(t *testing.T) {
		f := newFixture()
		mentor, mentee := f.pair(t)
		m, err := f.mentorships.Request(ctx, MentorshipRequestInput{RequesterID: mentee.ID, MentorID: mentor.ID, MenteeID: mentee.ID})
		require.NoError(t, err)

		m, err = f.mentorships.Respond(ctx, m.ID, mentor.ID, DecisionDecline)
		require.NoError(t, err)
		assert.Equal(t, models.MentorshipRejected, m.Status)

		for _, status := range []models.MentorshipStatus{models.MentorshipActive, models.MentorshipRejected, models.MentorshipCompleted} {
			_, err = f.mentorships.UpdateStatus(ctx, m.ID, mentor.ID, status)
			require.Error(t, err)
			assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err), status)
		}
		_, err = f.mentorships.UpdateStatus(ctx, m.ID, mentor.ID, models.MentorshipPending)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

		stored, err := f.stores.Mentorships.GetByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, models.MentorshipRejected, stored.Status)
	})

	t.Run("complete only from active", func(t *testing.T) {
		f := newFixture()
		mentor, mentee := f.pair(t)
		m, err := f.mentorships.Request(ctx, MentorshipRequestInput{RequesterID: mentee.ID, MentorID: mentor.ID, MenteeID: mentee.ID})
		require.NoError(t, err)

		_, err = f.mentorships.Complete(ctx, m.ID, mentee.ID)
		require.Error(t, err)
		assert.Equal(t, "Invalid status transition from pending to completed", err.Error())

		_, err = f.mentorships.Respond(ctx, m.ID, mentor.ID, DecisionAccept)
		require.NoError(t, err)
		m, err = f.mentorships.Complete(ctx, m.ID, mentee.ID)
		require.NoError(t, err)
		assert.Equal(t, models.MentorshipCompleted, m.Status)
	})
}

func TestRespondPermissions(t *testing.T) {
	f := newFixture()
	mentor, mentee := f.pair(t)
	outsider := f.user(t, "outsider", "MIT", models.UserRoleStudent)
	ctx := context.Background()

	m, err := f.mentorships.Request(ctx, MentorshipRequestInput{RequesterID: mentee.ID, MentorID: mentor.ID, MenteeID: mentee.ID})
	require.NoError(t, err)

	_, err = f.mentorships.Respond(ctx, m.ID, mentee.ID, DecisionAccept)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = f.mentorships.Respond(ctx, m.ID, outsider.ID, DecisionAccept)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	assert.Equal(t, msgNotParty, err.Error())

	_, err = f.mentorships.Respond(ctx, "missing", mentor.ID, DecisionAccept)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture()
	_, err := f.mentorships.UpdateStatus(context.Background(), "whatever", "someone", models.MentorshipStatus("archived"))
	require.Error(t, err)
	assert.Equal(t, msgInvalidStatus, err.Error())
}

func TestDeleteRemovesMentorshipAndMessages(t *testing.T) {
	f := newFixture()
	m, mentor, mentee := f.activeMentorship(t)
	outsider := f.user(t, "outsider", "MIT", models.UserRoleStudent)
	ctx := context.Background()

	_, err := f.messages.Send(ctx, SendMessageInput{MentorshipID: m.ID, SenderID: mentee.ID, ReceiverID: mentor.ID, Content: "hello"})
	require.NoError(t, err)

	err = f.mentorships.Delete(ctx, m.ID, outsider.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	require.NoError(t, f.mentorships.Delete(ctx, m.ID, mentor.ID))

	err = f.mentorships.Delete(ctx, m.ID, mentor.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	unread, err := f.stores.Messages.CountUnread(ctx, mentor.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	_, err = f.mentorships.Request(ctx, MentorshipRequestInput{RequesterID: mentee.ID, MentorID: mentor.ID, MenteeID: mentee.ID})
	assert.NoError(t, err, "pair is free again after delete")
}

func TestListFiltersAndJoins(t *testing.T) {
	f := newFixture()
	mentor, mentee := f.pair(t)
	other := f.user(t, "other", "MIT", models.UserRoleStudent)
	ctx := context.Background()

	first, err := f.mentorships.Request(ctx, MentorshipRequestInput{RequesterID: mentee.ID, MentorID: mentor.ID, MenteeID: mentee.ID})
	require.NoError(t, err)
	second, err := f.mentorships.Request(ctx, MentorshipRequestInput{RequesterID: other.ID, MentorID: mentor.ID, MenteeID: other.ID})
	require.NoError(t, err)

	all, err := f.mentorships.List(ctx, models.MentorshipFilter{MentorID: mentor.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Equal(t, first.ID, all[1].ID)
	assert.Equal(t, "mentor", all[0].Mentor.Username)
	assert.Equal(t, "other", all[0].Mentee.Username)

	filtered, err := f.mentorships.List(ctx, models.MentorshipFilter{MenteeID: mentee.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, first.ID, filtered[0].ID)
}
