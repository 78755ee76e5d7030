package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"alumniconnect/internal/apperrors"
	"alumniconnect/internal/ids"
	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
)

const (
	msgSelfRequest       = "You cannot send a mentorship request to yourself"
	msgUserNotFound      = "User not found"
	msgCrossCollege      = "Mentorship requests are only allowed between users from the same college"
	msgDuplicateRequest  = "A mentorship request already exists between these users"
	msgMentorshipMissing = "Mentorship not found"
	msgNotParty          = "You are not part of this mentorship"
	msgInvalidStatus     = "Invalid status"
)

type Decision string

const (
	DecisionAccept  Decision = "accept"
	DecisionDecline Decision = "decline"
)

type MentorshipService struct {
	users       repository.UserStore
	mentorships repository.MentorshipStore
	notifier    *Notifier
	now         func() time.Time
	log         zerolog.Logger
}

func NewMentorshipService(users repository.UserStore, mentorships repository.MentorshipStore, notifier *Notifier, log zerolog.Logger) *MentorshipService {
	return &MentorshipService{
		users:       users,
		mentorships: mentorships,
		notifier:    notifier,
		now:         systemClock,
		log:         log,
	}
}

type MentorshipRequestInput struct {
	RequesterID string
	MentorID    string
	MenteeID    string
	Field       *string
}

func (s *MentorshipService) Request(ctx context.Context, input MentorshipRequestInput) (models.Mentorship, error) {
	if input.MentorID == input.MenteeID {
		return models.Mentorship{}, apperrors.Validation(msgSelfRequest)
	}
	if input.RequesterID != input.MentorID && input.RequesterID != input.MenteeID {
		return models.Mentorship{}, apperrors.Forbidden("You can only request mentorships you take part in")
	}

	mentor, err := s.lookupUser(ctx, input.MentorID)
	if err != nil {
		return models.Mentorship{}, err
	}
	mentee, err := s.lookupUser(ctx, input.MenteeID)
	if err != nil {
		return models.Mentorship{}, err
	}
	if mentor.College != mentee.College {
		return models.Mentorship{}, apperrors.Forbidden(msgCrossCollege)
	}

	if _, err := s.mentorships.FindBetween(ctx, mentor.ID, mentee.ID); err == nil {
		return models.Mentorship{}, apperrors.Conflict(msgDuplicateRequest)
	} else if !errors.Is(err, repository.ErrMentorshipNotFound) {
		return models.Mentorship{}, fmt.Errorf("find mentorship: %w", err)
	}

	now := s.now()
	mentorship := models.Mentorship{
		ID:          ids.New(),
		MentorID:    mentor.ID,
		MenteeID:    mentee.ID,
		RequestedBy: input.RequesterID,
		Status:      models.MentorshipPending,
		Field:       input.Field,
		PairKey:     models.PairKey(mentor.ID, mentee.ID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.mentorships.Create(ctx, mentorship); err != nil {
		if errors.Is(err, repository.ErrDuplicateMentorship) {
			return models.Mentorship{}, apperrors.Wrap(apperrors.KindConflict, err, msgDuplicateRequest)
		}
		return models.Mentorship{}, fmt.Errorf("create mentorship: %w", err)
	}

	s.log.Info().
		Str("mentorship_id", mentorship.ID).
		Str("mentor_id", mentor.ID).
		Str("mentee_id", mentee.ID).
		Msg("mentorship requested")

	requester := mentor
	if input.RequesterID == mentee.ID {
		requester = mentee
	}
	s.notifier.Notify(ctx, mentorship.Counterparty(input.RequesterID), models.NotificationMentorshipRequested,
		"New mentorship request",
		fmt.Sprintf("%s sent you a mentorship request", requester.FullName),
		mentorship.ID,
	)

	return mentorship, nil
}

func (s *MentorshipService) lookupUser(ctx context.Context, id string) (models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperrors.Wrap(apperrors.KindNotFound, err, msgUserNotFound)
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// Respond lets the party that did not send the request accept or decline it.
func (s *MentorshipService) Respond(ctx context.Context, id, responderID string, decision Decision) (models.Mentorship, error) {
	mentorship, err := s.loadForParty(ctx, id, responderID)
	if err != nil {
		return models.Mentorship{}, err
	}
	if responderID == mentorship.RequestedBy {
		return models.Mentorship{}, apperrors.Forbidden("Only the recipient can respond to a mentorship request")
	}

	switch decision {
	case DecisionAccept:
		return s.transition(ctx, mentorship, models.MentorshipActive, responderID)
	case DecisionDecline:
		return s.transition(ctx, mentorship, models.MentorshipRejected, responderID)
	default:
		return models.Mentorship{}, apperrors.Validation(msgInvalidStatus)
	}
}

func (s *MentorshipService) Complete(ctx context.Context, id, callerID string) (models.Mentorship, error) {
	mentorship, err := s.loadForParty(ctx, id, callerID)
	if err != nil {
		return models.Mentorship{}, err
	}
	return s.transition(ctx, mentorship, models.MentorshipCompleted, callerID)
}

// UpdateStatus maps the generic status endpoint onto Respond and Complete.
func (s *MentorshipService) UpdateStatus(ctx context.Context, id, callerID string, status models.MentorshipStatus) (models.Mentorship, error) {
	switch status {
	case models.MentorshipActive:
		return s.Respond(ctx, id, callerID, DecisionAccept)
	case models.MentorshipRejected:
		return s.Respond(ctx, id, callerID, DecisionDecline)
	case models.MentorshipCompleted:
		return s.Complete(ctx, id, callerID)
	default:
		return models.Mentorship{}, apperrors.Validation(msgInvalidStatus)
	}
}

func (s *MentorshipService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.loadForParty(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.mentorships.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMentorshipNotFound) {
			return apperrors.Wrap(apperrors.KindNotFound, err, msgMentorshipMissing)
		}
		return fmt.Errorf("delete mentorship: %w", err)
	}
	s.log.Info().Str("mentorship_id", id).Str("user_id", callerID).Msg("mentorship deleted")
	return nil
}

func (s *MentorshipService) List(ctx context.Context, filter models.MentorshipFilter) ([]models.MentorshipView, error) {
	views, err := s.mentorships.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list mentorships: %w", err)
	}
	return views, nil
}

// Get returns the mentorship when callerID is one of its parties.
func (s *MentorshipService) Get(ctx context.Context, id, callerID string) (models.Mentorship, error) {
	return s.loadForParty(ctx, id, callerID)
}

func (s *MentorshipService) loadForParty(ctx context.Context, id, callerID string) (models.Mentorship, error) {
	mentorship, err := s.mentorships.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMentorshipNotFound) {
			return models.Mentorship{}, apperrors.Wrap(apperrors.KindNotFound, err, msgMentorshipMissing)
		}
		return models.Mentorship{}, fmt.Errorf("load mentorship: %w", err)
	}
	if !mentorship.HasParty(callerID) {
		return models.Mentorship{}, apperrors.Forbidden(msgNotParty)
	}
	return mentorship, nil
}

func (s *MentorshipService) transition(ctx context.Context, mentorship models.Mentorship, target models.MentorshipStatus, actorID string) (models.Mentorship, error) {
	if !mentorship.Status.CanTransitionTo(target) {
		return models.Mentorship{}, invalidTransition(mentorship.Status, target)
	}

	updated, err := s.mentorships.UpdateStatus(ctx, mentorship.ID, mentorship.Status, target, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMentorshipNotFound):
			return models.Mentorship{}, apperrors.Wrap(apperrors.KindNotFound, err, msgMentorshipMissing)
		case errors.Is(err, repository.ErrStatusChanged):
			current, getErr := s.mentorships.GetByID(ctx, mentorship.ID)
			if getErr != nil {
				return models.Mentorship{}, apperrors.Wrap(apperrors.KindConflict, err, "Mentorship was modified concurrently")
			}
			return models.Mentorship{}, invalidTransition(current.Status, target)
		}
		return models.Mentorship{}, fmt.Errorf("update mentorship status: %w", err)
	}

	s.log.Info().
		Str("mentorship_id", updated.ID).
		Str("from", string(mentorship.Status)).
		Str("to", string(target)).
		Str("user_id", actorID).
		Msg("mentorship status changed")

	s.notifyTransition(ctx, updated, actorID)
	return updated, nil
}

func (s *MentorshipService) notifyTransition(ctx context.Context, mentorship models.Mentorship, actorID string) {
	recipient := mentorship.Counterparty(actorID)
	switch mentorship.Status {
	case models.MentorshipActive:
		s.notifier.Notify(ctx, recipient, models.NotificationMentorshipAccepted,
			"Mentorship accepted", "Your mentorship request was accepted", mentorship.ID)
	case models.MentorshipRejected:
		s.notifier.Notify(ctx, recipient, models.NotificationMentorshipRejected,
			"Mentorship declined", "Your mentorship request was declined", mentorship.ID)
	case models.MentorshipCompleted:
		s.notifier.Notify(ctx, recipient, models.NotificationMentorshipCompleted,
			"Mentorship completed", "Your mentorship was marked as completed", mentorship.ID)
	}
}

func invalidTransition(from, to models.MentorshipStatus) error {
	return apperrors.Conflict(fmt.Sprintf("Invalid status transition from %s to %s", from, to))
}
