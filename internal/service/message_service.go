package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"alumniconnect/internal/apperrors"
	"alumniconnect/internal/ids"
	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
)

const MaxMessageLength = 5000

// MessagePublisher pushes new messages to live subscribers of a mentorship.
type MessagePublisher interface {
	Publish(mentorshipID string, message models.MessageView)
}

type MessageService struct {
	users       repository.UserStore
	mentorships repository.MentorshipStore
	messages    repository.MessageStore
	publisher   MessagePublisher
	notifier    *Notifier
	now         func() time.Time
	log         zerolog.Logger
}

func NewMessageService(
	users repository.UserStore,
	mentorships repository.MentorshipStore,
	messages repository.MessageStore,
	publisher MessagePublisher,
	notifier *Notifier,
	log zerolog.Logger,
) *MessageService {
	return &MessageService{
		users:       users,
		mentorships: mentorships,
		messages:    messages,
		publisher:   publisher,
		notifier:    notifier,
		now:         systemClock,
		log:         log,
	}
}

type SendMessageInput struct {
	MentorshipID string
	SenderID     string
	ReceiverID   string
	Content      string
}

func (s *MessageService) Send(ctx context.Context, input SendMessageInput) (models.Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" || input.ReceiverID == "" {
		return models.Message{}, apperrors.Validation("Content and receiverId are required")
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return models.Message{}, apperrors.Validation(fmt.Sprintf("Message content must be at most %d characters", MaxMessageLength))
	}

	mentorship, err := s.loadForParty(ctx, input.MentorshipID, input.SenderID)
	if err != nil {
		return models.Message{}, err
	}
	if input.ReceiverID != mentorship.Counterparty(input.SenderID) {
		return models.Message{}, apperrors.Validation("receiverId must be the other participant of this mentorship")
	}

	message := models.Message{
		ID:           ids.New(),
		MentorshipID: mentorship.ID,
		SenderID:     input.SenderID,
		ReceiverID:   input.ReceiverID,
		Content:      content,
		MessageType:  models.MessageTypeText,
		IsRead:       false,
		CreatedAt:    s.now(),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return models.Message{}, fmt.Errorf("create message: %w", err)
	}

	s.log.Debug().
		Str("message_id", message.ID).
		Str("mentorship_id", mentorship.ID).
		Str("user_id", message.SenderID).
		Msg("message sent")

	sender, senderErr := s.users.GetByID(ctx, message.SenderID)
	receiver, receiverErr := s.users.GetByID(ctx, message.ReceiverID)
	if senderErr == nil && receiverErr == nil {
		if s.publisher != nil {
			s.publisher.Publish(mentorship.ID, models.MessageView{
				Message:  message,
				Sender:   sender.Summary(),
				Receiver: receiver.Summary(),
			})
		}
		s.notifier.Notify(ctx, message.ReceiverID, models.NotificationMessageReceived,
			"New message",
			fmt.Sprintf("%s sent you a message", sender.FullName),
			mentorship.ID,
		)
	} else {
		s.log.Warn().Err(errors.Join(senderErr, receiverErr)).Str("message_id", message.ID).Msg("load message parties failed")
	}

	return message, nil
}

func (s *MessageService) List(ctx context.Context, mentorshipID, callerID string) ([]models.MessageView, error) {
	if _, err := s.loadForParty(ctx, mentorshipID, callerID); err != nil {
		return nil, err
	}
	views, err := s.messages.ListByMentorship(ctx, mentorshipID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return views, nil
}

// MarkRead is idempotent; only the receiver may mark a message.
func (s *MessageService) MarkRead(ctx context.Context, id, callerID string) (models.Message, error) {
	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return models.Message{}, apperrors.Wrap(apperrors.KindNotFound, err, "Message not found")
		}
		return models.Message{}, fmt.Errorf("load message: %w", err)
	}
	if message.ReceiverID != callerID {
		return models.Message{}, apperrors.Forbidden("Only the receiver can mark a message as read")
	}
	if message.IsRead {
		return message, nil
	}

	updated, err := s.messages.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return models.Message{}, apperrors.Wrap(apperrors.KindNotFound, err, "Message not found")
		}
		return models.Message{}, fmt.Errorf("mark message read: %w", err)
	}
	return updated, nil
}

func (s *MessageService) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := s.messages.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return count, nil
}

func (s *MessageService) loadForParty(ctx context.Context, mentorshipID, callerID string) (models.Mentorship, error) {
	mentorship, err := s.mentorships.GetByID(ctx, mentorshipID)
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
