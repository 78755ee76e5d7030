package service

import (
	"context"
	"errors"
	"fmt"

	"alumniconnect/internal/apperrors"
	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
)

const notificationPageSize = 100

type NotificationService struct {
	notifications repository.NotificationStore
	messages      repository.MessageStore
}

func NewNotificationService(notifications repository.NotificationStore, messages repository.MessageStore) *NotificationService {
	return &NotificationService{notifications: notifications, messages: messages}
}

type UnreadCounts struct {
	Messages      int `json:"messages"`
	Notifications int `json:"notifications"`
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	list, err := s.notifications.ListByUser(ctx, userID, notificationPageSize)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, callerID string) (models.Notification, error) {
	notification, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return models.Notification{}, apperrors.Wrap(apperrors.KindNotFound, err, "Notification not found")
		}
		return models.Notification{}, fmt.Errorf("load notification: %w", err)
	}
	if notification.UserID != callerID {
		return models.Notification{}, apperrors.Forbidden("Insufficient permissions")
	}
	if notification.IsRead {
		return notification, nil
	}
	return s.notifications.MarkRead(ctx, id)
}

func (s *NotificationService) Unread(ctx context.Context, userID string) (UnreadCounts, error) {
	messages, err := s.messages.CountUnread(ctx, userID)
	if err != nil {
		return UnreadCounts{}, fmt.Errorf("count unread messages: %w", err)
	}
	notifications, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return UnreadCounts{}, fmt.Errorf("count unread notifications: %w", err)
	}
	return UnreadCounts{Messages: messages, Notifications: notifications}, nil
}
