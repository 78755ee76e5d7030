package memory

import (
	"context"
	"time"

	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
)

type NotificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(_ context.Context, notification models.Notification) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.db.notifications[notification.ID]; exists {
		return nil
	}
	r.db.notifications[notification.ID] = notification
	return nil
}

func (r *NotificationRepository) GetByID(_ context.Context, id string) (models.Notification, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n, ok := r.db.notifications[id]
	if !ok {
		return models.Notification{}, repository.ErrNotificationNotFound
	}
	return n, nil
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID string, limit int) ([]models.Notification, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	notifications := make([]models.Notification, 0)
	for _, n := range r.db.notifications {
		if n.UserID == userID {
			notifications = append(notifications, n)
		}
	}
	sortNewestFirst(notifications, func(n models.Notification) (time.Time, string) { return n.CreatedAt, n.ID })
	if limit > 0 && len(notifications) > limit {
		notifications = notifications[:limit]
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id string) (models.Notification, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n, ok := r.db.notifications[id]
	if !ok {
		return models.Notification{}, repository.ErrNotificationNotFound
	}
	n.IsRead = true
	r.db.notifications[id] = n
	return n, nil
}

func (r *NotificationRepository) CountUnread(_ context.Context, userID string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, n := range r.db.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
