package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"alumniconnect/internal/models"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

const notificationColumns = `id, user_id, kind, title, body, ref_id, is_read, created_at`

func notificationDest(n *models.Notification) []any {
	return []any{
		&n.ID,
		&n.UserID,
		&n.Kind,
		&n.Title,
		&n.Body,
		&n.RefID,
		&n.IsRead,
		&n.CreatedAt,
	}
}

// Create ignores a repeated id so redelivered stream entries stay single.
func (r *NotificationRepository) Create(ctx context.Context, notification models.Notification) error {
	const query = `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Kind,
		notification.Title,
		notification.Body,
		notification.RefID,
		notification.IsRead,
		notification.CreatedAt,
	)
	return err
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (models.Notification, error) {
	const query = `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	var n models.Notification
	if err := r.pool.QueryRow(ctx, query, id).Scan(notificationDest(&n)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Notification{}, ErrNotificationNotFound
		}
		return models.Notification{}, err
	}
	return n, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	const query = `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(notificationDest(&n)...); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) (models.Notification, error) {
	const query = `UPDATE notifications SET is_read = TRUE WHERE id = $1 RETURNING ` + notificationColumns

	var n models.Notification
	if err := r.pool.QueryRow(ctx, query, id).Scan(notificationDest(&n)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Notification{}, ErrNotificationNotFound
		}
		return models.Notification{}, err
	}
	return n, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
