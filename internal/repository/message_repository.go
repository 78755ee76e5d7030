package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"alumniconnect/internal/models"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

const messageColumns = `id, mentorship_id, sender_id, receiver_id, content, message_type, is_read, created_at`

func messageDest(m *models.Message) []any {
	return []any{
		&m.ID,
		&m.MentorshipID,
		&m.SenderID,
		&m.ReceiverID,
		&m.Content,
		&m.MessageType,
		&m.IsRead,
		&m.CreatedAt,
	}
}

func (r *MessageRepository) Create(ctx context.Context, message models.Message) error {
	const query = `
		INSERT INTO messages (
			id, mentorship_id, sender_id, receiver_id, content, message_type, is_read, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.MentorshipID,
		message.SenderID,
		message.ReceiverID,
		message.Content,
		message.MessageType,
		message.IsRead,
		message.CreatedAt,
	)
	return err
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (models.Message, error) {
	const query = `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`

	var m models.Message
	if err := r.pool.QueryRow(ctx, query, id).Scan(messageDest(&m)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Message{}, ErrMessageNotFound
		}
		return models.Message{}, err
	}
	return m, nil
}

// ListByMentorship returns the conversation oldest first; id breaks timestamp ties.
func (r *MessageRepository) ListByMentorship(ctx context.Context, mentorshipID string) ([]models.MessageView, error) {
	cols := []string{
		"m.id", "m.mentorship_id", "m.sender_id", "m.receiver_id",
		"m.content", "m.message_type", "m.is_read", "m.created_at",
	}
	cols = append(cols, summaryColumns("s")...)
	cols = append(cols, summaryColumns("rc")...)

	query, args, err := psql.Select(cols...).
		From("messages m").
		Join("users s ON s.id = m.sender_id").
		Join("users rc ON rc.id = m.receiver_id").
		Where("m.mentorship_id = ?", mentorshipID).
		OrderBy("m.created_at ASC", "m.id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]models.MessageView, 0)
	for rows.Next() {
		var view models.MessageView
		dest := messageDest(&view.Message)
		dest = append(dest, summaryDest(&view.Sender)...)
		dest = append(dest, summaryDest(&view.Receiver)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

func (r *MessageRepository) MarkRead(ctx context.Context, id string) (models.Message, error) {
	const query = `UPDATE messages SET is_read = TRUE WHERE id = $1 RETURNING ` + messageColumns

	var m models.Message
	if err := r.pool.QueryRow(ctx, query, id).Scan(messageDest(&m)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Message{}, ErrMessageNotFound
		}
		return models.Message{}, err
	}
	return m, nil
}

func (r *MessageRepository) CountUnread(ctx context.Context, receiverID string) (int, error) {
	const query = `SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND NOT is_read`
	var count int
	if err := r.pool.QueryRow(ctx, query, receiverID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
