package memory

import (
	"context"
	"sort"

	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
)

type MessageRepository struct {
	db *DB
}

func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(_ context.Context, message models.Message) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.messages[message.ID] = message
	return nil
}

func (r *MessageRepository) GetByID(_ context.Context, id string) (models.Message, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	m, ok := r.db.messages[id]
	if !ok {
		return models.Message{}, repository.ErrMessageNotFound
	}
	return m, nil
}

func (r *MessageRepository) ListByMentorship(_ context.Context, mentorshipID string) ([]models.MessageView, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	views := make([]models.MessageView, 0)
	for _, m := range r.db.messages {
		if m.MentorshipID != mentorshipID {
			continue
		}
		sender, ok := r.db.summary(m.SenderID)
		if !ok {
			continue
		}
		receiver, ok := r.db.summary(m.ReceiverID)
		if !ok {
			continue
		}
		views = append(views, models.MessageView{Message: m, Sender: sender, Receiver: receiver})
	}
	sort.Slice(views, func(i, j int) bool {
		if !views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].CreatedAt.Before(views[j].CreatedAt)
		}
		return views[i].ID < views[j].ID
	})
	return views, nil
}

func (r *MessageRepository) MarkRead(_ context.Context, id string) (models.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	m, ok := r.db.messages[id]
	if !ok {
		return models.Message{}, repository.ErrMessageNotFound
	}
	m.IsRead = true
	r.db.messages[id] = m
	return m, nil
}

func (r *MessageRepository) CountUnread(_ context.Context, receiverID string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, m := range r.db.messages {
		if m.ReceiverID == receiverID && !m.IsRead {
			count++
		}
	}
	return count, nil
}
