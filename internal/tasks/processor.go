package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
)

const (
	TypeNotification   = "notification"
	TypeSessionCleanup = "session_cleanup"
)

// Task is the unit carried on the stream. Payload is type-specific JSON.
type Task struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewNotificationTask(notification models.Notification) (Task, error) {
	payload, err := json.Marshal(notification)
	if err != nil {
		return Task{}, fmt.Errorf("encode notification: %w", err)
	}
	return Task{Type: TypeNotification, Payload: payload}, nil
}

func NewSessionCleanupTask() Task {
	return Task{Type: TypeSessionCleanup}
}

// Values flattens the task into stream entry fields.
func (t Task) Values() map[string]any {
	values := map[string]any{"type": t.Type}
	if len(t.Payload) > 0 {
		values["payload"] = string(t.Payload)
	}
	return values
}

func Decode(values map[string]any) (Task, error) {
	taskType, _ := values["type"].(string)
	if taskType == "" {
		return Task{}, errors.New("task type missing")
	}
	task := Task{Type: taskType}
	if raw, ok := values["payload"].(string); ok && raw != "" {
		if !json.Valid([]byte(raw)) {
			return Task{}, errors.New("task payload is not valid json")
		}
		task.Payload = json.RawMessage(raw)
	}
	return task, nil
}

type Processor struct {
	notifications repository.NotificationStore
	sessions      repository.SessionStore
	now           func() time.Time
	logger        zerolog.Logger
}

func NewProcessor(notifications repository.NotificationStore, sessions repository.SessionStore, logger zerolog.Logger) *Processor {
	return &Processor{
		notifications: notifications,
		sessions:      sessions,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        logger,
	}
}

// Handle adapts a stream entry for the queue consumer.
func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	task, err := Decode(msg.Values)
	if err != nil {
		return fmt.Errorf("decode task %s: %w", msg.ID, err)
	}
	return p.Process(ctx, task)
}

func (p *Processor) Process(ctx context.Context, task Task) error {
	switch task.Type {
	case TypeNotification:
		return p.handleNotification(ctx, task)
	case TypeSessionCleanup:
		return p.handleSessionCleanup(ctx)
	default:
		p.logger.Warn().Str("type", task.Type).Msg("unknown task type")
		return nil
	}
}

func (p *Processor) handleNotification(ctx context.Context, task Task) error {
	var notification models.Notification
	if err := json.Unmarshal(task.Payload, &notification); err != nil {
		return fmt.Errorf("decode notification: %w", err)
	}
	if notification.ID == "" || notification.UserID == "" {
		return errors.New("notification id and user id are required")
	}
	if err := p.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	p.logger.Debug().
		Str("notification_id", notification.ID).
		Str("user_id", notification.UserID).
		Str("kind", string(notification.Kind)).
		Msg("notification stored")
	return nil
}

func (p *Processor) handleSessionCleanup(ctx context.Context) error {
	removed, err := p.sessions.DeleteExpired(ctx, p.now())
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	p.logger.Info().Int64("removed", removed).Msg("expired sessions cleaned up")
	return nil
}
