package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"alumniconnect/internal/ids"
	"alumniconnect/internal/models"
	"alumniconnect/internal/tasks"
)

// Notifier turns domain events into notification tasks. Delivery is best
// effort: failures are logged and never fail the originating request.
type Notifier struct {
	queue TaskQueue
	now   func() time.Time
	log   zerolog.Logger
}

func NewNotifier(queue TaskQueue, log zerolog.Logger) *Notifier {
	return &Notifier{queue: queue, now: systemClock, log: log}
}

func (n *Notifier) Notify(ctx context.Context, userID string, kind models.NotificationKind, title, body, refID string) {
	if n == nil || n.queue == nil || userID == "" {
		return
	}

	task, err := tasks.NewNotificationTask(models.Notification{
		ID:        ids.New(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Body:      body,
		RefID:     refID,
		CreatedAt: n.now(),
	})
	if err == nil {
		err = n.queue.Enqueue(ctx, task)
	}
	if err != nil {
		n.log.Warn().Err(err).
			Str("user_id", userID).
			Str("kind", string(kind)).
			Msg("enqueue notification failed")
	}
}
