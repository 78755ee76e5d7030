// Package service holds the business rules between handlers and repositories.
// Errors returned to handlers are *apperrors.Error or wrapped storage failures.
package service

import (
	"context"
	"time"

	"alumniconnect/internal/tasks"
)

// TaskQueue accepts background tasks: a Redis stream in production,
// an inline processor otherwise.
type TaskQueue interface {
	Enqueue(ctx context.Context, task tasks.Task) error
}

func systemClock() time.Time {
	return time.Now().UTC()
}
