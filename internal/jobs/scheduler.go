package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"alumniconnect/internal/tasks"
)

type Enqueuer interface {
	Enqueue(ctx context.Context, task tasks.Task) error
}

// Scheduler enqueues periodic maintenance tasks. Specs use the seconds field.
type Scheduler struct {
	cron        *cron.Cron
	queue       Enqueuer
	cleanupSpec string
	log         zerolog.Logger
}

func NewScheduler(queue Enqueuer, cleanupSpec string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithSeconds()),
		queue:       queue,
		cleanupSpec: cleanupSpec,
		log:         log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cleanupSpec, s.enqueueSessionCleanup); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("cleanup_spec", s.cleanupSpec).Msg("scheduler started")
	return nil
}

// Stop waits for running jobs up to the context deadline.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) enqueueSessionCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.queue.Enqueue(ctx, tasks.NewSessionCleanupTask()); err != nil {
		s.log.Error().Err(err).Msg("enqueue session cleanup failed")
	}
}
