package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"alumniconnect/internal/tasks"
)

// streamMaxLen caps the stream; trimming is approximate.
const streamMaxLen = 100_000

type StreamProducer struct {
	client *redis.Client
	stream string
}

func NewStreamProducer(client *redis.Client, stream string) *StreamProducer {
	return &StreamProducer{client: client, stream: stream}
}

func (p *StreamProducer) Enqueue(ctx context.Context, task tasks.Task) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: task.Values(),
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

type TaskProcessor interface {
	Process(ctx context.Context, task tasks.Task) error
}

// InlineProducer runs tasks synchronously when no stream is configured.
type InlineProducer struct {
	processor TaskProcessor
}

func NewInlineProducer(processor TaskProcessor) *InlineProducer {
	return &InlineProducer{processor: processor}
}

func (p *InlineProducer) Enqueue(ctx context.Context, task tasks.Task) error {
	return p.processor.Process(ctx, task)
}
