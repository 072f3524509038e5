package memory

import (
	"context"
	"errors"
	"time"

	"ymate/internal/core/notification"
)

var ErrQueueFull = errors.New("notification queue is full")

// Queue is a bounded channel queue. Enqueue never blocks.
type Queue struct {
	ch chan notification.Message
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 1024
	}
	return &Queue{ch: make(chan notification.Message, size)}
}

func (q *Queue) Enqueue(ctx context.Context, msg notification.Message) error {
	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*notification.Message, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case msg := <-q.ch:
		return &msg, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *Queue) Len() int { return len(q.ch) }
