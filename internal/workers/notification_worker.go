package workers

import (
	"context"
	"time"

	"ymate/internal/core/notification"
	notifPort "ymate/internal/ports/notification"

	"go.uber.org/zap"
)

// Deliverer sends one queued notification.
type Deliverer interface {
	Deliver(ctx context.Context, msg notification.Message) bool
}

type NotificationWorker struct {
	Queue       notifPort.Queue
	Deliverer   Deliverer
	PollTimeout time.Duration // مدت انتظار برای هر Dequeue
	Backoff     time.Duration
	Logger      *zap.Logger
}

func NewNotificationWorker(queue notifPort.Queue, deliverer Deliverer, pollTimeout time.Duration, logger *zap.Logger) *NotificationWorker {
	if pollTimeout <= 0 {
		pollTimeout = 5 * time.Second
	}
	return &NotificationWorker{
		Queue:       queue,
		Deliverer:   deliverer,
		PollTimeout: pollTimeout,
		Backoff:     time.Second,
		Logger:      logger,
	}
}

// Run گوش دادن به صف و ارسال اعلان‌ها تا زمانی که ctx لغو شود
func (w *NotificationWorker) Run(ctx context.Context) {
	w.Logger.Info("🚀 NotificationWorker started")
	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("🛑 Notification worker stopped")
			return
		default:
		}

		msg, err := w.Queue.Dequeue(ctx, w.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.Logger.Error("❌ Error reading notification queue", zap.Error(err))
			w.sleep(ctx, w.Backoff)
			continue
		}
		if msg == nil {
			continue
		}

		w.Logger.Debug("➡ Delivering notification",
			zap.String("recipient", msg.RecipientID.String()),
			zap.String("target", msg.TargetID.String()))
		w.Deliverer.Deliver(ctx, *msg)
	}
}

// Start runs the worker in its own goroutine. The returned channel is closed
// once Run has returned.
func (w *NotificationWorker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	return done
}

func (w *NotificationWorker) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
