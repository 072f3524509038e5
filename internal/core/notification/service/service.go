package notificationapp

import (
	"context"
	"time"

	"ymate/internal/core/errs"
	"ymate/internal/core/notification"
	"ymate/internal/metrics"
	notifPort "ymate/internal/ports/notification"
	userPort "ymate/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const defaultEnqueueTimeout = 2 * time.Second

// Dispatcher هم صف اعلان‌ها را پر می‌کند و هم اعلان‌ها را ارسال می‌کند.
// Nothing here ever fails the operation that triggered a notification.
type Dispatcher struct {
	Queue          notifPort.Queue
	Gateway        notifPort.PushGateway
	Records        notifPort.HistoryRepository
	UserRepository userPort.UserRepository
	Logger         *zap.Logger
	EnqueueTimeout time.Duration
}

func NewDispatcher(
	queue notifPort.Queue,
	gateway notifPort.PushGateway,
	history notifPort.HistoryRepository,
	userRepo userPort.UserRepository,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		Queue:          queue,
		Gateway:        gateway,
		Records:        history,
		UserRepository: userRepo,
		Logger:         logger,
		EnqueueTimeout: defaultEnqueueTimeout,
	}
}

// Notify hands msg to the queue. It is called after the triggering
// transaction committed and is bounded by EnqueueTimeout even when the
// caller's request context is already gone.
func (d *Dispatcher) Notify(ctx context.Context, msg notification.Message) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.EnqueueTimeout)
	defer cancel()

	if err := d.Queue.Enqueue(ctx, msg); err != nil {
		metrics.Notifications.WithLabelValues("enqueue", "failed").Inc()
		d.Logger.Warn("⚠️ could not enqueue notification",
			zap.String("recipient", msg.RecipientID.String()),
			zap.String("target", msg.TargetID.String()),
			zap.Error(err))
		return
	}
	metrics.Notifications.WithLabelValues("enqueue", "ok").Inc()
}

// Deliver sends msg to the recipient's device and records it. It reports
// whether a record was written; failures are logged and dropped.
func (d *Dispatcher) Deliver(ctx context.Context, msg notification.Message) bool {
	log := d.Logger.With(
		zap.String("recipient", msg.RecipientID.String()),
		zap.String("target", msg.TargetID.String()))

	u, err := d.UserRepository.FindByID(ctx, msg.RecipientID)
	if err != nil {
		return d.fail(log, "failed", "❌ could not load recipient", err)
	}
	if u == nil {
		return d.fail(log, "skipped", "⚠️ recipient does not exist", nil)
	}
	if u.PushToken == "" {
		return d.fail(log, "skipped", "⚠️ recipient has no push token", nil)
	}

	if err := d.Gateway.Send(ctx, u.PushToken, msg.Title, msg.Body); err != nil {
		return d.fail(log, "failed", "❌ push gateway rejected notification", err)
	}

	rec := &notification.Record{
		ID:       uuid.Must(uuid.NewV4()),
		UserID:   u.ID,
		Type:     msg.Type,
		TargetID: msg.TargetID,
		Title:    msg.Title,
		Body:     msg.Body,
	}
	if err := d.Records.Save(ctx, rec); err != nil {
		return d.fail(log, "failed", "❌ could not save notification record", err)
	}

	metrics.Notifications.WithLabelValues("deliver", "ok").Inc()
	log.Info("✅ notification delivered", zap.String("record", rec.ID.String()))
	return true
}

func (d *Dispatcher) fail(log *zap.Logger, result, msg string, err error) bool {
	metrics.Notifications.WithLabelValues("deliver", result).Inc()
	if err != nil {
		log.Warn(msg, zap.Error(err))
	} else {
		log.Info(msg)
	}
	return false
}

// History returns the notifications delivered to a student, newest first.
func (d *Dispatcher) History(ctx context.Context, studentID int64) ([]*notifPort.RecordDTO, error) {
	u, err := d.UserRepository.FindByStudentID(ctx, studentID)
	if err != nil {
		d.Logger.Error("❌ could not load user", zap.Int64("studentID", studentID), zap.Error(err))
		return nil, errs.Internalize(err)
	}
	if u == nil {
		return nil, errs.MemberNotFound()
	}

	records, err := d.Records.FindByUser(ctx, u.ID)
	if err != nil {
		d.Logger.Error("❌ could not load notification history", zap.Int64("studentID", studentID), zap.Error(err))
		return nil, errs.Internalize(err)
	}

	out := make([]*notifPort.RecordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, &notifPort.RecordDTO{
			ID:        r.ID.String(),
			Type:      r.Type,
			TargetID:  r.TargetID.String(),
			Title:     r.Title,
			Body:      r.Body,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}
