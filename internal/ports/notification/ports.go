package notification

import (
	"context"
	"time"

	"ymate/internal/core/notification"

	"github.com/gofrs/uuid"
)

// PushGateway delivers one message to one device token.
type PushGateway interface {
	Send(ctx context.Context, token, title, body string) error
}

type HistoryRepository interface {
	Save(ctx context.Context, r *notification.Record) error
	// FindByUser returns the user's records, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*notification.Record, error)
}

// Queue carries messages from the lifecycle engine to the delivery worker.
// Dequeue returns (nil, nil) when nothing arrived within timeout.
type Queue interface {
	Enqueue(ctx context.Context, msg notification.Message) error
	Dequeue(ctx context.Context, timeout time.Duration) (*notification.Message, error)
}

type RecordDTO struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	TargetID  string    `json:"target_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
