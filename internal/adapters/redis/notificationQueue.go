package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ymate/internal/core/notification"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultQueueKey لیستی که پیام‌های اعلان در آن صف می‌شوند
const DefaultQueueKey = "notifications:pending"

// NotificationQueueRedis is a FIFO queue on a Redis list: RPUSH to enqueue,
// BLPOP to dequeue.
type NotificationQueueRedis struct {
	Client *redis.Client
	Key    string
	Logger *zap.Logger
}

func NewNotificationQueueRedis(client *redis.Client, logger *zap.Logger) *NotificationQueueRedis {
	return &NotificationQueueRedis{
		Client: client,
		Key:    DefaultQueueKey,
		Logger: logger,
	}
}

func (q *NotificationQueueRedis) Enqueue(ctx context.Context, msg notification.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := q.Client.RPush(ctx, q.Key, payload).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", q.Key, err)
	}
	q.Logger.Debug("Queued notification", zap.String("key", q.Key), zap.String("recipient", msg.RecipientID.String()))
	return nil
}

// Dequeue blocks for at most timeout. It returns (nil, nil) when the list
// stayed empty.
func (q *NotificationQueueRedis) Dequeue(ctx context.Context, timeout time.Duration) (*notification.Message, error) {
	res, err := q.Client.BLPop(ctx, timeout, q.Key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("blpop %s: %w", q.Key, err)
	}
	// BLPOP replies with [key, value]
	if len(res) != 2 {
		return nil, fmt.Errorf("blpop %s: unexpected reply of %d elements", q.Key, len(res))
	}
	return decodeMessage(res[1])
}

func decodeMessage(raw string) (*notification.Message, error) {
	var msg notification.Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}
	return &msg, nil
}
