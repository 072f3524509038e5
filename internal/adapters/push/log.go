package push

import (
	"context"

	"go.uber.org/zap"
)

// LogGateway only logs. It is used when no FCM server key is configured.
type LogGateway struct {
	Logger *zap.Logger
}

func NewLogGateway(logger *zap.Logger) *LogGateway {
	return &LogGateway{Logger: logger}
}

func (g *LogGateway) Send(_ context.Context, token, title, body string) error {
	g.Logger.Info("📨 push (log only)", zap.String("token", token), zap.String("title", title), zap.String("body", body))
	return nil
}
