package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers a message to a recipient outside the chat. Failures are
// handler-local concerns; the pipeline core never depends on delivery.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// Log is a Notifier that only records the notification. Used when no real
// channel is configured.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	if log == nil {
		log = zap.NewNop()
	}
	return &Log{log: log}
}

func (l *Log) Send(_ context.Context, recipient, subject, _ string) error {
	l.log.Info("notification suppressed (no channel configured)",
		zap.String("recipient", recipient),
		zap.String("subject", subject))
	return nil
}
