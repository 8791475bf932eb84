package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Log writes digests to the application log. Used when no chat is configured.
type Log struct {
	log *logrus.Logger
}

func NewLog(log *logrus.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Notify(_ context.Context, text string) error {
	l.log.WithField("digest", text).Info("reminder digest")
	return nil
}
