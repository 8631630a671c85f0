package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Log is the local development Notifier. It records what would have been
// sent and never touches the network.
type Log struct {
	Logger logrus.FieldLogger
}

func (l *Log) Send(_ context.Context, title, message string, priority Priority) error {
	logger := l.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	logger.WithFields(logrus.Fields{
		"title":    title,
		"message":  message,
		"priority": priority.String(),
	}).Info("Notification generated (local dev, not delivered)")

	return nil
}
