package worker

import (
	"go.uber.org/zap"
)

// Subscriber attaches its handlers to the event dispatcher.
type Subscriber interface {
	RegisterHandlers()
}

// StartNotificationWorker registers notification and audit handlers and returns how many
// subscribers were called. Nil interface values are skipped; a typed nil service is called
// and must treat a nil receiver as a no-op.
func StartNotificationWorker(logger *zap.Logger, subscribers ...Subscriber) int {
	registered := 0
	for _, s := range subscribers {
		if s == nil {
			continue
		}
		s.RegisterHandlers()
		registered++
	}
	if logger != nil {
		logger.Info("event subscribers registered", zap.Int("count", registered))
	}
	return registered
}
