package notifier

import (
	"context"
	"fmt"
	"strings"

	"stockwatch/pkg/logger"
)

// Notifier delivers a rendered alert to its recipient.
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}

// Channel is a named delivery channel.
type Channel interface {
	Notifier
	Name() string
}

// Multi fans an alert out to every configured channel. Delivery counts as
// confirmed when at least one channel succeeded; per-channel failures are
// logged either way.
type Multi struct {
	channels []Channel
	log      *logger.Logger
}

// NewMulti creates a multi-channel notifier.
func NewMulti(log *logger.Logger, channels ...Channel) *Multi {
	return &Multi{channels: channels, log: log}
}

func (m *Multi) Send(ctx context.Context, subject, body string) error {
	if len(m.channels) == 0 {
		return fmt.Errorf("no notification channels configured")
	}

	var failures []string
	delivered := 0
	for _, ch := range m.channels {
		if err := ch.Send(ctx, subject, body); err != nil {
			m.log.ErrorContext(ctx, "Notification channel failed",
				logger.StringField("channel", ch.Name()),
				logger.ErrorField(err))
			failures = append(failures, fmt.Sprintf("%s: %v", ch.Name(), err))
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return fmt.Errorf("all notification channels failed: %s", strings.Join(failures, "; "))
	}
	return nil
}
