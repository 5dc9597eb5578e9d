// Package notify fans dispatch notifications out to email, MQTT and Telegram.
// Every channel picks the parts of a Notification it understands and ignores
// the rest.
package notify

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

type Notification struct {
	Subject string // email subject; mail is skipped without one
	Text    string // plain body for email and chat
	HTML    string // optional email body
	Topic   string // MQTT topic; publishing is skipped without one
	Payload []byte
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type Nop struct{}

func (Nop) Notify(context.Context, Notification) error { return nil }

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

const asyncTimeout = 15 * time.Second

// Async sends n in the background. Failures are logged and dropped; the
// request that triggered the notification has already succeeded.
func Async(log *zap.Logger, notifier Notifier, n Notification) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()
		if err := notifier.Notify(ctx, n); err != nil {
			log.Warn("Notification failed",
				zap.String("subject", n.Subject),
				zap.String("topic", n.Topic),
				zap.Error(err),
			)
		}
	}()
	return done
}
