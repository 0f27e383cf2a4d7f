// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-user-accounts/internal/logger"
	"github.com/MKhiriev/go-user-accounts/internal/mailer"
)

// MailDispatcher delivers queued email messages in the background.
// Enqueue never blocks the caller: when the queue is full the message
// is dropped and an error is logged.
type MailDispatcher struct {
	sender mailer.Sender
	queue  chan mailer.Message
	logger *logger.Logger
}

func NewMailDispatcher(sender mailer.Sender, queueSize int, log *logger.Logger) *MailDispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}

	l := log.GetChildLogger()
	l.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("worker", "mail-dispatcher")
	})

	return &MailDispatcher{
		sender: sender,
		queue:  make(chan mailer.Message, queueSize),
		logger: l,
	}
}

// Enqueue schedules a message for delivery.
func (d *MailDispatcher) Enqueue(msg mailer.Message) {
	select {
	case d.queue <- msg:
	default:
		d.logger.Error().
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Msg("mail queue is full, message dropped")
	}
}

// Run starts the delivery loop in a separate goroutine.
// The loop exits when Close is called and the queue is drained.
func (d *MailDispatcher) Run() {
	go func() {
		for msg := range d.queue {
			if err := d.sender.Send(msg); err != nil {
				d.logger.Error().Err(err).
					Str("to", msg.To).
					Str("subject", msg.Subject).
					Msg("mail delivery failed")
				continue
			}

			d.logger.Debug().
				Str("to", msg.To).
				Str("subject", msg.Subject).
				Msg("mail delivered")
		}
	}()
}

// Close stops accepting new messages. Messages already queued
// are still delivered by the running loop.
func (d *MailDispatcher) Close() {
	close(d.queue)
}
