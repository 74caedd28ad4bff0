// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify relays contact form messages to the site owner. Delivery is
// best effort: failures are logged and counted, never surfaced to the sender.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"portfolio/internal/metrics"
	"portfolio/internal/models"
)

// DefaultTimeout bounds a single delivery attempt.
const DefaultTimeout = 15 * time.Second

// Notifier delivers a stored contact message.
type Notifier interface {
	Notify(ctx context.Context, msg models.Message) error
}

// Noop discards notifications. Used when SMTP is not configured.
type Noop struct{}

func (Noop) Notify(context.Context, models.Message) error { return nil }

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// SMTP sends notifications through an SMTP relay with go-mail.
type SMTP struct {
	client *mail.Client
	from   string
	to     string
}

// NewSMTP builds the relay client. Authentication is enabled when a
// username is set; TLS is used when the server offers it.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(DefaultTimeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	from := cfg.From
	if from == "" {
		from = cfg.To
	}
	return &SMTP{client: client, from: from, to: cfg.To}, nil
}

// Notify implements Notifier.
func (s *SMTP) Notify(ctx context.Context, msg models.Message) error {
	m, err := compose(s.from, s.to, msg)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// compose builds the notification mail. Replies go to the sender.
func compose(from, to string, msg models.Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("notify from: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("notify to: %w", err)
	}
	if err := m.ReplyTo(msg.Email); err != nil {
		return nil, fmt.Errorf("notify reply-to: %w", err)
	}
	m.Subject("Portfolio contact: " + oneLine(msg.Name))
	m.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"From: %s <%s>\nReceived: %s\n\n%s\n",
		msg.Name, msg.Email, msg.CreatedAt.Format(time.RFC1123), msg.Message,
	))
	return m, nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Go delivers msg on its own goroutine with a fresh context bounded by
// timeout, so the caller's request may finish first. The returned channel
// is closed when the attempt is over.
func Go(n Notifier, msg models.Message, timeout time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := n.Notify(ctx, msg); err != nil {
			metrics.Notifications.WithLabelValues("failed").Inc()
			slog.Warn("contact notification failed", "message_id", msg.ID, "error", err)
			return
		}
		metrics.Notifications.WithLabelValues("sent").Inc()
	}()
	return done
}
