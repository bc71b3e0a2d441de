package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"stockwatch/internal/config"
)

// EmailNotifier delivers alerts over SMTP to the configured recipient.
// Port 465 uses implicit TLS; anything else negotiates STARTTLS when the
// server offers it.
type EmailNotifier struct {
	cfg         config.SMTP
	dialTimeout time.Duration
}

// NewEmailNotifier creates an SMTP-backed notifier.
func NewEmailNotifier(cfg config.SMTP) *EmailNotifier {
	return &EmailNotifier{
		cfg:         cfg,
		dialTimeout: 10 * time.Second,
	}
}

func (e *EmailNotifier) Name() string {
	return "email"
}

func (e *EmailNotifier) Send(ctx context.Context, subject, body string) error {
	if e.cfg.Host == "" || e.cfg.From == "" || e.cfg.To == "" {
		return fmt.Errorf("smtp notifier is not configured")
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		e.cfg.From, e.cfg.To, subject, body)

	addr := fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)

	var auth smtp.Auth
	if e.cfg.Username != "" && e.cfg.Password != "" {
		auth = smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	}

	// Deadline bounds the whole SMTP exchange so one stalled server
	// cannot block the monitor cycle.
	deadline := time.Now().Add(e.dialTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if e.cfg.Port == 465 {
		return e.sendImplicitTLS(addr, auth, msg, deadline)
	}
	return e.sendStartTLS(addr, auth, msg, deadline)
}

func (e *EmailNotifier) sendStartTLS(addr string, auth smtp.Auth, msg string, deadline time.Time) error {
	conn, err := net.DialTimeout("tcp", addr, time.Until(deadline))
	if err != nil {
		return fmt.Errorf("smtp dial failed: %w", err)
	}
	_ = conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, e.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating smtp client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: e.cfg.Host}); err != nil {
			return fmt.Errorf("starttls failed: %w", err)
		}
	}

	return e.submit(client, auth, msg)
}

func (e *EmailNotifier) sendImplicitTLS(addr string, auth smtp.Auth, msg string, deadline time.Time) error {
	dialer := &net.Dialer{Deadline: deadline}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: e.cfg.Host})
	if err != nil {
		return fmt.Errorf("smtp tls dial failed: %w", err)
	}
	_ = conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, e.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating smtp client: %w", err)
	}
	defer client.Close()

	return e.submit(client, auth, msg)
}

func (e *EmailNotifier) submit(client *smtp.Client, auth smtp.Auth, msg string) error {
	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth failed: %w", err)
		}
	}
	if err := client.Mail(e.cfg.From); err != nil {
		return fmt.Errorf("smtp MAIL command failed: %w", err)
	}
	if err := client.Rcpt(e.cfg.To); err != nil {
		return fmt.Errorf("smtp RCPT command failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA command failed: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("writing email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing email body: %w", err)
	}

	return client.Quit()
}
