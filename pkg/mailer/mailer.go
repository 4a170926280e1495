// Package mailer sends transactional email over SMTP. Without an SMTP host
// messages are logged and dropped.
package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"anoa.com/recipemarket/pkg/logger"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// New returns an SMTP mailer, or a logging one when cfg.Host is empty.
func New(cfg Config) Mailer {
	if cfg.Host == "" {
		return logMailer{}
	}
	return &smtpMailer{cfg: cfg}
}

type smtpMailer struct {
	cfg Config
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{msg.To}, Build(m.cfg.From, msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}

// Build renders msg as a plain-text RFC 5322 message.
func Build(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

type logMailer struct{}

func (logMailer) Send(ctx context.Context, msg Message) error {
	logger.Ctx(ctx).Warn().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("SMTP is not configured, email not sent")
	logger.Ctx(ctx).Debug().Str("to", msg.To).Str("body", msg.Body).Msg("unsent email body")
	return nil
}
