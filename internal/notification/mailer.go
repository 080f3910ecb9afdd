// Package notification sends payment confirmation emails to the customer and
// the merchant after an order has been reconciled. Per-recipient sent flags on
// the order make dispatch idempotent across retries and reprocessed messages.
package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/orderdesk/etransfer/internal/errors"
)

// Mailer sends a single plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the envelope and header sender address.
	From string
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	config SMTPConfig
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	return &SMTPMailer{config: config}
}

// Send delivers one message. The context is checked before dialing; net/smtp
// does not support mid-send cancellation.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.config.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg.String())); err != nil {
		return errors.Wrap(err, "failed to send mail")
	}
	return nil
}
