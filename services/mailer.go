package services

import (
	"bytes"
	"context"
	"errors"

	"imex-website/config"

	mail "github.com/go-mail/mail/v2"
)

// ErrMailNotConfigured is returned when SMTP_HOST or SMTP_FROM is missing.
var ErrMailNotConfigured = errors.New("smtp not configured (SMTP_HOST/SMTP_FROM)")

// Attachment is a file sent along with an email.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Email is a single HTML message.
type Email struct {
	To          []string
	ReplyTo     string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Mailer delivers emails.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// SMTPMailer sends mail through the configured SMTP relay.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	dialer *mail.Dialer
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, dialer: config.NewDialer(cfg)}
}

func (m *SMTPMailer) Send(ctx context.Context, email Email) error {
	if len(email.To) == 0 {
		return nil
	}
	if !m.cfg.Enabled() {
		return ErrMailNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.dialer.DialAndSend(buildMessage(m.cfg.From, email))
}

func buildMessage(from string, email Email) *mail.Message {
	msg := mail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", email.To...)
	if email.ReplyTo != "" {
		msg.SetHeader("Reply-To", email.ReplyTo)
	}
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/html", email.HTML)

	for _, att := range email.Attachments {
		var settings []mail.FileSetting
		if att.ContentType != "" {
			settings = append(settings, mail.SetHeader(map[string][]string{"Content-Type": {att.ContentType}}))
		}
		msg.AttachReader(att.FileName, bytes.NewReader(att.Data), settings...)
	}
	return msg
}
