package config

import (
	"crypto/tls"

	mail "github.com/go-mail/mail/v2"
)

// NewDialer builds the SMTP dialer used by the mail service.
func NewDialer(cfg SMTPConfig) *mail.Dialer {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)

	// Mandatory STARTTLS on 587 (Gmail / Office365).
	d.StartTLSPolicy = mail.MandatoryStartTLS

	// ServerName must match the SMTP hostname unless verification is skipped (dev only).
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.SkipTLSVerify,
	}

	return d
}
