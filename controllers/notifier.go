package controllers

import (
	"context"

	"imex-website/metrics"
	"imex-website/services"

	"github.com/sirupsen/logrus"
)

// Notifier renders notification emails with the shared layout and sends them.
type Notifier struct {
	mailer    services.Mailer
	templates services.TemplateReader
	log       logrus.FieldLogger
}

func NewNotifier(mailer services.Mailer, templates services.TemplateReader, log logrus.FieldLogger) *Notifier {
	return &Notifier{mailer: mailer, templates: templates, log: log}
}

// Notification is one email waiting to be rendered.
type Notification struct {
	To          string
	ReplyTo     string
	Content     services.EmailContent
	Attachments []services.Attachment
}

// Deliver sends the notifications in order and stops at the first failure.
// The layout is read once per call and sending outlives a cancelled request.
// It returns how many emails went out.
func (n *Notifier) Deliver(ctx context.Context, kind string, notifications ...Notification) int {
	if len(notifications) == 0 {
		return 0
	}
	ctx = services.PersistentContext(ctx)
	entry := n.log.WithField("kind", kind)

	layout, err := n.templates.ReadFile(services.EmailLayoutTemplate)
	if err != nil {
		entry.WithError(err).Error("Notifier: read email layout")
		metrics.RecordEmailFailed(kind)
		return 0
	}

	sent := 0
	for _, item := range notifications {
		html, err := services.RenderEmail(layout, item.Content)
		if err != nil {
			entry.WithError(err).Error("Notifier: render email")
			metrics.RecordEmailFailed(kind)
			return sent
		}
		err = n.mailer.Send(ctx, services.Email{
			To:          []string{item.To},
			ReplyTo:     item.ReplyTo,
			Subject:     item.Content.Subject,
			HTML:        html,
			Attachments: item.Attachments,
		})
		if err != nil {
			entry.WithError(err).WithField("to", item.To).Error("Notifier: send email")
			metrics.RecordEmailFailed(kind)
			return sent
		}
		sent++
	}
	return sent
}
