package controllers

import (
	"fmt"
	"strings"

	"imex-website/metrics"
	"imex-website/models"
	"imex-website/repository"
	"imex-website/services"
	"imex-website/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	messageSentMessage   = "Mesajul tău a fost trimis cu succes!"
	messageFailedMessage = "Mesajul nu a putut fi trimis. Te rugăm să încerci din nou."
)

type ContactController struct {
	messages   repository.MessageRepository
	notifier   *Notifier
	adminEmail string
	baseURL    string
	log        logrus.FieldLogger
}

func NewContactController(messages repository.MessageRepository, notifier *Notifier, adminEmail, baseURL string, log logrus.FieldLogger) *ContactController {
	return &ContactController{
		messages:   messages,
		notifier:   notifier,
		adminEmail: adminEmail,
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
	}
}

// ContactPage is the model of the contact form.
type ContactPage struct {
	Form models.Message
}

func (h *ContactController) Show(c *gin.Context) {
	render(c, "contact/index.html", newView(c, "Contact", ContactPage{}))
}

// Post stores the message and emails the office and the sender.
func (h *ContactController) Post(c *gin.Context) {
	ctx := c.Request.Context()

	var form models.Message
	errs := utils.BindingErrors(c.ShouldBind(&form))
	form.FirstName = utils.SanitizeInput(form.FirstName)
	form.LastName = utils.SanitizeInput(form.LastName)
	form.Email = utils.SanitizeInput(form.Email)
	form.Phone = utils.SanitizeInput(form.Phone)
	form.ClientMessage = utils.SanitizeInput(form.ClientMessage)
	if !errs.Valid() {
		render(c, "contact/index.html", newView(c, "Contact", ContactPage{Form: form}).withErrors(errs))
		return
	}

	if err := h.messages.Send(ctx, &form); err != nil {
		h.log.WithError(err).Error("Contact: store message")
		redirect(c, utils.ClientInfoURL(messageFailedMessage))
		return
	}
	metrics.RecordMessageReceived()

	h.notifier.Deliver(ctx, "contact",
		Notification{
			To:      h.adminEmail,
			ReplyTo: form.Email,
			Content: services.EmailContent{
				Subject:    "Mesaj nou de la " + form.FullName(),
				Paragraphs: []string{form.ClientMessage},
				Meta: []services.EmailMetaItem{
					{Label: "Nume", Value: form.FullName()},
					{Label: "Email", Value: form.Email},
					{Label: "Telefon", Value: form.Phone},
				},
				ButtonText: "Vezi mesajul",
				ButtonURL:  fmt.Sprintf("%s/administration/messages/%d", h.baseURL, form.MessageID),
			},
		},
		Notification{
			To: form.Email,
			Content: services.EmailContent{
				Subject: "Am primit mesajul tău",
				Paragraphs: []string{
					"Bună " + form.FirstName + ",",
					"Îți mulțumim că ne-ai contactat. Îți vom răspunde în cel mai scurt timp.",
				},
			},
		},
	)
	redirect(c, utils.ClientInfoURL(messageSentMessage))
}
