package controllers

import (
	"errors"
	"strconv"
	"strings"

	"imex-website/models"
	"imex-website/repository"
	"imex-website/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	messagesPanelPath    = "/administration/messages"
	messageNotFound      = "Mesajul nu a fost găsit."
	messageDeleteFailed  = "Mesajul nu a putut fi șters."
	messagesUnavailable  = "Mesajele nu au putut fi încărcate."
	defaultAdminPageSize = 10
)

// AdministrationController serves the control panel and the contact messages.
type AdministrationController struct {
	messages repository.MessageRepository
	widgets  *Widgets
	PageSize int
	log      logrus.FieldLogger
}

func NewAdministrationController(messages repository.MessageRepository, widgets *Widgets, log logrus.FieldLogger) *AdministrationController {
	return &AdministrationController{messages: messages, widgets: widgets, PageSize: defaultAdminPageSize, log: log}
}

// ControlPanel shows the totals of every section.
func (h *AdministrationController) ControlPanel(c *gin.Context) {
	v := newView(c, "Panou de control", nil)
	v.ControlPanel = h.widgets.ControlPanel(c.Request.Context())
	render(c, "administration/index.html", v)
}

func (h *AdministrationController) MessagesPanel(c *gin.Context) {
	messages, err := h.messages.All(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Administration: list messages")
		redirect(c, utils.AdminInfoURL(messagesUnavailable))
		return
	}
	h.renderPanel(c, messages, "")
}

// SearchMessages filters messages by name, email or text.
func (h *AdministrationController) SearchMessages(c *gin.Context) {
	criteria := strings.TrimSpace(c.Query("criteria"))
	if criteria == "" {
		redirect(c, messagesPanelPath)
		return
	}
	messages, err := h.messages.Search(c.Request.Context(), criteria)
	if err != nil {
		h.log.WithError(err).WithField("criteria", criteria).Error("Administration: search messages")
		redirect(c, utils.AdminInfoURL(messagesUnavailable))
		return
	}
	h.renderPanel(c, messages, criteria)
}

func (h *AdministrationController) renderPanel(c *gin.Context, messages []models.Message, criteria string) {
	ctx := c.Request.Context()
	total, err := h.messages.Count(ctx)
	if err != nil {
		h.log.WithError(err).Error("Administration: count messages")
		redirect(c, utils.AdminInfoURL(messagesUnavailable))
		return
	}
	unread, err := h.messages.UnreadCount(ctx)
	if err != nil {
		h.log.WithError(err).Error("Administration: count unread messages")
		redirect(c, utils.AdminInfoURL(messagesUnavailable))
		return
	}

	items, pagination := newestFirst(messages, func(m models.Message) int { return m.MessageID },
		utils.ParsePage(c.Query("page")), h.PageSize)
	render(c, "administration/messages.html", newView(c, "Mesaje", Panel[models.Message]{
		Items:          items,
		Pagination:     pagination,
		Total:          total,
		Unread:         unread,
		SearchRequest:  criteria != "",
		SearchCriteria: criteria,
	}))
}

// Message shows one message and marks it as read.
func (h *AdministrationController) Message(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		redirect(c, utils.AdminInfoURL(messageNotFound))
		return
	}

	message, err := h.messages.ByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.WithError(err).WithField("message_id", id).Error("Administration: load message")
		}
		redirect(c, utils.AdminInfoURL(messageNotFound))
		return
	}

	if message.IsUnread() {
		if err := h.messages.MarkAsRead(ctx, id); err != nil {
			h.log.WithError(err).WithField("message_id", id).Warn("Administration: mark message as read")
		}
	}
	render(c, "administration/message.html", newView(c, "Mesaj", message))
}

func (h *AdministrationController) DeleteMessage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		redirect(c, utils.AdminInfoURL(messageDeleteFailed))
		return
	}
	if err := h.messages.Delete(c.Request.Context(), id); err != nil {
		h.log.WithError(err).WithField("message_id", id).Error("Administration: delete message")
		redirect(c, utils.AdminInfoURL(messageDeleteFailed))
		return
	}
	redirect(c, messagesPanelPath)
}
