package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"imex-website/models"
	"imex-website/repository"
	"imex-website/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	applicationsPanelPath   = "/administration/applications"
	applicationNotFound     = "Aplicația nu a fost găsită."
	applicationDeleteFailed = "Aplicația nu a putut fi ștearsă."
	applicationsUnavailable = "Aplicațiile nu au putut fi încărcate."
)

// JobApplicationsController is the admin view over received applications.
type JobApplicationsController struct {
	applications repository.ApplicationRepository
	PageSize     int
	log          logrus.FieldLogger
}

func NewJobApplicationsController(applications repository.ApplicationRepository, log logrus.FieldLogger) *JobApplicationsController {
	return &JobApplicationsController{applications: applications, PageSize: defaultAdminPageSize, log: log}
}

func (h *JobApplicationsController) ApplicationsPanel(c *gin.Context) {
	applications, err := h.applications.All(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("JobApplications: list")
		redirect(c, utils.AdminInfoURL(applicationsUnavailable))
		return
	}
	h.renderPanel(c, applications, "")
}

func (h *JobApplicationsController) SearchApplications(c *gin.Context) {
	criteria := strings.TrimSpace(c.Query("criteria"))
	if criteria == "" {
		redirect(c, applicationsPanelPath)
		return
	}
	applications, err := h.applications.Search(c.Request.Context(), criteria)
	if err != nil {
		h.log.WithError(err).WithField("criteria", criteria).Error("JobApplications: search")
		redirect(c, utils.AdminInfoURL(applicationsUnavailable))
		return
	}
	h.renderPanel(c, applications, criteria)
}

func (h *JobApplicationsController) renderPanel(c *gin.Context, applications []models.Application, criteria string) {
	ctx := c.Request.Context()
	total, err := h.applications.Count(ctx)
	if err != nil {
		h.log.WithError(err).Error("JobApplications: count")
		redirect(c, utils.AdminInfoURL(applicationsUnavailable))
		return
	}
	unread, err := h.applications.UnreadCount(ctx)
	if err != nil {
		h.log.WithError(err).Error("JobApplications: count unread")
		redirect(c, utils.AdminInfoURL(applicationsUnavailable))
		return
	}

	items, pagination := newestFirst(applications, func(a models.Application) int { return a.ApplicationID },
		utils.ParsePage(c.Query("page")), h.PageSize)
	render(c, "administration/applications.html", newView(c, "Aplicații", Panel[models.Application]{
		Items:          items,
		Pagination:     pagination,
		Total:          total,
		Unread:         unread,
		SearchRequest:  criteria != "",
		SearchCriteria: criteria,
	}))
}

// Application shows one application and marks it as read.
func (h *JobApplicationsController) Application(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		redirect(c, utils.AdminInfoURL(applicationNotFound))
		return
	}

	application, err := h.applications.ByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.WithError(err).WithField("application_id", id).Error("JobApplications: load")
		}
		redirect(c, utils.AdminInfoURL(applicationNotFound))
		return
	}

	if application.IsUnread() {
		if err := h.applications.MarkAsRead(ctx, id); err != nil {
			h.log.WithError(err).WithField("application_id", id).Warn("JobApplications: mark as read")
		}
	}
	render(c, "administration/application.html", newView(c, "Aplicație", application))
}

// DownloadCV sends the stored resume as an attachment.
func (h *JobApplicationsController) DownloadCV(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		redirect(c, utils.AdminInfoURL(applicationNotFound))
		return
	}
	cv, err := h.applications.CV(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.WithError(err).WithField("application_id", id).Error("JobApplications: load CV")
		}
		redirect(c, utils.AdminInfoURL("CV-ul nu a fost găsit."))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cv.FileName))
	c.Data(http.StatusOK, cv.ContentType, cv.Data)
}

func (h *JobApplicationsController) DeleteApplication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		redirect(c, utils.AdminInfoURL(applicationDeleteFailed))
		return
	}
	if err := h.applications.Delete(c.Request.Context(), id); err != nil {
		h.log.WithError(err).WithField("application_id", id).Error("JobApplications: delete")
		redirect(c, utils.AdminInfoURL(applicationDeleteFailed))
		return
	}
	redirect(c, applicationsPanelPath)
}
