package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"imex-website/models"
	"imex-website/repository"
	"imex-website/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const projectNotFoundMessage = "Proiectul căutat nu există."

// ProjectsController serves the public project showcase.
type ProjectsController struct {
	projects repository.ProjectRepository
	PageSize int
	log      logrus.FieldLogger
}

func NewProjectsController(projects repository.ProjectRepository, pageSize int, log logrus.FieldLogger) *ProjectsController {
	if pageSize <= 0 {
		pageSize = 9
	}
	return &ProjectsController{projects: projects, PageSize: pageSize, log: log}
}

// ProjectsPage is the model of the public project list.
type ProjectsPage struct {
	Projects      []models.Project
	Pagination    utils.Pagination
	TotalProjects int64
}

// Index lists projects newest first, one page at a time.
func (h *ProjectsController) Index(c *gin.Context) {
	ctx := c.Request.Context()
	page := utils.ParsePage(c.Query("page"))

	projects, err := h.projects.Page(ctx, page, h.PageSize)
	if err != nil {
		h.log.WithError(err).Error("Projects: load page")
		redirect(c, utils.ClientInfoURL("Proiectele nu au putut fi încărcate."))
		return
	}
	total, err := h.projects.Count(ctx)
	if err != nil {
		h.log.WithError(err).Error("Projects: count")
		redirect(c, utils.ClientInfoURL("Proiectele nu au putut fi încărcate."))
		return
	}

	render(c, "projects/index.html", newView(c, "Proiecte", ProjectsPage{
		Projects:      projects,
		Pagination:    utils.NewPagination(page, h.PageSize, total),
		TotalProjects: total,
	}))
}

// ReadProject shows one project with its gallery.
func (h *ProjectsController) ReadProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		redirect(c, "/projects")
		return
	}

	project, err := h.projects.WithPictures(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.WithError(err).WithField("project_id", id).Error("Projects: load project")
		}
		redirect(c, utils.ClientInfoURL(projectNotFoundMessage))
		return
	}

	render(c, "projects/read.html", newView(c, project.Title, project))
}

// Picture streams one gallery image.
func (h *ProjectsController) Picture(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.Status(http.StatusNotFound)
		return
	}
	picture, err := h.projects.Picture(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.WithError(err).WithField("picture_id", id).Error("Projects: load picture")
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, picture.ContentType, picture.ImageData)
}
