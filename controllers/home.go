package controllers

import (
	"errors"

	"imex-website/models"
	"imex-website/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type HomeController struct {
	projects repository.ProjectRepository
	log      logrus.FieldLogger
}

func NewHomeController(projects repository.ProjectRepository, log logrus.FieldLogger) *HomeController {
	return &HomeController{projects: projects, log: log}
}

// HomePage is the model of the landing page.
type HomePage struct {
	LatestProject *models.Project
}

// Index shows the landing page with the latest project, if any.
func (h *HomeController) Index(c *gin.Context) {
	latest, err := h.projects.Latest(c.Request.Context())
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.log.WithError(err).Error("Home: load latest project")
	}
	render(c, "home/index.html", newView(c, "Acasă", HomePage{LatestProject: latest}))
}
