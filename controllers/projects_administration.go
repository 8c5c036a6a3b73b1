package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"imex-website/models"
	"imex-website/repository"
	"imex-website/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	projectsPanelPath      = "/administration/projects"
	projectsAdminPageSize  = 6
	projectsUnavailable    = "Proiectele nu au putut fi încărcate."
	projectAdminNotFound   = "Proiectul nu a fost găsit."
	projectAddFailed       = "Proiectul nu a putut fi adăugat."
	projectUpdateFailed    = "Proiectul nu a putut fi modificat."
	projectDeleteFailed    = "Proiectul nu a putut fi șters."
	projectImagesFormField = "images"
)

// ProjectsAdministrationController manages the project showcase.
type ProjectsAdministrationController struct {
	projects repository.ProjectRepository
	PageSize int
	log      logrus.FieldLogger
}

func NewProjectsAdministrationController(projects repository.ProjectRepository, log logrus.FieldLogger) *ProjectsAdministrationController {
	return &ProjectsAdministrationController{projects: projects, PageSize: projectsAdminPageSize, log: log}
}

// ProjectsPanel pages projects in the store, newest first.
func (h *ProjectsAdministrationController) ProjectsPanel(c *gin.Context) {
	ctx := c.Request.Context()
	page := utils.ParsePage(c.Query("page"))

	projects, err := h.projects.Page(ctx, page, h.PageSize)
	if err != nil {
		h.log.WithError(err).Error("ProjectsAdministration: page")
		redirect(c, utils.AdminInfoURL(projectsUnavailable))
		return
	}
	total, err := h.projects.Count(ctx)
	if err != nil {
		h.log.WithError(err).Error("ProjectsAdministration: count")
		redirect(c, utils.AdminInfoURL(projectsUnavailable))
		return
	}

	render(c, "administration/projects.html", newView(c, "Proiecte", Panel[models.Project]{
		Items:      projects,
		Pagination: utils.NewPagination(page, h.PageSize, total),
		Total:      total,
	}))
}

func (h *ProjectsAdministrationController) SearchProjects(c *gin.Context) {
	ctx := c.Request.Context()
	criteria := strings.TrimSpace(c.Query("criteria"))
	if criteria == "" {
		redirect(c, projectsPanelPath)
		return
	}

	projects, err := h.projects.Search(ctx, criteria)
	if err != nil {
		h.log.WithError(err).WithField("criteria", criteria).Error("ProjectsAdministration: search")
		redirect(c, utils.AdminInfoURL(projectsUnavailable))
		return
	}
	total, err := h.projects.Count(ctx)
	if err != nil {
		h.log.WithError(err).Error("ProjectsAdministration: count")
		redirect(c, utils.AdminInfoURL(projectsUnavailable))
		return
	}

	items, pagination := newestFirst(projects, func(p models.Project) int { return p.ProjectID },
		utils.ParsePage(c.Query("page")), h.PageSize)
	render(c, "administration/projects.html", newView(c, "Proiecte", Panel[models.Project]{
		Items:          items,
		Pagination:     pagination,
		Total:          total,
		SearchRequest:  true,
		SearchCriteria: criteria,
	}))
}

// DeleteProject removes a project and its gallery. Unknown ids are never deleted.
func (h *ProjectsAdministrationController) DeleteProject(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.existing(c)
	if !ok {
		return
	}
	if err := h.projects.Delete(ctx, id); err != nil {
		h.log.WithError(err).WithField("project_id", id).Error("ProjectsAdministration: delete")
		redirect(c, utils.AdminInfoURL(projectDeleteFailed))
		return
	}
	redirect(c, projectsPanelPath)
}

func (h *ProjectsAdministrationController) AddProject(c *gin.Context) {
	render(c, "administration/project_add.html", newView(c, "Adaugă proiect", models.Project{}))
}

// PostProject stores a new project with its gallery.
func (h *ProjectsAdministrationController) PostProject(c *gin.Context) {
	var form models.Project
	errs := utils.BindingErrors(c.ShouldBind(&form))
	files := formFiles(c, projectImagesFormField)
	if errs.Valid() {
		errs.Merge(utils.ValidateProjectImages(files))
	}
	if !errs.Valid() {
		render(c, "administration/project_add.html", newView(c, "Adaugă proiect", form).withErrors(errs))
		return
	}

	pictures, err := readPictures(files)
	if err != nil {
		h.log.WithError(err).Error("ProjectsAdministration: read images")
		redirect(c, utils.AdminInfoURL(projectAddFailed))
		return
	}
	project := models.Project{
		Title:       utils.SanitizeInput(form.Title),
		Description: utils.SanitizeInput(form.Description),
		Pictures:    pictures,
	}
	if err := h.projects.Add(c.Request.Context(), &project); err != nil {
		h.log.WithError(err).Error("ProjectsAdministration: add")
		redirect(c, utils.AdminInfoURL(projectAddFailed))
		return
	}
	redirect(c, projectsPanelPath)
}

func (h *ProjectsAdministrationController) EditProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		redirect(c, projectsPanelPath)
		return
	}
	project, err := h.projects.WithPictures(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.WithError(err).WithField("project_id", id).Error("ProjectsAdministration: load")
		}
		redirect(c, utils.AdminInfoURL(projectAdminNotFound))
		return
	}
	render(c, "administration/project_edit.html", newView(c, "Editează proiect", project))
}

// EditProjectPost replaces the text and the whole gallery of a project.
func (h *ProjectsAdministrationController) EditProjectPost(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		redirect(c, projectsPanelPath)
		return
	}

	var form models.Project
	errs := utils.BindingErrors(c.ShouldBind(&form))
	files := formFiles(c, projectImagesFormField)
	if errs.Valid() {
		errs.Merge(utils.ValidateProjectImages(files))
	}
	if !errs.Valid() {
		stored, err := h.projects.WithPictures(ctx, id)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				h.log.WithError(err).WithField("project_id", id).Error("ProjectsAdministration: load")
			}
			redirect(c, utils.AdminInfoURL(projectAdminNotFound))
			return
		}
		render(c, "administration/project_edit.html", newView(c, "Editează proiect", stored).withErrors(errs))
		return
	}

	pictures, err := readPictures(files)
	if err != nil {
		h.log.WithError(err).WithField("project_id", id).Error("ProjectsAdministration: read images")
		redirect(c, utils.AdminInfoURL(projectUpdateFailed))
		return
	}
	project := models.Project{
		ProjectID:   id,
		Title:       utils.SanitizeInput(form.Title),
		Description: utils.SanitizeInput(form.Description),
		Pictures:    pictures,
	}
	if err := h.projects.Update(ctx, &project); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			redirect(c, utils.AdminInfoURL(projectAdminNotFound))
			return
		}
		h.log.WithError(err).WithField("project_id", id).Error("ProjectsAdministration: update")
		redirect(c, utils.AdminInfoURL(projectUpdateFailed))
		return
	}
	redirect(c, projectsPanelPath)
}

// existing resolves the :id parameter to a stored project, redirecting when it
// does not exist.
func (h *ProjectsAdministrationController) existing(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		redirect(c, utils.AdminInfoURL(projectAdminNotFound))
		return 0, false
	}
	if _, err := h.projects.WithPictures(c.Request.Context(), id); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.WithError(err).WithField("project_id", id).Error("ProjectsAdministration: load")
		}
		redirect(c, utils.AdminInfoURL(projectAdminNotFound))
		return 0, false
	}
	return id, true
}

func formFiles(c *gin.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

func readPictures(files []*multipart.FileHeader) ([]models.Picture, error) {
	pictures := make([]models.Picture, 0, len(files))
	for _, file := range files {
		data, err := utils.ReadUpload(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file.Filename, err)
		}
		contentType, err := utils.DetectContentType(file)
		if err != nil {
			return nil, fmt.Errorf("detect %s: %w", file.Filename, err)
		}
		ext := utils.ImageExtension(file)
		pictures = append(pictures, models.Picture{
			ImageName:   uuid.NewString() + "." + ext,
			ContentType: contentType,
			Extension:   ext,
			ImageData:   data,
		})
	}
	return pictures, nil
}
