package controllers

import (
	"errors"
	"sort"
	"strconv"

	"imex-website/models"
	"imex-website/repository"
	"imex-website/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	jobsPanelPath   = "/administration/jobs"
	jobNotFound     = "Postul nu a fost găsit."
	jobsUnavailable = "Posturile nu au putut fi încărcate."
	jobAddFailed    = "Postul nu a putut fi adăugat."
	jobEditFailed   = "Postul nu a putut fi modificat."
	jobDeleteFailed = "Postul nu a putut fi șters."
)

type JobsController struct {
	jobs repository.JobRepository
	log  logrus.FieldLogger
}

func NewJobsController(jobs repository.JobRepository, log logrus.FieldLogger) *JobsController {
	return &JobsController{jobs: jobs, log: log}
}

// JobsPage is the model of the jobs panel. The add and edit forms live on the
// same page, so each has its own validation flag.
type JobsPage struct {
	Jobs                  []models.Job
	TotalJobs             int64
	Form                  models.Job
	IsValidationError     bool
	IsValidationErrorEdit bool
}

func (h *JobsController) JobsPanel(c *gin.Context) {
	h.renderPanel(c, JobsPage{}, utils.FormErrors{})
}

func (h *JobsController) renderPanel(c *gin.Context, page JobsPage, errs utils.FormErrors) {
	ctx := c.Request.Context()
	jobs, err := h.jobs.List(ctx)
	if err != nil {
		h.log.WithError(err).Error("Jobs: list")
		redirect(c, utils.AdminInfoURL(jobsUnavailable))
		return
	}
	total, err := h.jobs.Count(ctx)
	if err != nil {
		h.log.WithError(err).Error("Jobs: count")
		redirect(c, utils.AdminInfoURL(jobsUnavailable))
		return
	}

	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].JobID > jobs[j].JobID })
	page.Jobs = jobs
	page.TotalJobs = total
	render(c, "administration/jobs.html", newView(c, "Posturi", page).withErrors(errs))
}

func (h *JobsController) AddJob(c *gin.Context) {
	var form models.Job
	if err := c.ShouldBind(&form); err != nil {
		h.renderPanel(c, JobsPage{Form: form, IsValidationError: true}, utils.BindingErrors(err))
		return
	}
	form.JobID = 0
	form.JobName = utils.SanitizeInput(form.JobName)
	form.Description = utils.SanitizeInput(form.Description)

	if err := h.jobs.Add(c.Request.Context(), &form); err != nil {
		h.log.WithError(err).Error("Jobs: add")
		redirect(c, utils.AdminInfoURL(jobAddFailed))
		return
	}
	redirect(c, jobsPanelPath)
}

// EditJob updates an existing job; the job must exist before the form is checked.
func (h *JobsController) EditJob(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		redirect(c, utils.AdminInfoURL(jobNotFound))
		return
	}
	if _, err := h.jobs.ByID(ctx, id); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.WithError(err).WithField("job_id", id).Error("Jobs: load")
		}
		redirect(c, utils.AdminInfoURL(jobNotFound))
		return
	}

	var form models.Job
	bindErr := c.ShouldBind(&form)
	form.JobID = id
	if bindErr != nil {
		h.renderPanel(c, JobsPage{Form: form, IsValidationErrorEdit: true}, utils.BindingErrors(bindErr))
		return
	}
	form.JobName = utils.SanitizeInput(form.JobName)
	form.Description = utils.SanitizeInput(form.Description)

	if err := h.jobs.Edit(ctx, &form); err != nil {
		h.log.WithError(err).WithField("job_id", id).Error("Jobs: edit")
		redirect(c, utils.AdminInfoURL(jobEditFailed))
		return
	}
	redirect(c, jobsPanelPath)
}

func (h *JobsController) DeleteJob(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		redirect(c, utils.AdminInfoURL(jobDeleteFailed))
		return
	}
	if err := h.jobs.Delete(c.Request.Context(), id); err != nil {
		h.log.WithError(err).WithField("job_id", id).Error("Jobs: delete")
		redirect(c, utils.AdminInfoURL(jobDeleteFailed))
		return
	}
	redirect(c, jobsPanelPath)
}
