package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"imex-website/metrics"
	"imex-website/models"
	"imex-website/repository"
	"imex-website/services"
	"imex-website/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	applicationSentMessage   = "Aplicația ta a fost trimisă cu succes!"
	applicationFailedMessage = "Aplicația nu a putut fi trimisă. Te rugăm să încerci din nou."
	jobsUnavailableMessage   = "Posturile disponibile nu au putut fi încărcate."
)

// CareersController lists open positions and receives applications.
type CareersController struct {
	jobs         repository.JobRepository
	applications repository.ApplicationRepository
	notifier     *Notifier
	hrEmail      string
	baseURL      string
	log          logrus.FieldLogger
}

func NewCareersController(
	jobs repository.JobRepository,
	applications repository.ApplicationRepository,
	notifier *Notifier,
	hrEmail, baseURL string,
	log logrus.FieldLogger,
) *CareersController {
	return &CareersController{
		jobs:         jobs,
		applications: applications,
		notifier:     notifier,
		hrEmail:      hrEmail,
		baseURL:      strings.TrimRight(baseURL, "/"),
		log:          log,
	}
}

// CareersPage is the model of the careers page and its application form.
type CareersPage struct {
	Jobs []models.Job
	Form models.Application
}

func (h *CareersController) Index(c *gin.Context) {
	jobs, err := h.jobs.List(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Careers: list jobs")
		redirect(c, utils.ClientInfoURL(jobsUnavailableMessage))
		return
	}
	render(c, "careers/index.html", newView(c, "Cariere", CareersPage{Jobs: jobs}))
}

// PostApplication validates the form and the CV, stores the application and
// notifies HR and the applicant.
func (h *CareersController) PostApplication(c *gin.Context) {
	ctx := c.Request.Context()

	var form models.Application
	errs := utils.BindingErrors(c.ShouldBind(&form))
	sanitizeApplication(&form)

	file, err := c.FormFile("cv")
	if err != nil {
		file = nil
	}
	errs.Merge(utils.ValidateCV(file))

	var job *models.Job
	if form.JobID != nil && *form.JobID > 0 {
		job, err = h.jobs.ByID(ctx, *form.JobID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			errs.Add("job_id", "Postul selectat nu mai este disponibil")
		case err != nil:
			h.log.WithError(err).WithField("job_id", *form.JobID).Error("Careers: load job")
			redirect(c, utils.ClientInfoURL(applicationFailedMessage))
			return
		}
	} else {
		form.JobID = nil
	}

	if !errs.Valid() {
		jobs, err := h.jobs.List(ctx)
		if err != nil {
			h.log.WithError(err).Error("Careers: list jobs")
			redirect(c, utils.ClientInfoURL(jobsUnavailableMessage))
			return
		}
		render(c, "careers/index.html", newView(c, "Cariere", CareersPage{Jobs: jobs, Form: form}).withErrors(errs))
		return
	}

	data, err := utils.ReadUpload(file)
	if err != nil {
		h.log.WithError(err).Error("Careers: read CV")
		redirect(c, utils.ClientInfoURL(applicationFailedMessage))
		return
	}
	form.CV = &models.CV{
		FileName:    cvFileName(form.FirstName, form.LastName),
		ContentType: "application/pdf",
		Data:        data,
	}

	if err := h.applications.Send(ctx, &form); err != nil {
		h.log.WithError(err).Error("Careers: store application")
		redirect(c, utils.ClientInfoURL(applicationFailedMessage))
		return
	}
	metrics.RecordApplicationReceived()

	h.notifier.Deliver(ctx, "application", h.applicationEmails(&form, job)...)
	redirect(c, utils.ClientInfoURL(applicationSentMessage))
}

func (h *CareersController) applicationEmails(app *models.Application, job *models.Job) []Notification {
	position := "Candidatură spontană"
	if job != nil {
		position = job.JobName
	}
	meta := []services.EmailMetaItem{
		{Label: "Nume", Value: app.FullName()},
		{Label: "Email", Value: app.Email},
		{Label: "Telefon", Value: app.Phone},
		{Label: "Vârstă", Value: strconv.Itoa(app.Age)},
		{Label: "Post", Value: position},
	}

	return []Notification{
		{
			To:      h.hrEmail,
			ReplyTo: app.Email,
			Content: services.EmailContent{
				Subject:    "Aplicație nouă: " + position,
				Paragraphs: []string{"A fost primită o aplicație nouă pe site.", app.CoverLetter},
				Meta:       meta,
				ButtonText: "Vezi aplicația",
				ButtonURL:  fmt.Sprintf("%s/administration/applications/%d", h.baseURL, app.ApplicationID),
			},
		},
		{
			To:      h.hrEmail,
			ReplyTo: app.Email,
			Content: services.EmailContent{
				Subject:    "CV " + app.FullName(),
				Paragraphs: []string{"CV-ul candidatului <strong>" + app.FullName() + "</strong> este atașat acestui email."},
			},
			Attachments: []services.Attachment{{
				FileName:    app.CV.FileName,
				ContentType: app.CV.ContentType,
				Data:        app.CV.Data,
			}},
		},
		{
			To: app.Email,
			Content: services.EmailContent{
				Subject: "Am primit aplicația ta",
				Paragraphs: []string{
					"Bună " + app.FirstName + ",",
					"Îți mulțumim pentru interesul acordat. Am primit aplicația ta pentru postul " + position + " și te vom contacta în cel mai scurt timp.",
				},
			},
		},
	}
}

func sanitizeApplication(app *models.Application) {
	app.FirstName = utils.SanitizeInput(app.FirstName)
	app.LastName = utils.SanitizeInput(app.LastName)
	app.Email = utils.SanitizeInput(app.Email)
	app.Phone = utils.SanitizeInput(app.Phone)
	app.CoverLetter = utils.SanitizeInput(app.CoverLetter)
}

// cvFileName builds a unique stored name for the uploaded resume.
func cvFileName(first, last string) string {
	name := strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' || r == '\\' || r == '"' {
			return '_'
		}
		return r
	}, strings.TrimSpace(first+"_"+last))
	return fmt.Sprintf("CV_%s_%s.pdf", name, uuid.NewString()[:8])
}
