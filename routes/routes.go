package routes

import (
	"net/http"

	"imex-website/config"
	"imex-website/controllers"
	"imex-website/metrics"
	"imex-website/middleware"
	"imex-website/models"
	"imex-website/ratelimit"
	"imex-website/repository"
	"imex-website/services"
	"imex-website/utils"
	"imex-website/web"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Dependencies are the shared services the handlers are built from.
type Dependencies struct {
	Config         *config.Config
	Repos          *repository.Repositories
	Sessions       *middleware.Sessions
	Accounts       *services.AccountService
	Mailer         services.Mailer
	EmailTemplates services.TemplateReader
	Limiter        ratelimit.Limiter
	Log            logrus.FieldLogger
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	cfg := deps.Config
	log := deps.Log
	repos := deps.Repos
	secure := cfg.App.IsProduction()

	notifier := controllers.NewNotifier(deps.Mailer, deps.EmailTemplates, log)
	widgets := controllers.NewWidgets(repos.Messages, repos.Applications, repos.Jobs, repos.Projects, log)

	home := controllers.NewHomeController(repos.Projects, log)
	projects := controllers.NewProjectsController(repos.Projects, cfg.App.PageSize, log)
	careers := controllers.NewCareersController(repos.Jobs, repos.Applications, notifier, cfg.Mail.HR, cfg.App.BaseURL, log)
	contact := controllers.NewContactController(repos.Messages, notifier, cfg.Mail.Admin, cfg.App.BaseURL, log)
	policies := controllers.NewPoliciesController(repos.Policies, log)
	cookies := controllers.NewCookiesController(secure)
	account := controllers.NewAccountController(deps.Accounts, deps.Sessions, notifier, cfg.App.BaseURL, log)
	administration := controllers.NewAdministrationController(repos.Messages, widgets, log)
	applications := controllers.NewJobApplicationsController(repos.Applications, log)
	jobs := controllers.NewJobsController(repos.Jobs, log)
	projectsAdmin := controllers.NewProjectsAdministrationController(repos.Projects, log)

	formLimit := func(scope string) gin.HandlerFunc {
		return middleware.RateLimit(deps.Limiter, scope, log)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "IMEX website is running",
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.StaticFS("/static", http.FS(web.StaticFS()))

	// Public site
	site := router.Group("")
	site.Use(deps.Sessions.LoadSession(), middleware.CookieConsent())
	{
		site.GET("/", home.Index)

		site.GET("/projects", projects.Index)
		site.GET("/projects/:id", projects.ReadProject)
		site.GET("/projects/pictures/:id", projects.Picture)

		site.GET("/careers", careers.Index)
		site.POST("/careers", formLimit("careers"), middleware.LimitBody(utils.MaxApplicationBody), careers.PostApplication)

		site.GET("/contact", contact.Show)
		site.POST("/contact", formLimit("contact"), contact.Post)

		site.GET("/policies/:id", policies.ReadPolicy)

		site.GET("/client-info", controllers.ClientInfo)
		site.GET("/error-info", controllers.ErrorInfo)

		site.GET("/account/login", account.Login)
		site.POST("/account/login", formLimit("login"), account.LoginUser)
		site.GET("/account/forgot-password", account.ForgotPasswordForm)
		site.POST("/account/forgot-password", formLimit("forgot-password"), account.ForgotPassword)
		site.GET("/account/reset-password", account.ResetPassword)
		site.POST("/account/reset-password", formLimit("reset-password"), account.ProceedToChangePassword)
	}

	router.POST("/api/cookies/consent", cookies.Consent)

	// Administration (require authentication)
	admin := router.Group("")
	admin.Use(deps.Sessions.AuthMiddleware(), middleware.CookieConsent(), widgets.LoadAdminInfo())
	{
		admin.GET("/admin-info", controllers.AdminInfo)
		admin.POST("/account/logout", account.Logout)
		admin.GET("/account/profile", account.Profile)
		admin.POST("/account/profile/password", account.ChangeUserPassword)
		admin.GET("/account/users/new", account.CreateUser)
		admin.POST("/account/users", account.CreateUserPost)

		panel := admin.Group("/administration")
		{
			panel.GET("", administration.ControlPanel)

			panel.GET("/messages", administration.MessagesPanel)
			panel.GET("/messages/search", administration.SearchMessages)
			panel.GET("/messages/:id", administration.Message)
			panel.POST("/messages/:id/delete", administration.DeleteMessage)

			panel.GET("/applications", applications.ApplicationsPanel)
			panel.GET("/applications/search", applications.SearchApplications)
			panel.GET("/applications/:id", applications.Application)
			panel.GET("/applications/:id/cv", applications.DownloadCV)
			panel.POST("/applications/:id/delete", applications.DeleteApplication)

			panel.GET("/jobs", jobs.JobsPanel)
			panel.POST("/jobs", jobs.AddJob)
			panel.POST("/jobs/:id", jobs.EditJob)
			panel.POST("/jobs/:id/delete", jobs.DeleteJob)

			panel.GET("/projects", projectsAdmin.ProjectsPanel)
			panel.GET("/projects/search", projectsAdmin.SearchProjects)
			panel.GET("/projects/new", projectsAdmin.AddProject)
			panel.POST("/projects", middleware.LimitBody(utils.MaxProjectFormBody), projectsAdmin.PostProject)
			panel.GET("/projects/:id/edit", projectsAdmin.EditProject)
			panel.POST("/projects/:id", middleware.LimitBody(utils.MaxProjectFormBody), projectsAdmin.EditProjectPost)
			panel.POST("/projects/:id/delete", projectsAdmin.DeleteProject)

			// Only admins edit the legal pages
			policyAdmin := panel.Group("/policies", middleware.RequireRole(models.RoleAdmin))
			{
				policyAdmin.GET("/:id/edit", policies.EditPolicy)
				policyAdmin.POST("/:id", policies.UpdatePolicy)
			}
		}
	}
}
