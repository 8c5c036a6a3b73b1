package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"imex-website/config"
	"imex-website/middleware"
	"imex-website/ratelimit"
	"imex-website/repository"
	"imex-website/routes"
	"imex-website/services"
	"imex-website/utils"
	"imex-website/web"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		config.Log.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		config.Log.WithError(err).Fatal("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		config.Log.WithError(err).Fatal("Invalid configuration")
	}

	logFile, _ := config.InitLogging(cfg.App.LogLevel)
	if logFile != nil {
		defer logFile.Close()
	}

	if cfg.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		config.Log.WithError(err).Fatal("Failed to initialize database")
	}

	repos := repository.New(db)
	accounts := services.NewAccountService(repos.Users)
	limiter := newLimiter(cfg)
	defer limiter.Close()

	tmpl, err := web.Templates()
	if err != nil {
		config.Log.WithError(err).Fatal("Failed to parse page templates")
	}

	utils.SetInfoSecret(cfg.JWT.Secret)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := utils.RegisterValidations(v); err != nil {
			config.Log.WithError(err).Fatal("Failed to register form validations")
		}
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestLogger(config.Log))
	router.Use(middleware.Metrics())
	router.SetHTMLTemplate(tmpl)

	routes.SetupRoutes(router, routes.Dependencies{
		Config:         cfg,
		Repos:          repos,
		Sessions:       middleware.NewSessions(cfg.JWT.Secret, cfg.JWT.TTL(), cfg.App.IsProduction(), accounts),
		Accounts:       accounts,
		Mailer:         services.NewSMTPMailer(cfg.SMTP),
		EmailTemplates: services.FSTemplateReader{FS: emailTemplates(cfg.App.EmailTemplateDir)},
		Limiter:        limiter,
		Log:            config.Log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		config.Log.WithField("port", cfg.Server.Port).Info("Server starting")
		if !cfg.SMTP.Enabled() {
			config.Log.Warn("SMTP is not configured, notification emails will fail")
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	config.Log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		config.Log.WithError(err).Error("Server forced to shutdown")
	}
	config.Log.Info("Server exited")
}

// newLimiter prefers Redis so limits hold across instances, falling back to
// process memory when Redis is not configured or unreachable.
func newLimiter(cfg *config.Config) ratelimit.Limiter {
	rateCfg := ratelimit.Config{Requests: cfg.Rate.Requests, Window: cfg.Rate.Window}
	if !cfg.RedisEnabled() {
		config.Log.Info("Rate limiting with in-memory store")
		return ratelimit.NewMemoryLimiter(rateCfg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	limiter, err := ratelimit.NewRedisLimiter(ctx, &redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, rateCfg)
	if err != nil {
		config.Log.WithError(err).Warn("Redis unavailable, rate limiting with in-memory store")
		return ratelimit.NewMemoryLimiter(rateCfg)
	}
	config.Log.WithField("addr", cfg.Redis.Addr()).Info("Rate limiting with Redis")
	return limiter
}

// emailTemplates reads from dir when it exists so the layout can be changed
// without a rebuild.
func emailTemplates(dir string) fs.FS {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return os.DirFS(dir)
	}
	return web.EmailFS()
}
