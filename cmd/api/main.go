package main

import (
	"log"

	"empanelment/internal/config"
	"empanelment/internal/database"
	"empanelment/internal/middleware"
	"empanelment/internal/modules/application"
	"empanelment/internal/modules/attachment"
	"empanelment/internal/modules/auth"
	"empanelment/internal/modules/events"
	jwtsvc "empanelment/internal/pkg/jwt"
	"empanelment/internal/repository"
	"empanelment/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	appRepo := repository.NewApplicationRepository(db)
	fileRepo := repository.NewFileRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	userRepo := repository.NewUserRepository(db)
	codeRepo := repository.NewVerificationCodeRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	store := storage.NewLocalStore(cfg.UploadDir, cfg.UploadMaxSize)
	hub := events.NewHub()

	attachmentService := attachment.NewService(fileRepo, appRepo, store)
	applicationService := application.NewService(
		appRepo,
		auditRepo,
		attachmentService,
		application.ValidatorForPolicy(cfg.TransitionPolicy),
		hub,
	)
	authService := auth.NewService(
		userRepo,
		codeRepo,
		j,
		auth.DevConsoleMailer{},
		cfg.OTPPepper,
		cfg.OTPCodeTTL,
		cfg.OTPResendCooldown,
	)

	authHandler := auth.NewHandler(authService)
	applicationHandler := application.NewHandler(applicationService)
	attachmentHandler := attachment.NewHandler(attachmentService)
	eventsHandler := events.NewHandler(hub, j)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Static("/uploads", cfg.UploadDir)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		eventsHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.AuthRequired(j))
		{
			applicationHandler.RegisterRoutes(protected)
			attachmentHandler.RegisterRoutes(protected)

			reviewers := protected.Group("/")
			reviewers.Use(middleware.RequireRole("reviewer", "admin"))
			applicationHandler.RegisterReviewerRoutes(reviewers)
		}
	}

	log.Printf("Starting server on %s (transition policy: %s)", cfg.ServerAddr, cfg.TransitionPolicy)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatal(err)
	}
}
