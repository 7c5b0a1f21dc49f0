package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/bidflow/bidflow-api/internal/config"
	"github.com/bidflow/bidflow-api/internal/database"
	"github.com/bidflow/bidflow-api/internal/etenders"
	"github.com/bidflow/bidflow-api/internal/handler"
	"github.com/bidflow/bidflow-api/internal/middleware"
	"github.com/bidflow/bidflow-api/internal/models"
	"github.com/bidflow/bidflow-api/internal/repository"
	"github.com/bidflow/bidflow-api/internal/router"
	"github.com/bidflow/bidflow-api/internal/scoring"
	"github.com/bidflow/bidflow-api/internal/service"
	cloud "github.com/bidflow/bidflow-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Tender{},
		&models.Qualification{},
		&models.Opportunity{},
		&models.Task{},
		&models.ComplianceItem{},
		&models.Document{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	profile := scoring.DefaultProfile()
	if cfg.ScoringProfilePath != "" {
		profile, err = scoring.LoadProfile(cfg.ScoringProfilePath)
		if err != nil {
			log.Fatalf("failed to load capability profile: %v", err)
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	tenderRepo := repository.NewTenderRepository(db)
	qualificationRepo := repository.NewQualificationRepository(db)
	opportunityRepo := repository.NewOpportunityRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	complianceRepo := repository.NewComplianceRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	searcher := etenders.New(cfg.ETendersBaseURL, logger)
	events := service.NewPipelineEventService(natsConn, cfg.PipelineEventSubject, logger)

	tenderService := service.NewTenderService(tenderRepo, searcher, validate, logger)
	qualificationService := service.NewQualificationService(qualificationRepo, tenderRepo, profile, logger)
	opportunityService := service.NewOpportunityService(opportunityRepo, tenderRepo, qualificationRepo, taskRepo, complianceRepo, events, validate, logger)
	taskService := service.NewTaskService(taskRepo, opportunityRepo, validate, logger)
	complianceService := service.NewComplianceService(complianceRepo, opportunityRepo, qualificationRepo, validate, logger)
	documentService := service.NewDocumentService(documentRepo, opportunityRepo, uploader, cfg.MaxDocumentSizeBytes(), logger)
	dashboardService := service.NewDashboardService(dashboardRepo, redisClient, cfg.DashboardCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		TenderHandler:       handler.NewTenderHandler(tenderService, qualificationService, logger),
		OpportunityHandler:  handler.NewOpportunityHandler(opportunityService, logger),
		TaskHandler:         handler.NewTaskHandler(taskService, logger),
		ComplianceHandler:   handler.NewComplianceHandler(complianceService, logger),
		DocumentHandler:     handler.NewDocumentHandler(documentService, logger),
		DashboardHandler:    handler.NewDashboardHandler(dashboardService, logger),
		ActivityFeedHandler: handler.NewActivityFeedHandler(events, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
