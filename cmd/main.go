package main

import (
	"context"
	"time"

	config "epi-compliance-backend/config"
	seeddb "epi-compliance-backend/db"
	"epi-compliance-backend/middleware"
	"epi-compliance-backend/utils"

	// Imports pipeline
	import_controllers "epi-compliance-backend/imports/controllers"
	import_repositories "epi-compliance-backend/imports/repositories"
	import_routes "epi-compliance-backend/imports/routes"
	import_workers "epi-compliance-backend/imports/workers"

	// Ocorrências
	ocorrencia_controllers "epi-compliance-backend/ocorrencias/controllers"
	ocorrencia_repositories "epi-compliance-backend/ocorrencias/repositories"
	ocorrencia_routes "epi-compliance-backend/ocorrencias/routes"

	// Dashboards
	dashboard_controllers "epi-compliance-backend/dashboards/controllers"
	dashboard_repositories "epi-compliance-backend/dashboards/repositories"
	dashboard_routes "epi-compliance-backend/dashboards/routes"
	dashboard_services "epi-compliance-backend/dashboards/services"

	// Search
	search_controllers "epi-compliance-backend/search/controllers"
	search_repositories "epi-compliance-backend/search/repositories"
	search_routes "epi-compliance-backend/search/routes"
	search_services "epi-compliance-backend/search/services"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Initialize Zap logger
	config.InitLogger()

	// Load environment variables
	err := godotenv.Load(".env")
	if err != nil {
		config.Logger.Fatal("Error loading .env file", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024, // compliance workbooks can be large
	})

	// Apply CORS middleware from middleware package
	middleware.InitCors(app)

	// Initialize database and configs
	db := config.ConfigureDatabase()
	if err := seeddb.SeedStatusKinds(db); err != nil {
		config.Logger.Error("Status catalog seeding failed", zap.Error(err))
	}
	port := config.GetEnv("PORT")
	ctx := context.Background()

	// Redis client for Asynq, dashboard caching and cleanup
	redisAddr := config.GetEnv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default for development
		config.Logger.Warn("REDIS_ADDRESS not set, using default: localhost:6379")
	}

	redisClient := config.InitRedisServer(ctx)

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: config.GetEnv("REDIS_PASSWORD"),
		DB:       0,
	}

	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	indexPath := config.GetEnv("BLEVE_INDEX_PATH")
	if indexPath == "" {
		indexPath = "./bleve_data" // Default for local development
		config.Logger.Warn("BLEVE_INDEX_PATH not set, using default: ./bleve_data")
	}

	// Initialize the mailer used by the import error reports
	utils.InitializeMailer()
	if utils.GetMailer() == nil {
		config.Logger.Fatal("Mailer not initialized")
	}

	// Serve static files (generated error reports live under /public)
	app.Static("/public", "./public")

	// Repositories
	bleveIndexingService := search_services.NewIndexingService(config.Logger, indexPath)
	searchRepo, searchInterfaceRepo := search_repositories.NewSearchRepository(bleveIndexingService)
	importRepo := import_repositories.NewImportRepository(db)
	ocorrenciaRepo, _ := ocorrencia_repositories.NewOcorrenciaRepository(db)
	dashboardRepo, _ := dashboard_repositories.NewDashboardRepository(db)

	// Services
	dashboardService := dashboard_services.NewDashboardService(dashboardRepo, redisClient)

	// Controllers
	importController := import_controllers.NewImportController(importRepo, asynqClient, redisClient)
	ocorrenciaController := ocorrencia_controllers.NewOcorrenciaController(ocorrenciaRepo)
	dashboardController := dashboard_controllers.NewDashboardController(dashboardService)
	searchController := search_controllers.NewSearchController(searchRepo)

	// Routes
	import_routes.InitImportRoutes(app, importController)
	ocorrencia_routes.InitOcorrenciaRoutes(app, ocorrenciaController)
	dashboard_routes.InitDashboardRoutes(app, dashboardController)
	search_routes.InitSearchRoutes(app, searchController)

	// Background worker for error reports and search reindexing
	taskHandler := import_workers.NewTaskHandler(importRepo, importRepo, searchInterfaceRepo)
	workerServer, workerMux := import_workers.NewWorkerServer(redisAddr, taskHandler)
	go func() {
		if err := workerServer.Run(workerMux); err != nil {
			config.Logger.Fatal("Asynq worker failed", zap.Error(err))
		}
	}()

	// Background cleanup tasks
	go utils.RunScheduledCleanup(&utils.CleanupDeps{
		DB:           db,
		Redis:        redisClient,
		JobRetention: 30 * 24 * time.Hour,
	})

	// Start the application
	config.Logger.Info("Server starting", zap.String("port", port))
	config.Logger.Fatal("Server failed", zap.String("port", port), zap.Error(app.Listen(":"+port)))
}
