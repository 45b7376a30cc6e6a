package main

import (
	"context"

	"forems-backend/config"
	"forems-backend/middleware"
	"forems-backend/token"
	"forems-backend/utils"

	// Repositories
	applications_repositories "forems-backend/applications/repositories"
	payments_repositories "forems-backend/payments/repositories"
	properties_repositories "forems-backend/properties/repositories"
	users_repositories "forems-backend/users/repositories"

	// Services
	contracts_services "forems-backend/contracts/services"
	contracts_tasks "forems-backend/contracts/tasks"
	payments_services "forems-backend/payments/services"

	// Routes
	application_routes "forems-backend/applications/routes"
	payment_routes "forems-backend/payments/routes"
	property_routes "forems-backend/properties/routes"
	user_routes "forems-backend/users/routes"

	// Bleve
	bleveControllers "forems-backend/bleve/controllers"
	bleveRepositories "forems-backend/bleve/repositories"
	bleveRoutes "forems-backend/bleve/routes"
	bleveServices "forems-backend/bleve/services"

	// WebSocket
	"forems-backend/websocket"

	"forems-backend/db"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	config.InitLogger()

	if err := godotenv.Load(".env"); err != nil {
		config.Logger.Fatal("Error loading .env file", zap.Error(err))
	}

	app := fiber.New()
	middleware.InitCors(app)

	gormDB := config.ConfigureDatabase()
	port := config.GetEnvOrDefault("PORT", "8080")
	ctx := context.Background()

	redisAddr := config.GetEnvOrDefault("REDIS_ADDRESS", "localhost:6379")
	redisClient := config.InitRedisServer(ctx)

	// asynq maintains its own Redis connection pool.
	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: config.GetEnv("REDIS_PASSWORD"),
		DB:       0,
	}
	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	tokenMaker, err := token.NewPasetoMaker(config.GetEnv("TOKEN_SYMMETRIC_KEY"))
	if err != nil {
		config.Logger.Fatal("Cannot create token maker", zap.Error(err))
	}

	if err := utils.InitializeDateLocation(); err != nil {
		config.Logger.Fatal("Failed to initialize date location", zap.Error(err))
	}

	utils.InitializeMailer()
	if utils.GetMailer() == nil {
		config.Logger.Fatal("Mailer not initialized")
	}

	indexPath := config.GetEnvOrDefault("BLEVE_INDEX_PATH", "./bleve_data")

	appCtx := &middleware.AppContext{
		PasetoMaker: tokenMaker,
		Ctx:         ctx,
		RedisClient: redisClient,
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()

	app.Static("/public", "./public")
	app.Static("/uploads", "./uploads")

	// Repositories
	bleveIndexingService := bleveServices.NewIndexingService(config.Logger, indexPath)
	bleveServiceRepo, bleveInterfaceRepo := bleveRepositories.NewBleveRepository(bleveIndexingService)
	userRepo := users_repositories.NewUserRepository(gormDB)
	propertyRepo := properties_repositories.NewPropertyRepository(gormDB)
	applicationRepo := applications_repositories.NewApplicationRepository(gormDB)
	paymentRepo := payments_repositories.NewPaymentRepository(gormDB)

	// Contract generation pipeline
	fileStorage := utils.NewLocalFileStorage("./uploads")
	contractService := contracts_services.NewContractService(fileStorage)
	if err := contracts_services.EnsureContractDirectory("./uploads"); err != nil {
		config.Logger.Fatal("Failed to prepare contract storage", zap.Error(err))
	}
	contractEnqueuer := contracts_tasks.NewContractEnqueuer(asynqClient)
	contractHandler := contracts_tasks.NewContractTaskHandler(gormDB, contractService)
	workerServer, workerMux := contracts_tasks.NewWorkerServer(asynqRedisOpt, contractHandler)
	go func() {
		if err := workerServer.Run(workerMux); err != nil {
			config.Logger.Fatal("Contract worker failed", zap.Error(err))
		}
	}()

	// Payment services
	referenceService := payments_services.NewReferenceService(paymentRepo)
	reconciliationService := payments_services.NewReconciliationService(paymentRepo, contractEnqueuer, wsHub)

	// Routes
	user_routes.UserInitRoutes(app, appCtx, userRepo)
	property_routes.PropertyInitRoutes(app, appCtx, propertyRepo, gormDB)
	application_routes.ApplicationInitRoutes(app, appCtx, applicationRepo, propertyRepo, userRepo, bleveInterfaceRepo, wsHub, redisClient, gormDB)
	payment_routes.PaymentInitRoutes(app, appCtx, referenceService, reconciliationService)

	bleveController := bleveControllers.NewSearchController(bleveServiceRepo)
	bleveRoutes.InitBleveRoutes(app, appCtx, bleveController)

	wsHandler := websocket.NewWsHandler(wsHub, tokenMaker)
	app.Get("/ws", wsHandler.HandleWebSocket)

	// Background cleanup: stale pending payments, expired exports, caches
	go utils.RunScheduledCleanup(gormDB, redisClient)

	// Bootstrap data for a fresh install
	adminEmail := config.GetEnvOrDefault("SEED_ADMIN_EMAIL", "admin@forems.africa")
	if err := db.SeedInitialAdminUser(gormDB, adminEmail, config.GetEnvOrDefault("SEED_ADMIN_PASSWORD", "changeme-now")); err != nil {
		config.Logger.Error("Admin seeding failed", zap.Error(err))
	}
	if config.GetEnv("SEED_DEMO_DATA") == "true" {
		if err := db.SeedDemoProperties(gormDB, adminEmail); err != nil {
			config.Logger.Error("Demo property seeding failed", zap.Error(err))
		}
	}

	config.Logger.Info("Server starting", zap.String("port", port))
	config.Logger.Fatal("Server failed", zap.String("port", port), zap.Error(app.Listen(":"+port)))
}
