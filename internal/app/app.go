package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"sira/internal/config"
	"sira/internal/handlers"
	"sira/internal/middleware"
	"sira/internal/realtime"
	"sira/internal/repositories"
	"sira/internal/routes"
	"sira/internal/services"
	"sira/internal/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "sira/docs"
)

func Run() {
	cfg := config.LoadConfig()

	if cfg.JWT.Secret != "" {
		middleware.JWTKey = []byte(cfg.JWT.Secret)
	}

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// === Redis ===
	cache := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer cache.Close()

	// === Repos ===
	profileRepo := repositories.NewProfileRepository(db)
	verifRepo := repositories.NewVerificationRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	taskerAppRepo := repositories.NewTaskerApplicationRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	pendingStore := repositories.NewPendingRegistrationStore(cache)
	resendLimiter := repositories.NewResendLimiter(cache, 60*time.Second)

	// === Services ===
	smsClient := utils.NewSMSClient(
		cfg.SMS.RelayURL,
		cfg.SMS.APIKey,
		cfg.SMS.SenderID,
		cfg.SMS.DryRun,
	)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	alertService := services.NewAlertService(cfg.Telegram.BotToken, cfg.Telegram.AlertChatID)

	verificationService := services.NewVerificationService(verifRepo, smsClient, alertService)
	authService := services.NewAuthService(profileRepo, pendingStore, verificationService)
	profileService := services.NewProfileService(profileRepo)
	taskService := services.NewTaskService(taskRepo, appRepo, profileRepo)
	bookingService := services.NewBookingService(bookingRepo, profileRepo)
	reviewService := services.NewReviewService(reviewRepo, taskRepo, profileRepo)
	taskerAppService := services.NewTaskerApplicationService(taskerAppRepo, profileRepo, emailService, alertService)
	chatService := services.NewChatService(chatRepo)

	// hourly sweep of expired verification codes
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go verificationService.RunCleanup(sweepCtx, time.Hour)

	hub := realtime.NewTaskHub()

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService, verificationService, resendLimiter)
	profileHandler := handlers.NewProfileHandler(profileService)
	taskHandler := handlers.NewTaskHandler(taskService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	taskerAppHandler := handlers.NewTaskerApplicationHandler(taskerAppService)
	chatHandler := handlers.NewChatHandler(chatService, hub)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		profileHandler,
		taskHandler,
		bookingHandler,
		reviewHandler,
		taskerAppHandler,
		chatHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
