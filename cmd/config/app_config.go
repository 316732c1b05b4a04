package config

import (
	"PayGuard-Backend/internal/api/handlers"
	"PayGuard-Backend/internal/api/routes"
	"PayGuard-Backend/internal/middleware"
	"PayGuard-Backend/internal/utils"
	"PayGuard-Backend/internal/utils/storage"
	"PayGuard-Backend/pkg/alert"
	"PayGuard-Backend/pkg/jwt"
	"PayGuard-Backend/pkg/notification"
	"PayGuard-Backend/pkg/scan"
	"PayGuard-Backend/pkg/user"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Kolkata",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	ocrClient := scan.NewVisionOCRClient()
	reasoningClient := scan.NewClaudeClient()

	// Repository
	userRepository := user.NewUserRepository(db)
	scanRepository := scan.NewScanRepository(db)
	alertRepository := alert.NewAlertRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	notificationService := notification.NewNotificationService()
	alertService := alert.NewAlertService(alertRepository, notificationService)
	scanService := scan.NewScanService(scanRepository, userRepository, s3, ocrClient, reasoningClient, alertService)
	userService := user.NewUserService(userRepository)

	// Handler
	scanHandler := handlers.NewScanHandler(scanService, validator)
	alertHandler := handlers.NewAlertHandler(alertService, validator)
	notificationHandler := handlers.NewNotificationHandler(notificationService, validator)
	userHandler := handlers.NewUserHandler(userService, validator)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		ScanHandler:         scanHandler,
		AlertHandler:        alertHandler,
		NotificationHandler: notificationHandler,
		UserHandler:         userHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
