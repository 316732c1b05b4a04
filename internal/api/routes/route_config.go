package routes

import (
	"PayGuard-Backend/internal/api/handlers"
	"PayGuard-Backend/internal/middleware"
	"PayGuard-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                 *fiber.App
	ScanHandler         handlers.ScanHandler
	AlertHandler        handlers.AlertHandler
	NotificationHandler handlers.NotificationHandler
	UserHandler         handlers.UserHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Scans()
	c.Alerts()
	c.Notifications()
	c.Users()
	c.GuestRoute()
}

func (c *Config) Scans() {
	scans := c.App.Group("/api/v1/scans", c.Middleware.AuthMiddleware(c.JWTService))
	scans.Get("/dashboard", c.ScanHandler.GetDashboardStats)

	scans.Post("/analyze", c.ScanHandler.AnalyzeScan)
	scans.Post("/upload", c.ScanHandler.UploadScanImage)
	scans.Get("", c.ScanHandler.GetScans)
	scans.Get("/:id", c.ScanHandler.GetScanDetails)
}

func (c *Config) Alerts() {
	alerts := c.App.Group("/api/v1/alerts", c.Middleware.AuthMiddleware(c.JWTService))
	alerts.Get("", c.AlertHandler.GetAlerts)
	alerts.Patch("/:id", c.AlertHandler.UpdateAlertStatus)
}

func (c *Config) Notifications() {
	notifications := c.App.Group("/api/v1/notifications", c.Middleware.AuthMiddleware(c.JWTService))
	notifications.Post("/push", c.NotificationHandler.SendPushNotification)
}

func (c *Config) Users() {
	users := c.App.Group("/api/v1/users", c.Middleware.AuthMiddleware(c.JWTService))
	users.Post("/device-token", c.UserHandler.RegisterDeviceToken)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
