package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Musallamjaw/CTRL/config"
	"github.com/Musallamjaw/CTRL/internal/handlers"
	"github.com/Musallamjaw/CTRL/internal/logger"
	"github.com/Musallamjaw/CTRL/internal/mail"
	"github.com/Musallamjaw/CTRL/internal/middleware"
	"github.com/Musallamjaw/CTRL/internal/qr"
	"github.com/Musallamjaw/CTRL/internal/ticketing"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel)

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	smtpCfg, err := config.LoadSMTPConfig()
	if err != nil {
		return fmt.Errorf("failed to load SMTP config: %v", err)
	}

	generator := qr.NewFileGenerator(cfg.QRCodeDir)
	mailer := mail.NewSMTPSender(smtpCfg, cfg.QRCodeDir)
	tickets := ticketing.NewService(db, generator, mailer, slog.Default())

	r := gin.Default()

	setupRoutes(r, db, tickets, mailer, cfg)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("server listening", "port", port)
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, tickets *ticketing.Service, mailer *mail.SMTPSender, cfg *config.Config) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.TicketingMiddleware(tickets))
	r.Use(middleware.MailerMiddleware(mailer))

	public := r.Group("/v1")
	{
		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/closest", handlers.GetClosestEvent)
			eventPublic.GET("/count/:filter", handlers.CountEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
		}

		public.POST("/contact", handlers.SendContactMessage)
	}

	scanner := r.Group("/v1")
	scanner.Use(middleware.ScannerAuthMiddleware(cfg.ScannerKeyHash))
	{
		scanner.GET("/events/scanner", handlers.ListScannerEvents)
		scanner.POST("/tickets/scan", handlers.ScanTicket)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		eventProtected := protected.Group("/events")
		{
			eventProtected.POST("", handlers.CreateEvent)
			eventProtected.PUT("/:id", handlers.UpdateEvent)
			eventProtected.DELETE("/:id", handlers.DeleteEvent)
		}

		ticketProtected := protected.Group("/tickets")
		{
			ticketProtected.POST("", handlers.IssueTickets)
			ticketProtected.GET("/count/:filter", handlers.CountTickets)
			ticketProtected.GET("/count/:filter/:userId", handlers.CountUserTickets)
			ticketProtected.GET("/user/:userId", handlers.ListUserTickets)
			ticketProtected.GET("/purchased/:userId/:eventId", handlers.CheckUserTicketForEvent)
		}
	}
}
