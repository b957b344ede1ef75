package main

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/config"
	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/handlers"
	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/middleware"
	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/services"
	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/tasks"
)

// CustomValidator adapts go-playground/validator to Echo's interface.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := services.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := services.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("Failed to run database migrations")
	}

	cache, err := services.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to redis")
	}
	defer cache.Close()

	if err := tasks.EnsureDefaults(db); err != nil {
		log.WithError(err).Fatal("Failed to seed scheduled tasks")
	}

	creditSvc := services.NewCreditService(db, cache, log, cfg.CreditCacheTTL, cfg.CreditLockTTL)

	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = middleware.CustomErrorHandler(log)
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	authHandler := handlers.NewAuthHandler(db, log, cfg.JWTSecret)
	clientHandler := handlers.NewClientHandler(db)
	creditHandler := handlers.NewCreditHandler(creditSvc)
	ledgerHandler := handlers.NewLedgerHandler(creditSvc)
	dashboardHandler := handlers.NewDashboardHandler(creditSvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	api := e.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(cfg.JWTSecret))

	protected.POST("/users", authHandler.RegisterUser)
	protected.GET("/dashboard", dashboardHandler.Dashboard)

	protected.GET("/clients", clientHandler.ListClients)
	protected.POST("/clients", clientHandler.CreateClient)
	protected.GET("/clients/:id", clientHandler.GetClient)
	protected.PUT("/clients/:id", clientHandler.UpdateClient)

	protected.GET("/credits", creditHandler.ListCredits)
	protected.POST("/credits", creditHandler.CreateCredit)
	protected.GET("/credits/:id", creditHandler.GetCredit)
	protected.PUT("/credits/:id/installments/:number/paid", creditHandler.MarkInstallment)
	protected.POST("/credits/:id/renewal/quote", creditHandler.QuoteRenewal)
	protected.POST("/credits/:id/renewal", creditHandler.RenewCredit)

	protected.POST("/credits/:id/payments", ledgerHandler.AddPayment)
	protected.DELETE("/credits/:id/payments/:paymentID", ledgerHandler.DeletePayment)
	protected.POST("/credits/:id/fines", ledgerHandler.AddFine)
	protected.DELETE("/credits/:id/fines/:fineID", ledgerHandler.DeleteFine)
	protected.POST("/credits/:id/fines/:fineID/payments", ledgerHandler.AddFinePayment)
	protected.DELETE("/credits/:id/fine-payments/:finePaymentID", ledgerHandler.DeleteFinePayment)
	protected.POST("/credits/:id/discounts", ledgerHandler.AddDiscount)
	protected.DELETE("/credits/:id/discounts/:discountID", ledgerHandler.DeleteDiscount)

	log.WithField("port", cfg.Port).Info("Server starting")
	if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("Server stopped")
	}
}
