package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chargebay/config"
	"chargebay/cron"
	"chargebay/database"
	bookingRepoPkg "chargebay/database/repository/booking"
	stationRepoPkg "chargebay/database/repository/station"
	userRepoPkg "chargebay/database/repository/user"
	"chargebay/handlers"
	"chargebay/middleware"
	"chargebay/routes"
	bookingSvc "chargebay/services/booking"
	paymentSvc "chargebay/services/payment"
	stationSvc "chargebay/services/station"
	userSvc "chargebay/services/user"
	"chargebay/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	stationRepo := stationRepoPkg.NewMongoStationRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()

	// services.
	handlers.UserSvc = &userSvc.DefaultUserService{
		Repo:   userRepo,
		Logger: logger,
	}
	handlers.StationSvc = &stationSvc.DefaultStationService{
		Repo:        stationRepo,
		BookingRepo: bookingRepo,
		Logger:      logger,
	}
	handlers.BookingSvc = &bookingSvc.DefaultBookingService{
		BookingRepo: bookingRepo,
		StationRepo: stationRepo,
		Logger:      logger,
	}
	handlers.PaymentSvc = &paymentSvc.DefaultPaymentService{
		BookingRepo: bookingRepo,
		StationRepo: stationRepo,
		Gateway:     paymentSvc.NewStripeGateway(),
		Currency:    config.AppConfig.Currency,
		Logger:      logger,
	}

	routes.RegisterRoutes(router)

	// Background slot-counter reconciliation.
	cron.InitReconcileWorker(stationRepo, bookingRepo)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
