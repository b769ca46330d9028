package routes

import (
	"net/http"
	"time"

	"chargebay/handlers"
	"chargebay/middleware"
	"chargebay/models"
	"chargebay/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account endpoints.
func RegisterAuthRoutes(r *gin.Engine) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", handlers.RegisterHandler)
		api.POST("/login", handlers.LoginHandler)

		api.Use(middleware.AuthMiddleware())
		api.GET("/me", handlers.MeHandler)
	}
}

// RegisterStationRoutes registers charging-station endpoints.
func RegisterStationRoutes(r *gin.Engine) {
	api := r.Group("/api/stations")
	{
		// Public discovery endpoints.
		api.GET("", handlers.GetStationsHandler)
		api.GET("/:id", handlers.GetStationHandler)

		// Owner-only management endpoints.
		owner := api.Group("")
		owner.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleStationOwner))
		owner.POST("", handlers.CreateStationHandler)
		owner.GET("/owner/my-stations", handlers.GetMyStationsHandler)
		owner.PUT("/:id", handlers.UpdateStationHandler)
		owner.DELETE("/:id", handlers.DeleteStationHandler)
		owner.POST("/:id/block-slots", handlers.BlockSlotHandler)
		owner.GET("/:id/stats", handlers.StationStatsHandler)
	}
}

// RegisterBookingRoutes registers booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine) {
	api := r.Group("/api/bookings")
	{
		// Public availability lookup.
		api.GET("/availability/:stationId", handlers.GetAvailabilityHandler)

		api.Use(middleware.AuthMiddleware())
		api.POST("", middleware.RequireRole(models.RoleEVOwner), handlers.CreateBookingHandler)
		api.GET("/my-bookings", middleware.RequireRole(models.RoleEVOwner), handlers.GetMyBookingsHandler)
		api.GET("", middleware.RequireRole(models.RoleStationOwner), handlers.GetOwnerBookingsHandler)
		api.GET("/station/:stationId", middleware.RequireRole(models.RoleStationOwner), handlers.GetStationBookingsHandler)
		api.GET("/:id", handlers.GetBookingHandler)
		api.PUT("/:id/status", handlers.UpdateBookingStatusHandler)
		api.PUT("/:id/cancel", middleware.RequireRole(models.RoleEVOwner), handlers.CancelBookingHandler)
		api.POST("/:id/review", middleware.RequireRole(models.RoleEVOwner), handlers.AddReviewHandler)
		api.PUT("/:id/payment-status", middleware.RequireRole(models.RoleEVOwner), handlers.SetPaymentStatusHandler)
	}
}

// RegisterPaymentRoutes registers payment endpoints.
func RegisterPaymentRoutes(r *gin.Engine) {
	api := r.Group("/api/payments")
	{
		api.Use(middleware.AuthMiddleware())
		api.POST("/create-payment-intent", middleware.RequireRole(models.RoleEVOwner), handlers.CreatePaymentIntentHandler)
		api.POST("/confirm-payment", middleware.RequireRole(models.RoleEVOwner), handlers.ConfirmPaymentHandler)
		api.POST("/refund", middleware.RequireRole(models.RoleStationOwner), handlers.RefundHandler)
		api.GET("/status/:bookingId", middleware.RequireRole(models.RoleEVOwner), handlers.GetPaymentStatusHandler)
		api.GET("/station/:stationId/history", middleware.RequireRole(models.RoleStationOwner), handlers.GetStationPaymentHistoryHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r)
	RegisterStationRoutes(r)
	RegisterBookingRoutes(r)
	RegisterPaymentRoutes(r)
	RegisterHealthRoute(r)
}
