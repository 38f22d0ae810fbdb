// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agrihedge/agrihedge-backend/internal/config"
	"github.com/agrihedge/agrihedge-backend/internal/handlers"
	"github.com/agrihedge/agrihedge-backend/internal/middleware"
	"github.com/agrihedge/agrihedge-backend/internal/models"
	"github.com/agrihedge/agrihedge-backend/internal/services"
	"github.com/agrihedge/agrihedge-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db)
	marketService := services.NewMarketDataService(db)

	authService := services.NewAuthService(db, cfg)
	listingService := services.NewListingService(db, cfg, marketService)
	contractService := services.NewContractService(db, cfg, notificationService)
	dashboardService := services.NewDashboardService(db, marketService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	listingHandler := handlers.NewListingHandler(listingService)
	contractHandler := handlers.NewContractHandler(contractService)
	marketHandler := handlers.NewMarketHandler(marketService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, notificationService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		var listings, contracts int64
		db.Model(&models.Listing{}).Count(&listings)
		db.Model(&models.Contract{}).Count(&contracts)
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   "1.0.0",
			"listings":  listings,
			"contracts": contracts,
		})
	})

	// API routes
	v1 := r.Group("/api/v1")
	{
		// Authentication (rate limited separately)
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Market data is public
		market := v1.Group("/market")
		{
			market.GET("/prices", marketHandler.GetCurrentPrices)
			market.GET("/prices/:type/history", marketHandler.GetPriceHistory)
			market.GET("/forecasts", marketHandler.GetForecasts)
		}

		// Listings
		listings := v1.Group("/listings")
		listings.Use(middleware.AuthRequired())
		{
			listings.POST("", middleware.FarmerRequired(), listingHandler.CreateListing)
			listings.GET("/my", middleware.FarmerRequired(), listingHandler.GetMyListings)
			listings.GET("/available", middleware.TraderRequired(), listingHandler.SearchAvailableListings)
			listings.GET("/:id", listingHandler.GetListing)
			listings.GET("/:id/contracts", contractHandler.ListContracts)
		}

		// Contracts
		contracts := v1.Group("/contracts")
		contracts.Use(middleware.AuthRequired())
		{
			contracts.POST("", contractHandler.ProposeContract)
			contracts.GET("", contractHandler.ListContracts)
			contracts.GET("/pending", middleware.TraderRequired(), contractHandler.GetPendingContracts)
			contracts.GET("/:id", contractHandler.GetContract)
			contracts.POST("/:id/accept", contractHandler.AcceptContract)
			contracts.POST("/:id/reject", contractHandler.RejectContract)
			contracts.POST("/:id/cancel", contractHandler.CancelContract)
			contracts.POST("/:id/complete", contractHandler.CompleteContract)
		}

		// Dashboards and notifications
		dashboard := v1.Group("/dashboard")
		dashboard.Use(middleware.AuthRequired())
		{
			dashboard.GET("/farmer", middleware.FarmerRequired(), dashboardHandler.GetFarmerDashboard)
			dashboard.GET("/trader", middleware.TraderRequired(), dashboardHandler.GetTraderDashboard)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", dashboardHandler.GetNotifications)
			notifications.POST("/:id/read", dashboardHandler.MarkNotificationRead)
		}
	}

	return r
}
