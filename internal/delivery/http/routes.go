package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ecoshop/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)
	router.GET("/docs", handler.Docs)

	api := router.Group("/api")
	{
		api.POST("/search", handler.SearchProducts)
		api.POST("/extract-product", handler.ExtractProduct)

		categories := api.Group("/categories")
		{
			categories.GET("", handler.ListCategories)
			categories.GET("/:category", handler.CategoryProducts)
		}

		cart := api.Group("/cart")
		{
			cart.GET("", handler.GetCart)
			cart.DELETE("", handler.ClearCart)
			cart.POST("/items", handler.AddCartItem)
			cart.PATCH("/items/:id", handler.UpdateCartItem)
			cart.DELETE("/items/:id", handler.RemoveCartItem)
		}

		points := api.Group("/points")
		{
			points.GET("", handler.GetPoints)
			points.DELETE("", handler.ResetPoints)
			points.POST("/add", handler.AddPoints)
			points.POST("/subtract", handler.SubtractPoints)
			points.POST("/receipts", handler.AwardReceipt)
		}
	}

	return router
}
