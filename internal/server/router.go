package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shadeapp/shade-backend/internal/handlers"
	"github.com/shadeapp/shade-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler           *handlers.AuthHandler
	AuthMiddleware        *middleware.AuthMiddleware
	ProfileHandler        *handlers.ProfileHandler
	WardrobeHandler       *handlers.WardrobeHandler
	OutfitHandler         *handlers.OutfitHandler
	ProductHandler        *handlers.ProductHandler
	SearchHandler         *handlers.SearchHandler
	RecommendationHandler *handlers.RecommendationHandler
	TaxonomyHandler       *handlers.TaxonomyHandler
	AllowedOrigins        []string
	IngestToken           string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.POST("/auth/register", cfg.AuthHandler.Register)
	api.POST("/auth/login", cfg.AuthHandler.Login)
	api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
	api.GET("/taxonomy", cfg.TaxonomyHandler.Get)

	// Catalog reads are world-readable; a token, when present, still resolves
	// the caller for request logging.
	catalog := api.Group("/products")
	catalog.Use(cfg.AuthMiddleware.OptionalAuth())
	catalog.GET("", cfg.ProductHandler.List)
	catalog.GET("/:id", cfg.ProductHandler.Get)
	catalog.GET("/:id/similar", cfg.ProductHandler.Similar)

	// Ingestion is service-to-service, guarded by a shared token.
	if cfg.IngestToken != "" {
		api.POST("/products/ingest", requireIngestToken(cfg.IngestToken), cfg.ProductHandler.Ingest)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	protected.POST("/auth/logout", cfg.AuthHandler.Logout)

	// Profile
	protected.GET("/profile", cfg.ProfileHandler.GetMe)
	protected.PATCH("/profile", cfg.ProfileHandler.UpdateMe)
	protected.GET("/profile/onboarding", cfg.ProfileHandler.OnboardingStatus)
	protected.DELETE("/profile", cfg.ProfileHandler.DeleteAccount)

	// Wardrobe
	protected.POST("/wardrobe", cfg.WardrobeHandler.Create)
	protected.GET("/wardrobe", cfg.WardrobeHandler.List)
	protected.GET("/wardrobe/:id", cfg.WardrobeHandler.Get)
	protected.PATCH("/wardrobe/:id", cfg.WardrobeHandler.Update)
	protected.DELETE("/wardrobe/:id", cfg.WardrobeHandler.Delete)
	protected.POST("/wardrobe/:id/wear", cfg.WardrobeHandler.LogWear)
	protected.PUT("/wardrobe/:id/favorite", cfg.WardrobeHandler.SetFavorite)
	protected.PUT("/wardrobe/:id/embedding", cfg.WardrobeHandler.SetEmbedding)
	protected.GET("/wardrobe/:id/similar", cfg.WardrobeHandler.Similar)

	// Outfits
	protected.POST("/outfits", cfg.OutfitHandler.Create)
	protected.GET("/outfits", cfg.OutfitHandler.List)
	protected.GET("/outfits/:id", cfg.OutfitHandler.Get)
	protected.PATCH("/outfits/:id", cfg.OutfitHandler.Update)
	protected.DELETE("/outfits/:id", cfg.OutfitHandler.Delete)
	protected.POST("/outfits/:id/worn", cfg.OutfitHandler.MarkWorn)

	// Search
	protected.POST("/search", cfg.SearchHandler.Execute)
	protected.POST("/search/records", cfg.SearchHandler.Record)
	protected.GET("/search/records", cfg.SearchHandler.List)
	protected.GET("/search/records/:id", cfg.SearchHandler.Get)

	// Recommendations
	protected.POST("/recommendations", cfg.RecommendationHandler.Create)
	protected.GET("/recommendations", cfg.RecommendationHandler.List)
	protected.GET("/recommendations/today", cfg.RecommendationHandler.Today)
	protected.GET("/recommendations/date/:date", cfg.RecommendationHandler.ByDate)
	protected.GET("/recommendations/:id", cfg.RecommendationHandler.Get)
	protected.PUT("/recommendations/:id/feedback", cfg.RecommendationHandler.Feedback)

	return router
}

func requireIngestToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-Ingest-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid ingest token"})
			return
		}
		c.Next()
	}
}
