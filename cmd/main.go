package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shadeapp/shade-backend/internal/clients/redis"
	"github.com/shadeapp/shade-backend/internal/db"
	"github.com/shadeapp/shade-backend/internal/handlers"
	"github.com/shadeapp/shade-backend/internal/logger"
	"github.com/shadeapp/shade-backend/internal/middleware"
	"github.com/shadeapp/shade-backend/internal/repos"
	"github.com/shadeapp/shade-backend/internal/server"
	"github.com/shadeapp/shade-backend/internal/services"
	"github.com/shadeapp/shade-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	ingestToken := utils.GetEnv("CATALOG_INGEST_TOKEN", "", log)
	allowedOrigins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)
	port := utils.GetEnv("PORT", "8080", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	profileRepo := repos.NewUserProfileRepo(thePG, log)
	wardrobeItemRepo := repos.NewWardrobeItemRepo(thePG, log)
	savedOutfitRepo := repos.NewSavedOutfitRepo(thePG, log)
	productRepo := repos.NewExternalProductRepo(thePG, log)
	outfitSearchRepo := repos.NewOutfitSearchRepo(thePG, log)
	recommendationRepo := repos.NewUserRecommendationRepo(thePG, log)

	// Redis (optional; catalog lists fall through to postgres without it)
	catalogCache, err := redis.NewCatalogCache(log)
	if err != nil {
		log.Warn("Could not init catalog cache", "error", err)
		catalogCache = nil
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, profileRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	profileService := services.NewProfileService(thePG, log, profileRepo, userRepo, userTokenRepo)
	wardrobeService := services.NewWardrobeService(thePG, log, wardrobeItemRepo)
	outfitService := services.NewOutfitService(thePG, log, savedOutfitRepo)
	productService := services.NewProductService(thePG, log, productRepo, catalogCache)
	searchService := services.NewSearchService(thePG, log, outfitSearchRepo, savedOutfitRepo, productRepo)
	recommendationService := services.NewRecommendationService(thePG, log, recommendationRepo, savedOutfitRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	wardrobeHandler := handlers.NewWardrobeHandler(wardrobeService)
	outfitHandler := handlers.NewOutfitHandler(outfitService)
	productHandler := handlers.NewProductHandler(productService)
	searchHandler := handlers.NewSearchHandler(searchService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	taxonomyHandler := handlers.NewTaxonomyHandler()

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:           authHandler,
		AuthMiddleware:        authMiddleware,
		ProfileHandler:        profileHandler,
		WardrobeHandler:       wardrobeHandler,
		OutfitHandler:         outfitHandler,
		ProductHandler:        productHandler,
		SearchHandler:         searchHandler,
		RecommendationHandler: recommendationHandler,
		TaxonomyHandler:       taxonomyHandler,
		AllowedOrigins:        origins,
		IngestToken:           ingestToken,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
