package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/storelane/catalog_api/internal/cache"
	"github.com/storelane/catalog_api/internal/config"
	"github.com/storelane/catalog_api/internal/database"
	"github.com/storelane/catalog_api/internal/handler"
	"github.com/storelane/catalog_api/internal/middleware"
	"github.com/storelane/catalog_api/internal/repository"
	"github.com/storelane/catalog_api/internal/service"
	"github.com/storelane/catalog_api/internal/utils"
)

// main is the application entrypoint for the catalog admin API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting catalog api")

	utils.InitJWT(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis. The list cache is an optimization; run without
	// it when Redis is unreachable.
	var catalogCache *cache.CatalogCache
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis connection failed - product list cache disabled")
	} else {
		defer redisClient.Close()
		catalogCache = cache.NewCatalogCache(redisClient)
		log.Info().Msg("redis connected successfully")
	}

	// 4. Select the image store: remote host when credentials are present,
	// local disk fallback otherwise. Decided once, here.
	var imageStore service.ImageStore
	if cfg.S3.Enabled() {
		imageStore, err = service.NewS3ImageStore(&cfg.S3)
		if err != nil {
			log.Error().Err(err).Msg("S3 image store initialization failed")
			os.Exit(1)
		}
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("using remote image host")
	} else {
		imageStore, err = service.NewLocalImageStore(&cfg.Upload)
		if err != nil {
			log.Error().Err(err).Msg("local image store initialization failed")
			os.Exit(1)
		}
		log.Info().Str("dir", cfg.Upload.Dir).Msg("using local image storage")
	}
	imageResolver := service.NewImageResolver(imageStore)

	// 5. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)

	// 6. Initialize services
	var listCache service.ListCache
	if catalogCache != nil {
		listCache = catalogCache
	}
	productSvc := service.NewProductService(productRepo, listCache)
	categorySvc := service.NewCategoryService(categoryRepo)
	authSvc := service.NewAuthService(userRepo)

	// 6a. Bootstrap the admin account if configured
	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authSvc.EnsureAdmin(bootstrapCtx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Warn().Err(err).Msg("admin bootstrap failed")
	}
	cancelBootstrap()

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db),
		Product:  handler.NewProductHandler(productSvc, imageResolver),
		Category: handler.NewCategoryHandler(categorySvc),
		Auth:     handler.NewAuthHandler(authSvc),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Static(cfg.Upload.PublicPath, cfg.Upload.Dir)
	setupRoutes(router, handlers, jwtMw)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Auth     *handler.AuthHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Auth
	auth := router.Group("/v1/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
	}

	// Catalog read surface (public)
	products := router.Group("/v1/products")
	{
		products.GET("", handlers.Product.ListProducts)
		products.GET("/top", handlers.Product.TopProducts)
		products.GET("/new", handlers.Product.NewProducts)
		products.POST("/filter", handlers.Product.FilterProducts)
		products.GET("/:id", handlers.Product.GetProduct)

		// Reviews need an authenticated caller identity
		products.POST("/:id/reviews", jwtMiddleware.Handle(), handlers.Product.AddReview)

		// Catalog management (admin)
		products.GET("/all", jwtMiddleware.HandleAdmin(), handlers.Product.ListAdminProducts)
		products.POST("", jwtMiddleware.HandleAdmin(), handlers.Product.CreateProduct)
		products.PUT("/:id", jwtMiddleware.HandleAdmin(), handlers.Product.UpdateProduct)
		products.DELETE("/:id", jwtMiddleware.HandleAdmin(), handlers.Product.DeleteProduct)
	}

	// Categories
	categories := router.Group("/v1/categories")
	{
		categories.GET("", handlers.Category.ListCategories)
		categories.GET("/:id", handlers.Category.GetCategory)
		categories.POST("", jwtMiddleware.HandleAdmin(), handlers.Category.CreateCategory)
		categories.PUT("/:id", jwtMiddleware.HandleAdmin(), handlers.Category.UpdateCategory)
		categories.DELETE("/:id", jwtMiddleware.HandleAdmin(), handlers.Category.DeleteCategory)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
