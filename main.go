package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"seatfinder/internal/handlers"
	"seatfinder/internal/middleware"
	"seatfinder/internal/models"
	"seatfinder/internal/repositories"
	"seatfinder/internal/services"
	"seatfinder/pkg/rabbitmq"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("SQLITE_PATH", "jee_data.db")
	viper.SetDefault("JWT_SECRET", "change_me")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "admin123")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("SEED_CSV", "")
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")

	// --- Database ---
	// Postgres when DATABASE_URL is set, the local SQLite file otherwise.
	var dialector gorm.Dialector
	if dsn := viper.GetString("DATABASE_URL"); dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(viper.GetString("SQLITE_PATH"))
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(&models.SeatOffer{}, &models.User{}, &models.ShortlistEntry{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	// --- Catalog event publisher (optional) ---
	var publisher services.CatalogEventPublisher
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		publisher = mqClient
		logger.Info().Msg("catalog event publisher connected")
	} else {
		logger.Info().Msg("RABBITMQ_URL not set, catalog events disabled")
	}

	// --- Repositories ---
	catalogRepo := repositories.NewGORMCatalogRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	shortlistRepo := repositories.NewGORMShortlistRepository(db)

	// --- Services ---
	catalogService := services.NewCatalogService(catalogRepo, publisher)
	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"))
	shortlistService := services.NewShortlistService(shortlistRepo)
	exportService := services.NewExportService()

	seedCatalog(catalogService, catalogRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, exportService)
	shortlistHandler := handlers.NewShortlistHandler(shortlistService, exportService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(fiberlogger.New()) // Request logger

	apiV1 := app.Group("/api/v1")

	// Public routes.
	authHandler.RegisterRoutes(apiV1)
	catalogHandler.RegisterRoutes(apiV1)

	// Routes requiring a session.
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protectedRoutes)
	shortlistHandler.RegisterRoutes(protectedRoutes)

	// Admin routes behind the shared credential gate.
	adminRoutes := apiV1.Group("/admin", middleware.AdminRequired(
		viper.GetString("ADMIN_USERNAME"),
		viper.GetString("ADMIN_PASSWORD"),
	))
	catalogHandler.RegisterAdminRoutes(adminRoutes)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP server with graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info().Str("port", appPort).Msg("starting server")
		if err := app.Listen(appPort); err != nil {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	logger.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
	}
	logger.Info().Msg("server stopped")
}

// seedCatalog bulk-loads the counselling CSV named by SEED_CSV into an
// empty catalog. A populated catalog is never re-seeded.
func seedCatalog(catalogService *services.CatalogService, catalogRepo repositories.CatalogRepository) {
	path := viper.GetString("SEED_CSV")
	if path == "" {
		return
	}
	count, err := catalogRepo.Count()
	if err != nil {
		logger.Error().Err(err).Msg("failed to check catalog size, skipping seed")
		return
	}
	if count > 0 {
		logger.Info().Int64("rows", count).Msg("catalog already populated, skipping seed")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to open seed CSV")
		return
	}
	defer f.Close()

	result, err := catalogService.ImportCSV(f)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("seed import failed")
		return
	}
	logger.Info().Int("imported", result.Imported).Int("skipped", result.Skipped).Str("path", path).Msg("seeded catalog")
}
