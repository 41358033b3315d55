package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"imobiliaria/server/config"
	"imobiliaria/server/internal/api"
	"imobiliaria/server/internal/database"
	"imobiliaria/server/internal/extraction"
	"imobiliaria/server/internal/geocoding"
	"imobiliaria/server/internal/ingestion"
	"imobiliaria/server/internal/processor"
	"imobiliaria/server/internal/queue"
	"imobiliaria/server/internal/scheduler"
	"imobiliaria/server/internal/scraping"
	"imobiliaria/server/internal/telegram"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Initialize database
	logger.Infof("Using database at: %s", cfg.Database.Path)
	os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755)
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Initialize the extraction client
	extractor, err := extraction.NewClient(
		cfg.Extraction.Host,
		cfg.Extraction.APIKey,
		cfg.Extraction.Model,
		time.Duration(cfg.Extraction.TimeoutSeconds)*time.Second,
		logger,
	)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize extraction client")
	}

	// Pick the token verification policy. The scrape processor calls the
	// pipeline with the same token as external webhook callers, so the
	// presence-only fallback still needs a non-empty token for the
	// in-process path.
	var verifier ingestion.TokenVerifier
	ingestToken := cfg.Auth.IngestToken
	if ingestToken != "" {
		verifier = ingestion.StaticVerifier{Token: ingestToken}
	} else {
		// Presence-only checking is a stopgap, not a real policy.
		logger.Warn("INGEST_TOKEN is not set; accepting any non-empty bearer token")
		verifier = ingestion.PresenceVerifier{}
		ingestToken = uuid.NewString()
	}

	pipeline := ingestion.NewPipeline(db, extractor, verifier, logger)

	// Initialize handler
	handler := api.NewHandler(db, pipeline, logger)

	// Wire the geocoder for the coordinates maintenance endpoint
	cacheDir := cfg.Geocoding.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "imobiliaria", "geocode_cache")
	}
	handler.SetGeocoder(geocoding.NewGeocoder(logger, cacheDir))

	// Wire the scraper ingest path
	listingQueue := queue.NewListingQueue(100, logger)
	scraper := scraping.NewScraper(listingQueue, logger)
	handler.SetScraper(scraper)

	ingestProcessor := processor.NewIngestProcessor(pipeline, listingQueue, cfg, ingestToken, logger)
	ingestProcessor.Start()
	defer ingestProcessor.Stop()

	scrapeScheduler := scheduler.NewScheduler(
		scraper,
		cfg.Scraper.TargetURLs,
		time.Duration(cfg.Scraper.IntervalHours)*time.Hour,
		logger,
	)
	scrapeScheduler.Start()
	defer scrapeScheduler.Stop()

	// Wire the optional Telegram notifier
	if cfg.Telegram.Enabled {
		handler.SetNotifier(telegram.NewService(logger, telegram.Config{
			IsEnabled: true,
			BotToken:  cfg.Telegram.BotToken,
			ChatID:    cfg.Telegram.ChatID,
		}))
	}

	// Initialize router
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	api.SetupRoutes(router, handler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Infof("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
