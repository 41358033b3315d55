package config

import "github.com/caarlos0/env/v6"

type Config struct {
	Server struct {
		// Port the HTTP API listens on
		Port int `env:"SERVER_PORT" envDefault:"5250"`

		// Origins allowed by the CORS middleware (the admin dashboard)
		AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	}

	Database struct {
		// Path to the sqlite database file
		Path string `env:"DATABASE_PATH" envDefault:"database/imobiliaria.db"`
	}

	Auth struct {
		// Shared secret expected in the Authorization header of ingestion
		// requests. When empty the server falls back to a presence-only
		// check, which is an incomplete policy kept for parity with early
		// deployments and logged as a warning at startup.
		IngestToken string `env:"INGEST_TOKEN"`
	}

	Extraction struct {
		// Base URL of an OpenAI-compatible chat completion API
		Host string `env:"EXTRACTION_HOST" envDefault:"http://localhost:11434/v1"`

		// Model identifier used for structured extraction
		Model string `env:"EXTRACTION_MODEL" envDefault:"gemini-2.0-flash"`

		// API key for the extraction service ("none" works for local servers)
		APIKey string `env:"EXTRACTION_API_KEY" envDefault:"none"`

		// Per-call timeout for the model invocation (in seconds), bounded
		// separately from the store round trip
		TimeoutSeconds int `env:"EXTRACTION_TIMEOUT" envDefault:"60"`
	}

	Scraper struct {
		// Listing pages fetched and fed through the ingestion pipeline
		TargetURLs []string `env:"SCRAPE_TARGET_URLS" envSeparator:","`

		// Hours between scheduled scrape runs
		IntervalHours int `env:"SCRAPE_INTERVAL_HOURS" envDefault:"24"`

		// Number of concurrent ingest workers draining the scrape queue
		WorkerCount int `env:"SCRAPE_WORKER_COUNT" envDefault:"2"`

		// Maximum number of retries for a failed ingest batch
		MaxRetries int `env:"SCRAPE_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"SCRAPE_RETRY_DELAY" envDefault:"5"`
	}

	Geocoding struct {
		// Directory for the on-disk geocode cache
		CacheDir string `env:"GEOCODE_CACHE_DIR"`
	}

	Telegram struct {
		Enabled  bool   `env:"TELEGRAM_ENABLED" envDefault:"false"`
		BotToken string `env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `env:"TELEGRAM_CHAT_ID"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
