package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Host string
	Port string

	// Database settings
	DatabasePath string

	// Logging settings
	LogLevel  string
	LogFormat string

	// Cache settings
	CacheSize int
	CacheTTL  time.Duration

	// UYAP portal settings
	PortalBaseURL string
	HeadlessMode  bool
	UserAgent     string
	BrowserPath   string

	// Office backend settings
	OfficeAPIURL  string
	ImportTimeout time.Duration

	// Our lawyer roster, used to tell client side from opponent side
	OurLawyers []string

	// Pacing settings
	SettleInterval time.Duration
	SettleMaxWait  time.Duration
	InterCaseDelay time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not an error if .env doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Host:          getEnv("HOST", "0.0.0.0"),
		Port:          getEnv("PORT", "8080"),
		DatabasePath:  getEnv("DATABASE_PATH", "./data/uyap_import.db"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		PortalBaseURL: getEnv("UYAP_BASE_URL", "https://avukatbeta.uyap.gov.tr"),
		UserAgent:     getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		BrowserPath:   getEnv("ROD_BROWSER_PATH", ""),
		OfficeAPIURL:  getEnv("OFFICE_API_URL", "http://localhost:5000"),
	}

	cfg.OurLawyers = splitList(getEnv("OUR_LAWYERS", "BATUHAN KAPLAN,MUSTAFA KAPLAN,PERİZE KAPLAN,SELVİ DERTLİ"))

	var err error
	cfg.CacheSize, err = strconv.Atoi(getEnv("CACHE_SIZE", "500"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SIZE: %w", err)
	}

	cacheTTL, err := strconv.Atoi(getEnv("CACHE_TTL", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = time.Duration(cacheTTL) * time.Minute

	importTimeout, err := strconv.Atoi(getEnv("IMPORT_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMPORT_TIMEOUT: %w", err)
	}
	cfg.ImportTimeout = time.Duration(importTimeout) * time.Second

	settleInterval, err := strconv.Atoi(getEnv("SETTLE_INTERVAL_MS", "250"))
	if err != nil {
		return nil, fmt.Errorf("invalid SETTLE_INTERVAL_MS: %w", err)
	}
	cfg.SettleInterval = time.Duration(settleInterval) * time.Millisecond

	settleMax, err := strconv.Atoi(getEnv("SETTLE_MAX_WAIT_MS", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid SETTLE_MAX_WAIT_MS: %w", err)
	}
	cfg.SettleMaxWait = time.Duration(settleMax) * time.Millisecond

	interCase, err := strconv.Atoi(getEnv("INTER_CASE_DELAY_MS", "500"))
	if err != nil {
		return nil, fmt.Errorf("invalid INTER_CASE_DELAY_MS: %w", err)
	}
	cfg.InterCaseDelay = time.Duration(interCase) * time.Millisecond

	cfg.HeadlessMode = getEnv("HEADLESS_MODE", "false") == "true"

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
