package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"smartcampus/models"
)

// Health summary data sources.
const (
	SummaryLive = "live"
	SummaryMock = "mock"
)

// Config is the single configuration source for both the client commands and
// the backend.
type Config struct {
	Env      string
	LogLevel string

	// client
	APIBaseURL      string
	MapsAPIKey      string
	APIToken        string
	SummarySource   string
	HTTPTimeout     time.Duration
	HTTPRetries     int
	CampusCenter    models.LatLng
	EmergencyConfig string

	// backend
	Port              string
	MongoURI          string
	MongoDatabase     string
	RedisAddress      string
	RedisPassword     string
	IssueRateLimit    int
	JWTSecret         string
	CORSOrigins       []string
	OutbreakThreshold int
	SeedDemo          bool
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		Env:             getEnv("GO_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		APIBaseURL:      strings.TrimRight(firstEnv("API_BASE_URL", "VITE_API_BASE", "http://localhost:5001"), "/"),
		MapsAPIKey:      firstEnv("MAPS_API_KEY", "VITE_GOOGLE_MAPS_KEY", ""),
		APIToken:        getEnv("API_TOKEN", ""),
		SummarySource:   strings.ToLower(getEnv("HEALTH_SUMMARY_SOURCE", SummaryLive)),
		EmergencyConfig: getEnv("EMERGENCY_CONFIG", ""),
		Port:            firstEnv("PORT", "APP_PORT", "5001"),
		MongoURI:        firstEnv("MONGODB_URI", "DB_URI", ""),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "smartcampus"),
		RedisAddress:    getEnv("REDIS_ADDRESS", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	var err error
	if cfg.HTTPTimeout, err = time.ParseDuration(getEnv("HTTP_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("config: HTTP_TIMEOUT: %w", err)
	}
	if cfg.HTTPRetries, err = strconv.Atoi(getEnv("HTTP_RETRIES", "2")); err != nil {
		return nil, fmt.Errorf("config: HTTP_RETRIES: %w", err)
	}
	if cfg.IssueRateLimit, err = strconv.Atoi(getEnv("ISSUE_RATE_LIMIT", "20")); err != nil {
		return nil, fmt.Errorf("config: ISSUE_RATE_LIMIT: %w", err)
	}
	if cfg.OutbreakThreshold, err = strconv.Atoi(getEnv("OUTBREAK_THRESHOLD", "5")); err != nil {
		return nil, fmt.Errorf("config: OUTBREAK_THRESHOLD: %w", err)
	}
	if cfg.SeedDemo, err = strconv.ParseBool(getEnv("SEED_DEMO", "false")); err != nil {
		return nil, fmt.Errorf("config: SEED_DEMO: %w", err)
	}
	cfg.CampusCenter = models.CampusCenter
	if v := getEnv("CAMPUS_LAT", ""); v != "" {
		if cfg.CampusCenter.Lat, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("config: CAMPUS_LAT: %w", err)
		}
	}
	if v := getEnv("CAMPUS_LNG", ""); v != "" {
		if cfg.CampusCenter.Lng, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("config: CAMPUS_LNG: %w", err)
		}
	}
	return cfg, nil
}

// Validate checks the settings every command relies on.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("config: API_BASE_URL is required")
	}
	if c.SummarySource != SummaryLive && c.SummarySource != SummaryMock {
		return fmt.Errorf("config: HEALTH_SUMMARY_SOURCE must be %q or %q, got %q", SummaryLive, SummaryMock, c.SummarySource)
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("config: HTTP_TIMEOUT must be positive")
	}
	if c.HTTPRetries < 0 {
		return errors.New("config: HTTP_RETRIES must not be negative")
	}
	return nil
}

// ValidateServer checks the settings the backend needs on top of Validate.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Production() && c.JWTSecret == "" {
		return errors.New("config: in production JWT_SECRET is required")
	}
	if c.Production() && c.MongoURI == "" {
		return errors.New("config: in production MONGODB_URI is required")
	}
	if c.IssueRateLimit <= 0 {
		return errors.New("config: ISSUE_RATE_LIMIT must be positive")
	}
	return nil
}

func (c *Config) Production() bool { return c.Env == "production" }

func (c *Config) Addr() string { return ":" + c.Port }

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	for _, k := range keysAndDef[:len(keysAndDef)-1] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
