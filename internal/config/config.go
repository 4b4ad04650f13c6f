package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

type Config struct {
	Port         string
	Development  bool
	LogLevel     string
	StoreBackend string
	DatabaseURL  string
	MongoURI     string
	MongoDB      string

	SessionSecret  string
	AdminEmail     string
	AuthServiceURL string
	FrontendURL    string
	CORSOrigins    []string
	// TrustedProxies may set X-Forwarded-For. Empty means the peer address is
	// always the client IP.
	TrustedProxies []string

	ClientID          string
	ClientSecret      string
	ClientCallbackURL string

	StripeAPIKey        string
	StripeWebhookSecret string
	ProviderTimeout     time.Duration

	SweepInterval  time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// OAuthEnabled reports whether direct provider login is configured.
func (c *Config) OAuthEnabled() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.ClientCallbackURL != ""
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg := &Config{
		Port:                getenv("PORT", "8001"),
		Development:         getenv("APP_ENV", "production") == "development",
		LogLevel:            getenv("LOG_LEVEL", "info"),
		StoreBackend:        getenv("STORE_BACKEND", BackendPostgres),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		MongoURI:            getenv("MONGO_URI", os.Getenv("MONGO_URL")),
		MongoDB:             getenv("MONGO_DB", getenv("DB_NAME", "ironhold")),
		SessionSecret:       os.Getenv("SESSION_SECRET"),
		AdminEmail:          os.Getenv("ADMIN_EMAIL"),
		AuthServiceURL:      getenv("AUTH_SERVICE_URL", "https://demobackend.emergentagent.com"),
		FrontendURL:         os.Getenv("FRONTEND_URL"),
		CORSOrigins:         splitList(getenv("CORS_ORIGINS", "*")),
		TrustedProxies:      splitList(os.Getenv("TRUSTED_PROXIES")),
		ClientID:            os.Getenv("CLIENT_ID"),
		ClientSecret:        os.Getenv("CLIENT_SECRET"),
		ClientCallbackURL:   os.Getenv("CLIENT_CALLBACK_URL"),
		StripeAPIKey:        os.Getenv("STRIPE_API_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}

	var err error
	if cfg.ProviderTimeout, err = durationEnv("PROVIDER_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = durationEnv("SWEEP_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getenv("RATE_LIMIT_RPS", "5"), 64); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getenv("RATE_LIMIT_BURST", "10")); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	switch c.StoreBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMongo, c.StoreBackend)
	}
	if c.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if c.AdminEmail == "" {
		missing = append(missing, "ADMIN_EMAIL")
	}
	if c.StripeAPIKey == "" {
		missing = append(missing, "STRIPE_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("environment variables (%s) are required", strings.Join(missing, ", "))
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
