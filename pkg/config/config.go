package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AILimits holds per-endpoint completion limits.
type AILimits struct {
	MaxTokensChat        int
	MaxTokensSuggestions int
	MaxTokensJournal     int
	MaxTokensPolish      int

	TemperatureChat        float32
	TemperatureSuggestions float32
	TemperatureJournal     float32
	TemperaturePolish      float32
}

type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	UseSSL   bool
}

type Config struct {
	Env  string
	Port string

	PostgresURL string

	JWTSecret string
	JWTExpiry time.Duration

	ClientURL string

	GoogleClientID         string
	GoogleClientSecret     string
	GoogleRedirectURL      string
	GoogleFrontendRedirect string

	OpenAIAPIKey string
	DefaultModel string
	ChatModel    string
	AILimits     AILimits

	StripeSecretKey        string
	StripeMonthlyProductID string
	StripeYearlyProductID  string
	StripeWebhookSecret    string
	StripeSuccessURL       string
	StripeCancelURL        string

	AdminSecretKey string

	CORSOrigins []string

	RateLimitWindow time.Duration
	RateLimitMax    int

	// PaywallEnabled controls whether the subscription gate actually blocks
	// unsubscribed users on AI endpoints. Off by default: the product ships
	// with the paywall disabled.
	PaywallEnabled bool

	MaxUploadBytes int64
	InstallerPath  string

	SMTP SMTPSettings
}

// Load reads the process environment into a Config. Required variables
// abort startup when missing.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "4000"),

		PostgresURL: mustEnv("POSTGRES_URL"),

		JWTSecret: mustEnv("JWT_SECRET"),
		JWTExpiry: getDurationEnv("JWT_EXPIRES_IN", 7*24*time.Hour),

		ClientURL: getEnv("CLIENT_URL", "http://localhost:3000"),

		GoogleClientID:         getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:     getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:      getEnv("GOOGLE_REDIRECT_URL", ""),
		GoogleFrontendRedirect: getEnv("GOOGLE_FRONTEND_REDIRECT", ""),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		DefaultModel: getEnv("OPENAI_DEFAULT_MODEL", "gpt-4o-mini"),
		ChatModel:    getEnv("OPENAI_CHAT_MODEL", "gpt-4o"),
		AILimits: AILimits{
			MaxTokensChat:        getIntEnv("MAX_TOKENS_CHAT", 1000),
			MaxTokensSuggestions: getIntEnv("MAX_TOKENS_SUGGESTIONS", 600),
			MaxTokensJournal:     getIntEnv("MAX_TOKENS_JOURNAL", 750),
			MaxTokensPolish:      getIntEnv("MAX_TOKENS_POLISH", 1000),

			TemperatureChat:        getFloatEnv("TEMPERATURE_CHAT", 0.7),
			TemperatureSuggestions: getFloatEnv("TEMPERATURE_SUGGESTIONS", 0.7),
			TemperatureJournal:     getFloatEnv("TEMPERATURE_JOURNAL", 0.7),
			TemperaturePolish:      getFloatEnv("TEMPERATURE_POLISH", 0.4),
		},

		StripeSecretKey:        mustEnv("STRIPE_SECRET_KEY"),
		StripeMonthlyProductID: mustEnv("STRIPE_MONTHLY_PRODUCT_ID"),
		StripeYearlyProductID:  mustEnv("STRIPE_YEARLY_PRODUCT_ID"),
		StripeWebhookSecret:    mustEnv("STRIPE_WEBHOOK_SECRET"),
		StripeSuccessURL:       getEnv("STRIPE_SUCCESS_URL", "http://localhost:3000/subscription/success"),
		StripeCancelURL:        getEnv("STRIPE_CANCEL_URL", "http://localhost:3000/subscription/cancel"),

		AdminSecretKey: getEnv("ADMIN_SECRET_KEY", ""),

		CORSOrigins: parseOrigins(getEnv("CORS_ORIGIN", "http://localhost:3000,http://localhost:5173")),

		RateLimitWindow: getDurationEnv("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitMax:    getIntEnv("RATE_LIMIT_MAX", 100),

		PaywallEnabled: getBoolEnv("PAYWALL_ENABLED", false),

		MaxUploadBytes: int64(getIntEnv("MAX_UPLOAD_BYTES", 10*1024*1024)),
		InstallerPath:  getEnv("INSTALLER_PATH", "./dist/redbutton-installer.dmg"),

		SMTP: SMTPSettings{
			Host:     getEnv("EMAIL_HOST", ""),
			Port:     getIntEnv("EMAIL_PORT", 587),
			Username: getEnv("EMAIL_USER", ""),
			Password: getEnv("EMAIL_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", "support@redbutton.app"),
			FromName: getEnv("EMAIL_FROM_NAME", "RedButton"),
			UseSSL:   getIntEnv("EMAIL_PORT", 587) == 465,
		},
	}
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float32) float32 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func parseOrigins(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
