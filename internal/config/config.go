// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database paths, generation parameters,
// subscription tiers, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "verbshift-api")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// OpenAIConfig defines the external text-generation backend settings.
// Guide and blog calls carry different sampling parameters; the defaults
// match production behavior (guides long and steady, blogs short and hot).
type OpenAIConfig struct {
	APIKey      string        // OPENAI_API_KEY (empty => generation unavailable)
	BaseURL     string        // OPENAI_BASE_URL (optional proxy override)
	Model       string        // OPENAI_MODEL
	Timeout     time.Duration // OPENAI_TIMEOUT per attempt
	MaxAttempts int           // OPENAI_MAX_ATTEMPTS (1 = no retry)
	RetryDelay  time.Duration // OPENAI_RETRY_DELAY between attempts

	GuideMaxTokens   int64   // OPENAI_GUIDE_MAX_TOKENS
	GuideTemperature float64 // OPENAI_GUIDE_TEMPERATURE
	BlogMaxTokens    int64   // OPENAI_BLOG_MAX_TOKENS
	BlogTemperature  float64 // OPENAI_BLOG_TEMPERATURE
	MaxEmojis        int     // OPENAI_MAX_EMOJIS allowed in blog prompts
}

// TiersConfig defines the monthly post limits per subscription tier and the
// roles exempt from quota checking entirely.
//
// The exemption set is configuration, not a hardcoded special case, so that
// the trust boundary can be audited and tested.
type TiersConfig struct {
	FreeLimit    int      // TIER_FREE_LIMIT
	BasicLimit   int      // TIER_BASIC_LIMIT
	PremiumLimit int      // TIER_PREMIUM_LIMIT
	ExemptRoles  []string // QUOTA_EXEMPT_ROLES (CSV)
}

// BotConfig defines the automated guide generator settings.
type BotConfig struct {
	AuthorID     string  // BOT_AUTHOR_ID: user the bot publishes as
	TrendingBias float64 // BOT_TRENDING_BIAS: probability of picking a trending topic
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 90s (must exceed generation timeout)
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DBPath string // SQLite path

	// Generation
	OpenAI OpenAIConfig

	// Subscriptions
	Tiers TiersConfig

	// Bot
	Bot BotConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 90*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath: getenv("DB_PATH", "app.db"),

		// Generation
		OpenAI: OpenAIConfig{
			APIKey:           getenv("OPENAI_API_KEY", ""),
			BaseURL:          getenv("OPENAI_BASE_URL", ""),
			Model:            getenv("OPENAI_MODEL", "gpt-4.1"),
			Timeout:          getdur("OPENAI_TIMEOUT", 60*time.Second),
			MaxAttempts:      getint("OPENAI_MAX_ATTEMPTS", 1),
			RetryDelay:       getdur("OPENAI_RETRY_DELAY", 2*time.Second),
			GuideMaxTokens:   int64(getint("OPENAI_GUIDE_MAX_TOKENS", 1800)),
			GuideTemperature: getfloat("OPENAI_GUIDE_TEMPERATURE", 0.7),
			BlogMaxTokens:    int64(getint("OPENAI_BLOG_MAX_TOKENS", 700)),
			BlogTemperature:  getfloat("OPENAI_BLOG_TEMPERATURE", 0.95),
			MaxEmojis:        getint("OPENAI_MAX_EMOJIS", 3),
		},

		// Subscriptions
		Tiers: TiersConfig{
			FreeLimit:    getint("TIER_FREE_LIMIT", 1),
			BasicLimit:   getint("TIER_BASIC_LIMIT", 20),
			PremiumLimit: getint("TIER_PREMIUM_LIMIT", 100),
			ExemptRoles:  splitCSV(getenv("QUOTA_EXEMPT_ROLES", "admin")),
		},

		// Bot
		Bot: BotConfig{
			AuthorID:     getenv("BOT_AUTHOR_ID", "guide-bot"),
			TrendingBias: getfloat("BOT_TRENDING_BIAS", 0.2),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "verbshift-api"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.OpenAI.Timeout <= 0 {
		return cfg, errors.New("OPENAI_TIMEOUT must be > 0")
	}
	if cfg.OpenAI.MaxAttempts < 1 {
		return cfg, errors.New("OPENAI_MAX_ATTEMPTS must be >= 1")
	}
	if cfg.OpenAI.GuideMaxTokens <= 0 || cfg.OpenAI.BlogMaxTokens <= 0 {
		return cfg, errors.New("generation max token limits must be > 0")
	}
	if cfg.OpenAI.GuideTemperature < 0 || cfg.OpenAI.GuideTemperature > 2 ||
		cfg.OpenAI.BlogTemperature < 0 || cfg.OpenAI.BlogTemperature > 2 {
		return cfg, errors.New("generation temperatures must be in [0,2]")
	}
	if cfg.Tiers.FreeLimit < 0 || cfg.Tiers.BasicLimit < 0 || cfg.Tiers.PremiumLimit < 0 {
		return cfg, errors.New("tier limits must be >= 0")
	}
	if cfg.Tiers.FreeLimit > cfg.Tiers.BasicLimit || cfg.Tiers.BasicLimit > cfg.Tiers.PremiumLimit {
		return cfg, errors.New("tier limits must satisfy FREE <= BASIC <= PREMIUM")
	}
	if cfg.Bot.TrendingBias < 0 || cfg.Bot.TrendingBias > 1 {
		return cfg, errors.New("BOT_TRENDING_BIAS must be in [0,1]")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
