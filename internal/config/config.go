package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	Port     string
	// Providers
	FinnhubAPIKey      string
	FinnhubBaseURL     string
	FinnhubMaxRPM      int
	AlphaVantageAPIKey string
	AlphaVantageURL    string
	AlphaVantageMaxRPM int
	PreferAlphaVantage bool
	SyntheticFallback  bool
	ProviderTimeout    time.Duration
	// Orchestrator
	CacheTTL          time.Duration
	MaxRetries        int
	RetryBaseDelay    time.Duration
	BatchSize         int
	RateLimitDelay    time.Duration
	MetricsEnabled    bool
	HealthProbeSymbol string
	// Cache backend
	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func boolDef(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func durMS(key string, defMS int) time.Duration {
	return time.Duration(atoiDef(getEnv(key, strconv.Itoa(defMS)), defMS)) * time.Millisecond
}

// Load reads environment variables and applies defaults. The result is
// resolved once at startup and treated as immutable.
func Load() Config {
	return Config{
		Env:      getEnv("ENV", "local"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnv("PORT", "8080"),

		FinnhubAPIKey:      getEnv("FINNHUB_API_KEY", ""),
		FinnhubBaseURL:     getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
		FinnhubMaxRPM:      atoiDef(getEnv("FINNHUB_MAX_RPM", "60"), 60),
		AlphaVantageAPIKey: getEnv("ALPHAVANTAGE_API_KEY", ""),
		AlphaVantageURL:    getEnv("ALPHAVANTAGE_BASE_URL", "https://www.alphavantage.co"),
		AlphaVantageMaxRPM: atoiDef(getEnv("ALPHAVANTAGE_MAX_RPM", "5"), 5),
		PreferAlphaVantage: boolDef(getEnv("PREFER_ALPHAVANTAGE", "false"), false),
		SyntheticFallback:  boolDef(getEnv("SYNTHETIC_FALLBACK", "true"), true),
		ProviderTimeout:    durMS("PROVIDER_TIMEOUT_MS", 10000),

		CacheTTL:          durMS("CACHE_TTL_MS", 5*60*1000),
		MaxRetries:        atoiDef(getEnv("MAX_RETRIES", "2"), 2),
		RetryBaseDelay:    durMS("RETRY_BASE_DELAY_MS", 500),
		BatchSize:         atoiDef(getEnv("BATCH_SIZE", "5"), 5),
		RateLimitDelay:    durMS("RATE_LIMIT_DELAY_MS", 1000),
		MetricsEnabled:    boolDef(getEnv("METRICS_ENABLED", "true"), true),
		HealthProbeSymbol: getEnv("HEALTH_PROBE_SYMBOL", "AAPL"),

		CacheBackend:  getEnv("CACHE_BACKEND", "memory"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       atoiDef(getEnv("REDIS_DB", "0"), 0),
		RedisPrefix:   getEnv("REDIS_PREFIX", "quote:"),
	}
}
