package bootstrap

import (
	"marketdata-service/internal/application"
	"marketdata-service/internal/config"
	"marketdata-service/internal/infrastructure/cache"
	"marketdata-service/internal/infrastructure/httpx"
	"marketdata-service/internal/infrastructure/logx"
	"marketdata-service/internal/infrastructure/provider"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

// ProvideProviders resolves the fallback chain once from configuration.
// PREFER_ALPHAVANTAGE flips the order of the two live providers; the
// synthetic provider, when enabled, always sits last.
func ProvideProviders(cfg config.Config) []application.QuoteProvider {
	client := httpx.New(cfg.ProviderTimeout)

	fh := provider.NewFinnhub(cfg.FinnhubAPIKey, client, cfg.FinnhubMaxRPM)
	fh.BaseURL = cfg.FinnhubBaseURL
	av := provider.NewAlphaVantage(cfg.AlphaVantageAPIKey, client, cfg.AlphaVantageMaxRPM)
	av.BaseURL = cfg.AlphaVantageURL

	var chain []application.QuoteProvider
	if cfg.PreferAlphaVantage {
		chain = []application.QuoteProvider{av, fh}
	} else {
		chain = []application.QuoteProvider{fh, av}
	}
	if cfg.SyntheticFallback {
		chain = append(chain, provider.NewSynthetic())
	}
	return chain
}

// ProvideCache builds the cache backend. Default is in-memory; CACHE_BACKEND=redis
// switches to a shared Redis store.
func ProvideCache(cfg config.Config, log *zap.Logger) (application.QuoteCache, func(), error) {
	if cfg.CacheBackend != "redis" {
		return cache.NewMemory(cfg.CacheTTL), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := cache.NewRedis(client, cfg.CacheTTL, cfg.RedisPrefix, log)
	cleanup := func() { _ = client.Close() }
	return store, cleanup, nil
}

func ProvideService(cfg config.Config, providers []application.QuoteProvider, qc application.QuoteCache, log *zap.Logger) *application.Service {
	appCfg := application.Config{
		CacheTTL:          cfg.CacheTTL,
		MaxRetries:        cfg.MaxRetries,
		RetryBaseDelay:    cfg.RetryBaseDelay,
		BatchSize:         cfg.BatchSize,
		RateLimitDelay:    cfg.RateLimitDelay,
		SyntheticFallback: cfg.SyntheticFallback,
		MetricsEnabled:    cfg.MetricsEnabled,
		HealthProbeSymbol: cfg.HealthProbeSymbol,
	}
	return application.New(appCfg, providers, qc, application.WithLogger(log))
}
