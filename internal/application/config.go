package application

import "time"

// Config is resolved once at construction and immutable afterwards.
// Provider priority order is fixed by the slice passed to New.
type Config struct {
	CacheTTL          time.Duration
	MaxRetries        int
	RetryBaseDelay    time.Duration
	BatchSize         int
	RateLimitDelay    time.Duration
	SyntheticFallback bool
	MetricsEnabled    bool
	HealthProbeSymbol string
}

func DefaultConfig() Config {
	return Config{
		CacheTTL:          5 * time.Minute,
		MaxRetries:        2,
		RetryBaseDelay:    500 * time.Millisecond,
		BatchSize:         5,
		RateLimitDelay:    time.Second,
		SyntheticFallback: true,
		MetricsEnabled:    true,
		HealthProbeSymbol: "AAPL",
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.CacheTTL <= 0 {
		c.CacheTTL = def.CacheTTL
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = def.RetryBaseDelay
	}
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.RateLimitDelay < 0 {
		c.RateLimitDelay = 0
	}
	if c.HealthProbeSymbol == "" {
		c.HealthProbeSymbol = def.HealthProbeSymbol
	}
	return c
}
