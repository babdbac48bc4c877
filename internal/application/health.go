package application

import "context"

type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "healthy"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusError    HealthStatus = "error"
)

// ProviderStatus is operational visibility only; it plays no part in
// fallback decisions.
type ProviderStatus struct {
	Name      string
	Available bool
	RateLimit RateLimit
}

type Health struct {
	Status    HealthStatus
	Detail    string
	Providers []ProviderStatus
}

// syntheticSource marks providers that only ever generate synthetic data.
type syntheticSource interface {
	SyntheticData() bool
}

func isSynthetic(p QuoteProvider) bool {
	s, ok := p.(syntheticSource)
	return ok && s.SyntheticData()
}

// CheckHealth probes a fixed symbol through the normal quote path and
// classifies the overall service state.
func (s *Service) CheckHealth(ctx context.Context) Health {
	statuses := make([]ProviderStatus, 0, len(s.providers))
	genuineAvailable := false
	for _, p := range s.providers {
		avail := p.Available()
		statuses = append(statuses, ProviderStatus{Name: p.Name(), Available: avail, RateLimit: p.RateLimit()})
		if avail && !isSynthetic(p) {
			genuineAvailable = true
		}
	}

	q, err := s.GetQuote(ctx, s.cfg.HealthProbeSymbol)
	switch {
	case err != nil:
		return Health{Status: HealthStatusError, Detail: "no quote available from any provider", Providers: statuses}
	case q.Synthetic:
		return Health{Status: HealthStatusDegraded, Detail: "serving synthetic data", Providers: statuses}
	case !genuineAvailable:
		return Health{Status: HealthStatusDegraded, Detail: "no live data provider available", Providers: statuses}
	default:
		return Health{Status: HealthStatusHealthy, Detail: "live data providers operational", Providers: statuses}
	}
}
