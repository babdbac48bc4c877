package application

import (
	"sync"
	"time"
)

// Metrics is a read-only snapshot of the orchestrator's counters.
type Metrics struct {
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64
	CacheHits          int64
	CacheMisses        int64
	ProviderUsage      map[string]int64
	AvgResponseTime    time.Duration
}

// metricsRecorder owns the mutable counters. Only the orchestrator writes to
// it; concurrent request paths are serialized by the mutex.
type metricsRecorder struct {
	enabled bool

	mu      sync.Mutex
	m       Metrics
	samples int64
}

func newMetricsRecorder(enabled bool) *metricsRecorder {
	return &metricsRecorder{enabled: enabled, m: Metrics{ProviderUsage: map[string]int64{}}}
}

func (r *metricsRecorder) request() {
	if !r.enabled {
		return
	}
	r.mu.Lock()
	r.m.TotalRequests++
	r.mu.Unlock()
}

func (r *metricsRecorder) cacheHit() {
	if !r.enabled {
		return
	}
	r.mu.Lock()
	r.m.CacheHits++
	r.mu.Unlock()
}

func (r *metricsRecorder) cacheMiss() {
	if !r.enabled {
		return
	}
	r.mu.Lock()
	r.m.CacheMisses++
	r.mu.Unlock()
}

// success records one resolved symbol and folds elapsed into the running
// average response time.
func (r *metricsRecorder) success(provider string, elapsed time.Duration) {
	if !r.enabled {
		return
	}
	r.mu.Lock()
	r.m.SuccessfulRequests++
	r.m.ProviderUsage[provider]++
	r.samples++
	r.m.AvgResponseTime += (elapsed - r.m.AvgResponseTime) / time.Duration(r.samples)
	r.mu.Unlock()
}

func (r *metricsRecorder) failure() {
	if !r.enabled {
		return
	}
	r.mu.Lock()
	r.m.FailedRequests++
	r.mu.Unlock()
}

func (r *metricsRecorder) snapshot() Metrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.m
	out.ProviderUsage = make(map[string]int64, len(r.m.ProviderUsage))
	for k, v := range r.m.ProviderUsage {
		out.ProviderUsage[k] = v
	}
	return out
}
