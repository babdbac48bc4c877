package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"marketdata-service/internal/application"
	"marketdata-service/internal/domain"

	"github.com/go-chi/chi/v5"
)

// Server is a thin operational shim over the in-process service; the real
// client-facing routing layer lives elsewhere.
type Server struct {
	svc *application.Service
}

func NewServer(svc *application.Service) *Server { return &Server{svc: svc} }

type quoteDTO struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume,omitempty"`
	High          float64   `json:"high,omitempty"`
	Low           float64   `json:"low,omitempty"`
	Open          float64   `json:"open,omitempty"`
	PreviousClose float64   `json:"previous_close,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
	Source        string    `json:"source"`
	Synthetic     bool      `json:"synthetic"`
}

func toQuoteDTO(q domain.Quote) quoteDTO {
	return quoteDTO{
		Symbol:        q.Symbol,
		Price:         q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
		Volume:        q.Volume,
		High:          q.High,
		Low:           q.Low,
		Open:          q.Open,
		PreviousClose: q.PreviousClose,
		UpdatedAt:     q.UpdatedAt,
		Source:        q.Source,
		Synthetic:     q.Synthetic,
	}
}

type candleDTO struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

func (s *Server) GetQuote(w http.ResponseWriter, r *http.Request) {
	q, err := s.svc.GetQuote(r.Context(), chi.URLParam(r, "symbol"))
	switch {
	case errors.Is(err, domain.ErrInvalidSymbol):
		writeError(w, http.StatusBadRequest, "invalid symbol")
	case errors.Is(err, domain.ErrAllProvidersFailed):
		writeError(w, http.StatusBadGateway, "all providers failed")
	case err != nil:
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	default:
		writeJSON(w, http.StatusOK, toQuoteDTO(q))
	}
}

func (s *Server) GetBatchQuotes(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("symbols")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "symbols query parameter is required")
		return
	}
	symbols := strings.Split(raw, ",")
	quotes, err := s.svc.GetBatchQuotes(r.Context(), symbols)
	if err != nil {
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	out := make(map[string]quoteDTO, len(quotes))
	for sym, q := range quotes {
		out[sym] = toQuoteDTO(q)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	candles, err := s.svc.GetHistoricalData(r.Context(), chi.URLParam(r, "symbol"), r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	out := make([]candleDTO, 0, len(candles))
	for _, c := range candles {
		out = append(out, candleDTO{Time: c.Time, Open: c.Open, High: c.High, Low: c.Low, Close: c.Close, Volume: c.Volume})
	}
	writeJSON(w, http.StatusOK, out)
}

type providerStatusDTO struct {
	Name               string     `json:"name"`
	Available          bool       `json:"available"`
	RateLimitRemaining int        `json:"rate_limit_remaining"`
	RateLimitReset     *time.Time `json:"rate_limit_reset,omitempty"`
}

type healthDTO struct {
	Status    string              `json:"status"`
	Detail    string              `json:"detail"`
	Providers []providerStatusDTO `json:"providers"`
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	h := s.svc.CheckHealth(r.Context())
	dto := healthDTO{Status: string(h.Status), Detail: h.Detail}
	for _, p := range h.Providers {
		ps := providerStatusDTO{Name: p.Name, Available: p.Available, RateLimitRemaining: p.RateLimit.Remaining}
		if !p.RateLimit.ResetAt.IsZero() {
			reset := p.RateLimit.ResetAt
			ps.RateLimitReset = &reset
		}
		dto.Providers = append(dto.Providers, ps)
	}
	code := http.StatusOK
	if h.Status == application.HealthStatusError {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, dto)
}

type metricsDTO struct {
	TotalRequests      int64            `json:"total_requests"`
	SuccessfulRequests int64            `json:"successful_requests"`
	FailedRequests     int64            `json:"failed_requests"`
	CacheHits          int64            `json:"cache_hits"`
	CacheMisses        int64            `json:"cache_misses"`
	ProviderUsage      map[string]int64 `json:"provider_usage"`
	AvgResponseTimeMS  float64          `json:"avg_response_time_ms"`
}

func (s *Server) GetMetrics(w http.ResponseWriter, _ *http.Request) {
	m := s.svc.Metrics()
	writeJSON(w, http.StatusOK, metricsDTO{
		TotalRequests:      m.TotalRequests,
		SuccessfulRequests: m.SuccessfulRequests,
		FailedRequests:     m.FailedRequests,
		CacheHits:          m.CacheHits,
		CacheMisses:        m.CacheMisses,
		ProviderUsage:      m.ProviderUsage,
		AvgResponseTimeMS:  float64(m.AvgResponseTime) / float64(time.Millisecond),
	})
}

func (s *Server) ClearCache(w http.ResponseWriter, r *http.Request) {
	s.svc.ClearCache(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
