package search

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"vodhub/internal/metrics"
)

const diagnosticsLogInterval = 10 * time.Minute

// sourceHealth tracks per-source outcomes for diagnostics and metrics.
// It never gates the fan-out: every source is attempted on every search,
// a failing source just keeps returning empty lists.
type sourceHealth struct {
	consecutiveFailures int
	lastError           string
	lastSuccessAt       time.Time
	lastFailureAt       time.Time
	lastLatency         time.Duration
	lastTimeout         bool
	lastQuery           string
	totalRequests       int64
	totalFailures       int64
	timeoutCount        int64
}

func (s *Service) recordSourceResult(key, query string, searchErr error, latency time.Duration, now time.Time) {
	metrics.SourceRequestsTotal.WithLabelValues(key, outcomeLabel(searchErr)).Inc()
	metrics.SourceRequestDuration.WithLabelValues(key).Observe(latency.Seconds())

	s.healthMu.Lock()
	defer s.healthMu.Unlock()

	health := s.health[key]
	if health == nil {
		health = &sourceHealth{}
		s.health[key] = health
	}

	health.totalRequests++
	health.lastLatency = latency
	health.lastQuery = query

	if searchErr == nil {
		health.consecutiveFailures = 0
		health.lastError = ""
		health.lastSuccessAt = now
		health.lastTimeout = false
		metrics.SourceAvailable.WithLabelValues(key).Set(1)
		return
	}

	health.consecutiveFailures++
	health.totalFailures++
	health.lastError = searchErr.Error()
	health.lastFailureAt = now
	health.lastTimeout = isTimeoutLikeError(searchErr)
	if health.lastTimeout {
		health.timeoutCount++
	}
	metrics.SourceAvailable.WithLabelValues(key).Set(0)
}

// SourceDiagnostics returns a health snapshot per configured source, in
// registration order.
func (s *Service) SourceDiagnostics() []SourceDiagnostic {
	s.healthMu.Lock()
	defer s.healthMu.Unlock()

	items := make([]SourceDiagnostic, 0, len(s.sources))
	for _, source := range s.sources {
		site := source.Site()
		diag := SourceDiagnostic{Key: site.Key, Name: site.Name, Adult: site.IsAdult}
		if health := s.health[site.Key]; health != nil {
			diag.ConsecutiveFailures = health.consecutiveFailures
			diag.LastError = health.lastError
			diag.LastLatencyMS = health.lastLatency.Milliseconds()
			diag.LastTimeout = health.lastTimeout
			diag.LastQuery = health.lastQuery
			diag.TotalRequests = health.totalRequests
			diag.TotalFailures = health.totalFailures
			diag.TimeoutCount = health.timeoutCount
			if !health.lastSuccessAt.IsZero() {
				t := health.lastSuccessAt
				diag.LastSuccessAt = &t
			}
			if !health.lastFailureAt.IsZero() {
				t := health.lastFailureAt
				diag.LastFailureAt = &t
			}
		}
		items = append(items, diag)
	}
	return items
}

// runDiagnosticsLog periodically reports sources that keep failing, so a
// dead upstream shows up in the logs without anyone scraping /metrics.
func (s *Service) runDiagnosticsLog(ctx context.Context) {
	ticker := time.NewTicker(diagnosticsLogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.logFailingSources()
		}
	}
}

func (s *Service) logFailingSources() {
	for _, diag := range s.SourceDiagnostics() {
		if diag.ConsecutiveFailures == 0 {
			continue
		}
		slog.Warn("source degraded",
			slog.String("source", diag.Key),
			slog.Int("consecutiveFailures", diag.ConsecutiveFailures),
			slog.String("lastError", diag.LastError),
			slog.Bool("lastTimeout", diag.LastTimeout),
			slog.Int64("totalFailures", diag.TotalFailures),
		)
	}
}

type SourceDiagnostic struct {
	Key                 string     `json:"key"`
	Name                string     `json:"name"`
	Adult               bool       `json:"adult,omitempty"`
	ConsecutiveFailures int        `json:"consecutiveFailures"`
	LastError           string     `json:"lastError,omitempty"`
	LastSuccessAt       *time.Time `json:"lastSuccessAt,omitempty"`
	LastFailureAt       *time.Time `json:"lastFailureAt,omitempty"`
	LastLatencyMS       int64      `json:"lastLatencyMs,omitempty"`
	LastTimeout         bool       `json:"lastTimeout,omitempty"`
	LastQuery           string     `json:"lastQuery,omitempty"`
	TotalRequests       int64      `json:"totalRequests,omitempty"`
	TotalFailures       int64      `json:"totalFailures,omitempty"`
	TimeoutCount        int64      `json:"timeoutCount,omitempty"`
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if isTimeoutLikeError(err) {
		return "timeout"
	}
	return "error"
}

func isTimeoutLikeError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded")
}
