package txclient

import (
	"sync/atomic"
	"time"
)

// Metrics tracks client request metrics using lock-free atomic operations.
// The zero value is ready to use. All methods are safe for concurrent use.
type Metrics struct {
	// Request outcomes
	requestsTotal   atomic.Uint64
	requestsOK      atomic.Uint64
	requestErrors   atomic.Uint64
	transportErrors atomic.Uint64
	parseErrors     atomic.Uint64

	// Timing (stored as nanoseconds). requestTimeMin holds min+1 so that
	// zero means no request recorded yet.
	requestTimeTotal atomic.Uint64
	requestTimeMin   atomic.Uint64
	requestTimeMax   atomic.Uint64

	// $validate-code outcomes
	lookupsValid       atomic.Uint64
	lookupsInvalid     atomic.Uint64
	protocolViolations atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// --- Recording Methods ---

// RecordRequest records a request that produced an HTTP response.
func (m *Metrics) RecordRequest(duration time.Duration, statusCode int) {
	m.requestsTotal.Add(1)
	if statusCode >= 200 && statusCode < 300 {
		m.requestsOK.Add(1)
	} else {
		m.requestErrors.Add(1)
	}

	ns := uint64(duration.Nanoseconds()) //nolint:gosec // Safe: nanoseconds are always positive for valid durations
	m.requestTimeTotal.Add(ns)

	for {
		old := m.requestTimeMin.Load()
		if old != 0 && ns+1 >= old {
			break
		}
		if m.requestTimeMin.CompareAndSwap(old, ns+1) {
			break
		}
	}

	for {
		old := m.requestTimeMax.Load()
		if ns <= old {
			break
		}
		if m.requestTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordTransportError records a request that never got a response.
func (m *Metrics) RecordTransportError() {
	m.requestsTotal.Add(1)
	m.transportErrors.Add(1)
}

// RecordParseError records a 2xx response that failed to decode.
func (m *Metrics) RecordParseError() {
	m.parseErrors.Add(1)
}

// RecordLookup records a completed $validate-code lookup.
func (m *Metrics) RecordLookup(valid bool) {
	if valid {
		m.lookupsValid.Add(1)
	} else {
		m.lookupsInvalid.Add(1)
	}
}

// RecordProtocolViolation records a response missing a required parameter.
func (m *Metrics) RecordProtocolViolation() {
	m.protocolViolations.Add(1)
}

// --- Query Methods ---

// RequestsTotal returns the number of requests sent.
func (m *Metrics) RequestsTotal() uint64 {
	return m.requestsTotal.Load()
}

// RequestsOK returns the number of 2xx responses.
func (m *Metrics) RequestsOK() uint64 {
	return m.requestsOK.Load()
}

// RequestErrors returns the number of non-2xx responses.
func (m *Metrics) RequestErrors() uint64 {
	return m.requestErrors.Load()
}

// TransportErrors returns the number of requests without a response.
func (m *Metrics) TransportErrors() uint64 {
	return m.transportErrors.Load()
}

// ParseErrors returns the number of undecodable responses.
func (m *Metrics) ParseErrors() uint64 {
	return m.parseErrors.Load()
}

// LookupsValid returns the number of lookups that found a valid code.
func (m *Metrics) LookupsValid() uint64 {
	return m.lookupsValid.Load()
}

// LookupsInvalid returns the number of lookups that rejected a code.
func (m *Metrics) LookupsInvalid() uint64 {
	return m.lookupsInvalid.Load()
}

// ProtocolViolations returns the number of responses missing required parameters.
func (m *Metrics) ProtocolViolations() uint64 {
	return m.protocolViolations.Load()
}

// SuccessRate returns the share of requests answered with 2xx (0.0 to 1.0).
func (m *Metrics) SuccessRate() float64 {
	total := m.requestsTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(m.requestsOK.Load()) / float64(total)
}

// AverageRequestTime returns the average latency of answered requests.
func (m *Metrics) AverageRequestTime() time.Duration {
	answered := m.requestsOK.Load() + m.requestErrors.Load()
	if answered == 0 {
		return 0
	}
	return time.Duration(m.requestTimeTotal.Load() / answered) //nolint:gosec // Safe: nanoseconds within int64 range
}

// MinRequestTime returns the minimum request latency.
func (m *Metrics) MinRequestTime() time.Duration {
	minVal := m.requestTimeMin.Load()
	if minVal == 0 {
		return 0
	}
	return time.Duration(minVal - 1) //nolint:gosec // Safe: minVal represents nanoseconds within int64 range
}

// MaxRequestTime returns the maximum request latency.
func (m *Metrics) MaxRequestTime() time.Duration {
	return time.Duration(m.requestTimeMax.Load()) //nolint:gosec // Safe: nanoseconds within int64 range
}

// --- Export Methods ---

// Snapshot represents a point-in-time snapshot of all metrics.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	RequestsTotal   uint64  `json:"requests_total" yaml:"requests_total"`
	RequestsOK      uint64  `json:"requests_ok" yaml:"requests_ok"`
	RequestErrors   uint64  `json:"request_errors" yaml:"request_errors"`
	TransportErrors uint64  `json:"transport_errors" yaml:"transport_errors"`
	ParseErrors     uint64  `json:"parse_errors" yaml:"parse_errors"`
	SuccessRate     float64 `json:"success_rate" yaml:"success_rate"`

	// Timing metrics (in nanoseconds for precision)
	AvgRequestTimeNs uint64 `json:"avg_request_time_ns" yaml:"avg_request_time_ns"`
	MinRequestTimeNs uint64 `json:"min_request_time_ns" yaml:"min_request_time_ns"`
	MaxRequestTimeNs uint64 `json:"max_request_time_ns" yaml:"max_request_time_ns"`

	LookupsValid       uint64 `json:"lookups_valid" yaml:"lookups_valid"`
	LookupsInvalid     uint64 `json:"lookups_invalid" yaml:"lookups_invalid"`
	ProtocolViolations uint64 `json:"protocol_violations" yaml:"protocol_violations"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Timestamp:          time.Now(),
		RequestsTotal:      m.requestsTotal.Load(),
		RequestsOK:         m.requestsOK.Load(),
		RequestErrors:      m.requestErrors.Load(),
		TransportErrors:    m.transportErrors.Load(),
		ParseErrors:        m.parseErrors.Load(),
		SuccessRate:        m.SuccessRate(),
		AvgRequestTimeNs:   uint64(m.AverageRequestTime()), //nolint:gosec // Safe: non-negative duration
		MinRequestTimeNs:   uint64(m.MinRequestTime()),     //nolint:gosec // Safe: non-negative duration
		MaxRequestTimeNs:   m.requestTimeMax.Load(),
		LookupsValid:       m.lookupsValid.Load(),
		LookupsInvalid:     m.lookupsInvalid.Load(),
		ProtocolViolations: m.protocolViolations.Load(),
	}
}

// Export returns metrics as a map suitable for external systems.
func (m *Metrics) Export() map[string]interface{} {
	s := m.Snapshot()
	return map[string]interface{}{
		"requests_total":      s.RequestsTotal,
		"requests_ok":         s.RequestsOK,
		"request_errors":      s.RequestErrors,
		"transport_errors":    s.TransportErrors,
		"parse_errors":        s.ParseErrors,
		"success_rate":        s.SuccessRate,
		"avg_request_time_ns": s.AvgRequestTimeNs,
		"min_request_time_ns": s.MinRequestTimeNs,
		"max_request_time_ns": s.MaxRequestTimeNs,
		"lookups_valid":       s.LookupsValid,
		"lookups_invalid":     s.LookupsInvalid,
		"protocol_violations": s.ProtocolViolations,
	}
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.requestsTotal.Store(0)
	m.requestsOK.Store(0)
	m.requestErrors.Store(0)
	m.transportErrors.Store(0)
	m.parseErrors.Store(0)
	m.requestTimeTotal.Store(0)
	m.requestTimeMin.Store(0)
	m.requestTimeMax.Store(0)
	m.lookupsValid.Store(0)
	m.lookupsInvalid.Store(0)
	m.protocolViolations.Store(0)
}
