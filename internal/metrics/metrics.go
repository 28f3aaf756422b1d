package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics is an in-process collector exposed at /metrics. It tracks
// monotonic counters, operation timers, error rates and component health.
type Metrics struct {
	mu       sync.RWMutex
	counters map[string]*int64
	timers   map[string]*timer
	errRates map[string]*errRate
	health   map[string]*int64
	started  time.Time
}

type timer struct {
	count       int64
	totalTimeMs int64
	maxTimeMs   int64
}

type errRate struct {
	total  int64
	errors int64
}

// TimerMetric is the exported view of a timer.
type TimerMetric struct {
	Count         int64   `json:"count"`
	TotalTimeMs   int64   `json:"total_time_ms"`
	AverageTimeMs float64 `json:"average_time_ms"`
	MaxTimeMs     int64   `json:"max_time_ms"`
}

// ErrorRateMetric is the exported view of an error rate.
type ErrorRateMetric struct {
	Total     int64   `json:"total"`
	Errors    int64   `json:"errors"`
	ErrorRate float64 `json:"error_rate"`
}

// NewMetrics creates a new collector.
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]*int64),
		timers:   make(map[string]*timer),
		errRates: make(map[string]*errRate),
		health:   make(map[string]*int64),
		started:  time.Now(),
	}
}

func (m *Metrics) counter(name string) *int64 {
	m.mu.RLock()
	c, ok := m.counters[name]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok = m.counters[name]; !ok {
		c = new(int64)
		m.counters[name] = c
	}
	return c
}

// IncrementCounter bumps a counter by 1.
func (m *Metrics) IncrementCounter(name string) {
	atomic.AddInt64(m.counter(name), 1)
}

// RecordTimer records one duration measurement.
func (m *Metrics) RecordTimer(name string, d time.Duration) {
	ms := d.Milliseconds()

	m.mu.RLock()
	t, ok := m.timers[name]
	m.mu.RUnlock()
	if !ok {
		m.mu.Lock()
		if t, ok = m.timers[name]; !ok {
			t = &timer{}
			m.timers[name] = t
		}
		m.mu.Unlock()
	}

	atomic.AddInt64(&t.count, 1)
	atomic.AddInt64(&t.totalTimeMs, ms)
	for {
		max := atomic.LoadInt64(&t.maxTimeMs)
		if ms <= max || atomic.CompareAndSwapInt64(&t.maxTimeMs, max, ms) {
			break
		}
	}
}

// RecordSuccess records a successful operation for error-rate tracking.
func (m *Metrics) RecordSuccess(name string) { m.recordOutcome(name, false) }

// RecordError records a failed operation for error-rate tracking.
func (m *Metrics) RecordError(name string) { m.recordOutcome(name, true) }

func (m *Metrics) recordOutcome(name string, isError bool) {
	m.mu.RLock()
	er, ok := m.errRates[name]
	m.mu.RUnlock()
	if !ok {
		m.mu.Lock()
		if er, ok = m.errRates[name]; !ok {
			er = &errRate{}
			m.errRates[name] = er
		}
		m.mu.Unlock()
	}

	atomic.AddInt64(&er.total, 1)
	if isError {
		atomic.AddInt64(&er.errors, 1)
	}
}

// SetHealth sets the health status of a component.
func (m *Metrics) SetHealth(component string, healthy bool) {
	var v int64
	if healthy {
		v = 1
	}

	m.mu.RLock()
	h, ok := m.health[component]
	m.mu.RUnlock()
	if !ok {
		m.mu.Lock()
		if h, ok = m.health[component]; !ok {
			h = new(int64)
			m.health[component] = h
		}
		m.mu.Unlock()
	}

	atomic.StoreInt64(h, v)
}

// GetHealthChecks returns per-component health.
func (m *Metrics) GetHealthChecks() map[string]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	checks := make(map[string]bool, len(m.health))
	for name, h := range m.health {
		checks[name] = atomic.LoadInt64(h) > 0
	}
	return checks
}

// GetAllMetrics returns every metric in a structured form.
func (m *Metrics) GetAllMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counters := make(map[string]int64, len(m.counters))
	for name, c := range m.counters {
		counters[name] = atomic.LoadInt64(c)
	}

	timers := make(map[string]TimerMetric, len(m.timers))
	for name, t := range m.timers {
		count := atomic.LoadInt64(&t.count)
		total := atomic.LoadInt64(&t.totalTimeMs)
		var avg float64
		if count > 0 {
			avg = float64(total) / float64(count)
		}
		timers[name] = TimerMetric{
			Count:         count,
			TotalTimeMs:   total,
			AverageTimeMs: avg,
			MaxTimeMs:     atomic.LoadInt64(&t.maxTimeMs),
		}
	}

	errRates := make(map[string]ErrorRateMetric, len(m.errRates))
	for name, er := range m.errRates {
		total := atomic.LoadInt64(&er.total)
		errs := atomic.LoadInt64(&er.errors)
		var rate float64
		if total > 0 {
			rate = float64(errs) / float64(total) * 100.0
		}
		errRates[name] = ErrorRateMetric{Total: total, Errors: errs, ErrorRate: rate}
	}

	health := make(map[string]bool, len(m.health))
	for name, h := range m.health {
		health[name] = atomic.LoadInt64(h) > 0
	}

	return map[string]interface{}{
		"uptime_seconds": int64(time.Since(m.started).Seconds()),
		"counters":       counters,
		"timers":         timers,
		"error_rates":    errRates,
		"health_checks":  health,
	}
}
