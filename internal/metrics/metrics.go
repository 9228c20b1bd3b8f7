package metrics

import (
	"sync"
	"time"
)

type operationStats struct {
	calls       int
	errors      int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about scoreboard operations
// and forwards them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu     sync.Mutex
	stats  map[string]*operationStats
	active int
	otel   *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*operationStats),
		otel:  otel,
	}
}

// RecordOperation counts a scoreboard operation and stores its latency.
func (r *Recorder) RecordOperation(op string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStatsLocked(op)
	stats.calls++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordOperation(op, duration, err)
	}
}

// AddActiveGames moves the active games gauge by delta.
func (r *Recorder) AddActiveGames(delta int) {
	if r == nil || delta == 0 {
		return
	}

	r.mu.Lock()
	r.active += delta
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordActiveGames(delta)
	}
}

// ActiveGames returns the current value of the active games gauge.
func (r *Recorder) ActiveGames() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// OperationCalls returns the total attempts recorded for an operation.
func (r *Recorder) OperationCalls(op string) int {
	return r.Snapshot(op).Calls
}

// OperationErrors returns the failed attempts recorded for an operation.
func (r *Recorder) OperationErrors(op string) int {
	return r.Snapshot(op).Errors
}

// LastLatency returns the last recorded latency for an operation.
func (r *Recorder) LastLatency(op string) time.Duration {
	return r.Snapshot(op).LastLatency
}

// Snapshot is a copy of the current stats for one operation.
type Snapshot struct {
	Calls       int
	Errors      int
	LastLatency time.Duration
}

func (r *Recorder) Snapshot(op string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[op]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:       stats.calls,
		Errors:      stats.errors,
		LastLatency: stats.lastLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

func (r *Recorder) ensureStatsLocked(op string) *operationStats {
	stats, ok := r.stats[op]
	if !ok {
		stats = &operationStats{}
		r.stats[op] = stats
	}
	return stats
}
