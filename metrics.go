package typegen

import (
	"sync/atomic"
	"time"
)

// Metrics tracks compile counts and timings using lock-free atomic
// operations. All methods are safe for concurrent use.
type Metrics struct {
	compilesTotal  atomic.Uint64
	compilesFailed atomic.Uint64

	interfacesTotal atomic.Uint64
	problemsTotal   atomic.Uint64

	// Timing (stored as nanoseconds)
	compileTimeTotal atomic.Uint64
	compileTimeMin   atomic.Uint64
	compileTimeMax   atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so first value becomes the minimum
	m.compileTimeMin.Store(^uint64(0))
	return m
}

// Record records a finished compile.
func (m *Metrics) Record(r *Result) {
	m.compilesTotal.Add(1)
	if !r.OK() {
		m.compilesFailed.Add(1)
	}
	m.interfacesTotal.Add(uint64(r.InterfaceCount()))
	m.problemsTotal.Add(uint64(len(r.Problems)))

	ns := uint64(r.Duration.Nanoseconds()) //nolint:gosec // durations are non-negative
	m.compileTimeTotal.Add(ns)

	for {
		old := m.compileTimeMin.Load()
		if ns >= old || m.compileTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.compileTimeMax.Load()
		if ns <= old || m.compileTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// CompilesTotal returns the number of definitions compiled.
func (m *Metrics) CompilesTotal() uint64 {
	return m.compilesTotal.Load()
}

// CompilesFailed returns the number of definitions that failed.
func (m *Metrics) CompilesFailed() uint64 {
	return m.compilesFailed.Load()
}

// InterfacesTotal returns the number of interfaces produced.
func (m *Metrics) InterfacesTotal() uint64 {
	return m.interfacesTotal.Load()
}

// ProblemsTotal returns the number of invariant problems reported.
func (m *Metrics) ProblemsTotal() uint64 {
	return m.problemsTotal.Load()
}

// AverageCompileTime returns the average compile duration.
func (m *Metrics) AverageCompileTime() time.Duration {
	total := m.compilesTotal.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.compileTimeTotal.Load() / total) //nolint:gosec // nanoseconds within int64 range
}

// MinCompileTime returns the minimum compile duration.
func (m *Metrics) MinCompileTime() time.Duration {
	minVal := m.compileTimeMin.Load()
	if minVal == ^uint64(0) {
		return 0
	}
	return time.Duration(minVal) //nolint:gosec // nanoseconds within int64 range
}

// MaxCompileTime returns the maximum compile duration.
func (m *Metrics) MaxCompileTime() time.Duration {
	return time.Duration(m.compileTimeMax.Load()) //nolint:gosec // nanoseconds within int64 range
}

// Snapshot represents a point-in-time snapshot of all metrics.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	CompilesTotal   uint64 `json:"compiles_total"`
	CompilesFailed  uint64 `json:"compiles_failed"`
	InterfacesTotal uint64 `json:"interfaces_total"`
	ProblemsTotal   uint64 `json:"problems_total"`

	AvgCompileTime time.Duration `json:"avg_compile_time"`
	MinCompileTime time.Duration `json:"min_compile_time"`
	MaxCompileTime time.Duration `json:"max_compile_time"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Timestamp:       time.Now(),
		CompilesTotal:   m.CompilesTotal(),
		CompilesFailed:  m.CompilesFailed(),
		InterfacesTotal: m.InterfacesTotal(),
		ProblemsTotal:   m.ProblemsTotal(),
		AvgCompileTime:  m.AverageCompileTime(),
		MinCompileTime:  m.MinCompileTime(),
		MaxCompileTime:  m.MaxCompileTime(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.compilesTotal.Store(0)
	m.compilesFailed.Store(0)
	m.interfacesTotal.Store(0)
	m.problemsTotal.Store(0)
	m.compileTimeTotal.Store(0)
	m.compileTimeMin.Store(^uint64(0))
	m.compileTimeMax.Store(0)
}
