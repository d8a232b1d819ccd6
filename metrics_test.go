package typegen

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofhir/typegen/pkg/invariant"
	"github.com/gofhir/typegen/pkg/schema"
)

func TestMetrics_Basic(t *testing.T) {
	m := NewMetrics()

	if m.CompilesTotal() != 0 {
		t.Errorf("CompilesTotal() = %d; want 0", m.CompilesTotal())
	}

	m.Record(&Result{
		Schemas:  schema.Map{"A": nil, "B": nil},
		Problems: []invariant.Problem{{Key: "x"}},
		Duration: 10 * time.Millisecond,
	})
	m.Record(&Result{Err: errors.New("boom"), Duration: 30 * time.Millisecond})

	if m.CompilesTotal() != 2 {
		t.Errorf("CompilesTotal() = %d; want 2", m.CompilesTotal())
	}
	if m.CompilesFailed() != 1 {
		t.Errorf("CompilesFailed() = %d; want 1", m.CompilesFailed())
	}
	if m.InterfacesTotal() != 2 {
		t.Errorf("InterfacesTotal() = %d; want 2", m.InterfacesTotal())
	}
	if m.ProblemsTotal() != 1 {
		t.Errorf("ProblemsTotal() = %d; want 1", m.ProblemsTotal())
	}
}

func TestMetrics_CompileTime(t *testing.T) {
	m := NewMetrics()

	if m.AverageCompileTime() != 0 || m.MinCompileTime() != 0 || m.MaxCompileTime() != 0 {
		t.Error("timings should be zero before the first compile")
	}

	m.Record(&Result{Duration: 100 * time.Millisecond})
	m.Record(&Result{Duration: 300 * time.Millisecond})

	if got := m.AverageCompileTime(); got != 200*time.Millisecond {
		t.Errorf("AverageCompileTime() = %v; want 200ms", got)
	}
	if got := m.MinCompileTime(); got != 100*time.Millisecond {
		t.Errorf("MinCompileTime() = %v; want 100ms", got)
	}
	if got := m.MaxCompileTime(); got != 300*time.Millisecond {
		t.Errorf("MaxCompileTime() = %v; want 300ms", got)
	}
}

func TestMetrics_SnapshotAndReset(t *testing.T) {
	m := NewMetrics()
	m.Record(&Result{Schemas: schema.Map{"A": nil}, Duration: time.Millisecond})

	s := m.Snapshot()
	if s.CompilesTotal != 1 || s.InterfacesTotal != 1 || s.MaxCompileTime != time.Millisecond {
		t.Errorf("Snapshot() = %+v", s)
	}

	m.Reset()
	if m.CompilesTotal() != 0 || m.MinCompileTime() != 0 {
		t.Error("Reset() should clear all metrics")
	}
}

func TestMetrics_Concurrent(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Record(&Result{Duration: time.Duration(i+1) * time.Microsecond})
		}(i)
	}
	wg.Wait()

	if m.CompilesTotal() != 50 {
		t.Errorf("CompilesTotal() = %d; want 50", m.CompilesTotal())
	}
	if m.MinCompileTime() != time.Microsecond || m.MaxCompileTime() != 50*time.Microsecond {
		t.Errorf("Min/Max = %v/%v", m.MinCompileTime(), m.MaxCompileTime())
	}
}
