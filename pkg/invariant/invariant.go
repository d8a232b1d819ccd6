// Package invariant checks that the FHIRPath invariants declared on a
// StructureDefinition's snapshot compile. Expressions are never evaluated.
//
// The core invariants (ele-1, dom-2, ext-1, ...) repeat on nearly every
// definition, so compile outcomes are memoized across calls.
package invariant

import (
	"fmt"

	"github.com/gofhir/fhirpath"

	"github.com/gofhir/typegen/cache"
	"github.com/gofhir/typegen/pkg/registry"
)

// DefaultCacheSize bounds the number of memoized expressions.
const DefaultCacheSize = 2000

// Problem describes an invariant whose expression does not compile.
type Problem struct {
	Path       string
	Key        string
	Expression string
	Err        error
}

// String formats the problem for logs.
func (p Problem) String() string {
	return fmt.Sprintf("%s [%s] %q: %v", p.Path, p.Key, p.Expression, p.Err)
}

// Checker compiles invariants. It is safe for concurrent use.
type Checker struct {
	compiled *cache.Cache[string, *fhirpath.Expression]
}

// NewChecker creates a Checker memoizing up to size expressions.
func NewChecker(size int) *Checker {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Checker{compiled: cache.New[string, *fhirpath.Expression](size)}
}

// Check returns one Problem per snapshot constraint whose expression fails
// to compile, in snapshot order. Constraints without an expression are
// skipped.
func (c *Checker) Check(sd *registry.StructureDefinition) []Problem {
	if sd == nil || sd.Snapshot == nil {
		return nil
	}

	var problems []Problem
	for i := range sd.Snapshot.Element {
		elem := &sd.Snapshot.Element[i]
		for _, con := range elem.Constraint {
			if con.Expression == "" {
				continue
			}
			if _, err := c.compile(con.Expression); err != nil {
				problems = append(problems, Problem{
					Path:       elem.Path,
					Key:        con.Key,
					Expression: con.Expression,
					Err:        err,
				})
			}
		}
	}
	return problems
}

func (c *Checker) compile(expr string) (*fhirpath.Expression, error) {
	return c.compiled.GetOrLoad(expr, func() (*fhirpath.Expression, error) {
		return fhirpath.Compile(expr)
	})
}

// CacheStats reports memoization statistics.
func (c *Checker) CacheStats() cache.Stats {
	return c.compiled.Stats()
}
