package typegen

import (
	"context"
	"time"

	"github.com/gofhir/typegen/pkg/invariant"
	"github.com/gofhir/typegen/pkg/registry"
	"github.com/gofhir/typegen/pkg/schema"
)

// Compiler turns StructureDefinitions into schema maps. It holds no
// per-definition state and is safe for concurrent use.
type Compiler struct {
	opts    *Options
	builder *schema.Builder
	checker *invariant.Checker
	metrics *Metrics
}

// NewCompiler creates a Compiler from DefaultOptions and opts.
func NewCompiler(opts ...Option) *Compiler {
	o := DefaultOptions().Apply(opts...)

	c := &Compiler{
		opts:    o,
		builder: schema.NewBuilder(schema.WithPolymorphism(o.Polymorphism)),
		metrics: NewMetrics(),
	}
	if o.CheckInvariants {
		c.checker = invariant.NewChecker(o.ExpressionCacheSize)
	}
	return c
}

// Options returns the compiler's configuration. Callers must not modify it.
func (c *Compiler) Options() *Options {
	return c.opts
}

// Metrics returns the compiler's metrics.
func (c *Compiler) Metrics() *Metrics {
	return c.metrics
}

// Compile compiles one definition. Failures are reported on Result.Err;
// the returned Result is never nil.
func (c *Compiler) Compile(ctx context.Context, sd *registry.StructureDefinition) *Result {
	start := time.Now()
	result := &Result{Root: RootName(sd)}
	if sd != nil {
		result.URL = sd.URL
		result.Type = sd.Type
	}

	defer func() {
		result.Duration = time.Since(start)
		c.metrics.Record(result)
	}()

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	schemas, err := c.builder.Build(sd)
	if err != nil {
		result.Err = err
		return result
	}
	result.Schemas = schemas

	if c.checker != nil {
		result.Problems = c.checker.Check(sd)
	}
	return result
}

// RootName returns the interface name a definition's root element
// produces, falling back to its type.
func RootName(sd *registry.StructureDefinition) string {
	if root := sd.Root(); root != nil {
		return schema.PathName(root.Path)
	}
	if sd != nil {
		return sd.Type
	}
	return ""
}
