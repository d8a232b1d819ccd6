package typegen

import (
	"runtime"

	"github.com/gofhir/typegen/pkg/schema"
)

// Option configures the Compiler.
type Option func(*Options)

// Options holds all configuration for a compile run.
type Options struct {
	// Output
	Format string

	// Compilation
	Polymorphism    schema.Polymorphism
	CheckInvariants bool
	FHIRVersion     FHIRVersion

	// Strict fails the whole run when any definition fails to compile.
	Strict bool

	// Performance
	WorkerCount         int
	ExpressionCacheSize int
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		Format:              "ts",
		Polymorphism:        schema.PolymorphismSiblings,
		FHIRVersion:         R4,
		WorkerCount:         runtime.NumCPU(),
		ExpressionCacheSize: 2000,
	}
}

// Apply applies opts on top of o.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format name ("ts", "json" or "yaml").
func WithFormat(format string) Option {
	return func(o *Options) {
		if format != "" {
			o.Format = format
		}
	}
}

// WithPolymorphism selects how "[x]" elements are compiled.
func WithPolymorphism(p schema.Polymorphism) Option {
	return func(o *Options) {
		o.Polymorphism = p
	}
}

// WithUnion is shorthand for WithPolymorphism(schema.PolymorphismUnion).
func WithUnion(enable bool) Option {
	return func(o *Options) {
		if enable {
			o.Polymorphism = schema.PolymorphismUnion
		} else {
			o.Polymorphism = schema.PolymorphismSiblings
		}
	}
}

// WithInvariantCheck enables compile-only checking of FHIRPath invariants.
// Problems found are reported on the Result and never fail a definition.
func WithInvariantCheck(enable bool) Option {
	return func(o *Options) {
		o.CheckInvariants = enable
	}
}

// WithFHIRVersion sets the FHIR release used to resolve the core package.
func WithFHIRVersion(v FHIRVersion) Option {
	return func(o *Options) {
		if v.IsValid() {
			o.FHIRVersion = v
		}
	}
}

// WithStrictMode makes any failed definition fail the run.
func WithStrictMode(enable bool) Option {
	return func(o *Options) {
		o.Strict = enable
	}
}

// WithWorkerCount sets the number of workers for batch compilation.
// Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithExpressionCache sets the FHIRPath expression cache size.
func WithExpressionCache(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.ExpressionCacheSize = size
		}
	}
}
