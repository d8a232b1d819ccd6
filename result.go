package typegen

import (
	"time"

	"github.com/gofhir/typegen/pkg/invariant"
	"github.com/gofhir/typegen/pkg/schema"
)

// Result contains the outcome of compiling one StructureDefinition.
type Result struct {
	// URL and Type identify the source definition.
	URL  string `json:"url,omitempty"`
	Type string `json:"type"`

	// Root is the name of the definition's root interface.
	Root string `json:"root"`

	// Schemas is nil when Err is set.
	Schemas schema.Map `json:"schemas,omitempty"`

	// Problems lists invariants that failed to compile. They are warnings.
	Problems []invariant.Problem `json:"-"`

	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// OK reports whether the definition compiled.
func (r *Result) OK() bool {
	return r != nil && r.Err == nil
}

// InterfaceCount returns the number of interfaces produced.
func (r *Result) InterfaceCount() int {
	if r == nil {
		return 0
	}
	return len(r.Schemas)
}

// Fail discards the compiled schemas and records err.
func (r *Result) Fail(err error) {
	r.Schemas = nil
	r.Err = err
}
