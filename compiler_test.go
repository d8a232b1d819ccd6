package typegen

import (
	"context"
	"errors"
	"testing"

	"github.com/gofhir/typegen/pkg/registry"
	"github.com/gofhir/typegen/pkg/schema"
)

func observationDefinition() *registry.StructureDefinition {
	return &registry.StructureDefinition{
		URL:  "http://hl7.org/fhir/StructureDefinition/Observation",
		Type: "Observation",
		Kind: registry.KindResource,
		Snapshot: &registry.Snapshot{Element: []registry.ElementDefinition{
			{Path: "Observation", Definition: "Measurements and simple assertions.", Max: "*",
				Constraint: []registry.Constraint{{Key: "obs-6", Expression: "dataAbsentReason.empty() or value.empty()"}}},
			{Path: "Observation.status", Min: 1, Max: "1", Type: []registry.TypeRef{{Code: "code"}}},
			{Path: "Observation.value[x]", Max: "1", Type: []registry.TypeRef{{Code: "Quantity"}, {Code: "string"}}},
			{Path: "Observation.component", Max: "*", Type: []registry.TypeRef{{Code: "BackboneElement"}}},
			{Path: "Observation.component.code", Min: 1, Max: "1", Type: []registry.TypeRef{{Code: "CodeableConcept"}}},
		}},
	}
}

func TestCompilerCompile(t *testing.T) {
	c := NewCompiler()
	result := c.Compile(context.Background(), observationDefinition())

	if !result.OK() {
		t.Fatalf("Compile() error = %v", result.Err)
	}
	if result.Root != "Observation" || result.Type != "Observation" {
		t.Errorf("Root = %q, Type = %q", result.Root, result.Type)
	}
	if result.InterfaceCount() != 2 {
		t.Errorf("InterfaceCount() = %d; want 2", result.InterfaceCount())
	}

	obs := result.Schemas["Observation"]
	if obs == nil {
		t.Fatal("Observation interface missing")
	}
	for _, name := range []string{"status", "valueQuantity", "valueString", "component"} {
		if obs.Fields[name] == nil {
			t.Errorf("field %q missing", name)
		}
	}
	if got := obs.Fields["component"].Type.String(); got != "ObservationComponent[]" {
		t.Errorf("component type = %q", got)
	}
	if result.Problems != nil {
		t.Errorf("Problems = %v; want nil when invariant checking is off", result.Problems)
	}
}

func TestCompilerUnionMode(t *testing.T) {
	c := NewCompiler(WithUnion(true))
	result := c.Compile(context.Background(), observationDefinition())

	if !result.OK() {
		t.Fatalf("Compile() error = %v", result.Err)
	}
	f := result.Schemas["Observation"].Fields["value"]
	if f == nil {
		t.Fatal("union field value missing")
	}
	if got := f.Type.String(); got != "Quantity | string" {
		t.Errorf("value type = %q", got)
	}
}

func TestCompilerInvariantCheck(t *testing.T) {
	sd := observationDefinition()
	sd.Snapshot.Element[1].Constraint = []registry.Constraint{{Key: "bad-1", Expression: "status.where("}}

	c := NewCompiler(WithInvariantCheck(true))
	result := c.Compile(context.Background(), sd)

	if !result.OK() {
		t.Fatalf("invariant problems must not fail the compile: %v", result.Err)
	}
	if len(result.Problems) != 1 || result.Problems[0].Key != "bad-1" {
		t.Errorf("Problems = %v; want one bad-1 problem", result.Problems)
	}
}

func TestCompilerFailure(t *testing.T) {
	c := NewCompiler()
	sd := &registry.StructureDefinition{Type: "Empty"}

	result := c.Compile(context.Background(), sd)
	if !errors.Is(result.Err, schema.ErrEmptySnapshot) {
		t.Errorf("Err = %v; want ErrEmptySnapshot", result.Err)
	}
	if result.Schemas != nil {
		t.Error("Schemas should be nil on failure")
	}
	if result.Root != "Empty" {
		t.Errorf("Root = %q; want the type name", result.Root)
	}
	if c.Metrics().CompilesFailed() != 1 {
		t.Errorf("CompilesFailed() = %d; want 1", c.Metrics().CompilesFailed())
	}
}

func TestCompilerCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewCompiler().Compile(ctx, observationDefinition())
	if !errors.Is(result.Err, context.Canceled) {
		t.Errorf("Err = %v; want context.Canceled", result.Err)
	}
}

func TestResultFail(t *testing.T) {
	r := &Result{Schemas: schema.Map{"A": nil}}
	r.Fail(errors.New("clash"))
	if r.OK() || r.Schemas != nil {
		t.Errorf("Fail() left %+v", r)
	}

	var nilResult *Result
	if nilResult.OK() || nilResult.InterfaceCount() != 0 {
		t.Error("nil Result should be not OK with no interfaces")
	}
}

func TestRootName(t *testing.T) {
	if got := RootName(nil); got != "" {
		t.Errorf("RootName(nil) = %q", got)
	}
	sd := &registry.StructureDefinition{
		Type:     "Quantity",
		Snapshot: &registry.Snapshot{Element: []registry.ElementDefinition{{Path: "Quantity"}}},
	}
	if got := RootName(sd); got != "Quantity" {
		t.Errorf("RootName() = %q; want Quantity", got)
	}
}
