// Package typegen compiles FHIR StructureDefinitions into interface schemas
// suitable for generating typed declarations.
//
// Each definition's snapshot is folded into a map from interface name to
// schema: the root element names the top-level interface, every
// BackboneElement opens a nested one, and every other element becomes a
// field of its parent. Polymorphic "[x]" elements produce one field per
// allowed type unless union mode is selected.
//
// # Quick Start
//
//	defs, err := loader.NewLoader("").LoadGlob("definitions/*.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c := typegen.NewCompiler(typegen.WithInvariantCheck(true))
//	for _, sd := range registry.Filter(defs) {
//	    result := c.Compile(ctx, sd)
//	    if !result.OK() {
//	        log.Printf("%s: %v", result.Type, result.Err)
//	        continue
//	    }
//	    for _, name := range result.Schemas.Names() {
//	        fmt.Println(name)
//	    }
//	}
//
// # Batches
//
// The worker package compiles a slice of definitions in parallel, keeps
// results in input order and rejects interface names that two definitions
// both produce. The emitter package writes results as TypeScript
// declarations, JSON or YAML.
//
// # Functional Options
//
//	c := typegen.NewCompiler(
//	    typegen.WithUnion(true),
//	    typegen.WithWorkerCount(runtime.NumCPU()),
//	    typegen.WithStrictMode(true),
//	)
package typegen
