// Package worker compiles batches of StructureDefinitions in parallel.
//
// Results come back in input order whatever the completion order, and an
// interface name produced by two definitions is rejected on the later one.
//
// Example usage:
//
//	c := typegen.NewCompiler()
//	bc := worker.NewBatchCompiler(c.Compile, 4)
//
//	batch := bc.CompileBatch(ctx, defs)
//	for _, r := range batch.Results {
//	    if r.Err != nil {
//	        // Handle error
//	    }
//	    // Emit r.Schemas
//	}
package worker
