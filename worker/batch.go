package worker

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/gofhir/typegen"
	"github.com/gofhir/typegen/pkg/logger"
	"github.com/gofhir/typegen/pkg/registry"
	"github.com/gofhir/typegen/pkg/schema"
)

// CompileFunc compiles a single definition. It must return a non-nil Result.
type CompileFunc func(ctx context.Context, sd *registry.StructureDefinition) *typegen.Result

// BatchCompiler compiles many definitions on a bounded set of goroutines.
type BatchCompiler struct {
	compile CompileFunc
	workers int
	log     *logger.Logger
}

// NewBatchCompiler creates a new batch compiler.
func NewBatchCompiler(compileFunc CompileFunc, workers int) *BatchCompiler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchCompiler{
		compile: compileFunc,
		workers: workers,
		log:     logger.Default().Named("worker"),
	}
}

// SetLogger replaces the logger used for per-definition reports.
func (bc *BatchCompiler) SetLogger(l *logger.Logger) {
	bc.log = l
}

// CompileBatch compiles defs and returns one Result per definition, in
// input order. Definitions not reached before ctx is done carry ctx.Err().
func (bc *BatchCompiler) CompileBatch(ctx context.Context, defs []*registry.StructureDefinition) *BatchResult {
	start := time.Now()

	var results []*typegen.Result
	var completed int
	switch {
	case len(defs) == 0:
		results = make([]*typegen.Result, 0)
	case len(defs) <= 2:
		// For small batches, don't use parallelism
		results, completed = bc.compileSequential(ctx, defs)
	default:
		results, completed = bc.compileParallel(ctx, defs)
	}

	for i, r := range results {
		if r == nil {
			results[i] = canceled(ctx, defs[i])
		}
	}
	rejectDuplicates(results)

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
			bc.log.Debug("%s: %v", r.Type, r.Err)
		}
	}

	return &BatchResult{
		Results:       results,
		TotalJobs:     len(defs),
		CompletedJobs: completed,
		FailedJobs:    failed,
		TotalDuration: time.Since(start),
	}
}

func (bc *BatchCompiler) compileSequential(ctx context.Context, defs []*registry.StructureDefinition) ([]*typegen.Result, int) {
	results := make([]*typegen.Result, len(defs))
	completed := 0

	for i, sd := range defs {
		if ctx.Err() != nil {
			break
		}
		results[i] = bc.compile(ctx, sd)
		completed++
	}
	return results, completed
}

func (bc *BatchCompiler) compileParallel(ctx context.Context, defs []*registry.StructureDefinition) ([]*typegen.Result, int) {
	numWorkers := bc.workers
	if numWorkers > len(defs) {
		numWorkers = len(defs)
	}

	jobs := make(chan int, len(defs))
	resultsChan := make(chan indexedResult, len(defs))

	// Start workers
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					return
				}
				resultsChan <- indexedResult{index: idx, result: bc.compile(ctx, defs[idx])}
			}
		}()
	}

	// Submit jobs
	go func() {
		defer close(jobs)
		for i := range defs {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	// Wait for workers and close results channel
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Collect results in order
	results := make([]*typegen.Result, len(defs))
	completed := 0
	for ir := range resultsChan {
		results[ir.index] = ir.result
		completed++
	}
	return results, completed
}

type indexedResult struct {
	index  int
	result *typegen.Result
}

func canceled(ctx context.Context, sd *registry.StructureDefinition) *typegen.Result {
	r := &typegen.Result{Root: typegen.RootName(sd), Err: ctx.Err()}
	if sd != nil {
		r.URL, r.Type = sd.URL, sd.Type
	}
	if r.Err == nil {
		r.Err = context.Canceled
	}
	return r
}

// rejectDuplicates fails every result that produces an interface name an
// earlier successful result already produced. Only successful results
// claim names, so one bad definition cannot shadow a later good one.
func rejectDuplicates(results []*typegen.Result) {
	owners := make(map[string]*typegen.Result)
	for _, r := range results {
		if !r.OK() {
			continue
		}

		var clash error
		for _, name := range r.Schemas.Names() {
			if owner, ok := owners[name]; ok {
				clash = fmt.Errorf("%s: %w %q (already produced by %s)", source(r), schema.ErrDuplicateInterface, name, source(owner))
				break
			}
		}
		if clash != nil {
			r.Fail(clash)
			continue
		}

		for name := range r.Schemas {
			owners[name] = r
		}
	}
}

func source(r *typegen.Result) string {
	if r.URL != "" {
		return r.URL
	}
	return r.Type
}

// CompileBatchSimple is a convenience function for batch compilation.
func CompileBatchSimple(ctx context.Context, compileFunc CompileFunc, defs []*registry.StructureDefinition) *BatchResult {
	return NewBatchCompiler(compileFunc, runtime.NumCPU()).CompileBatch(ctx, defs)
}
