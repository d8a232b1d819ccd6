package worker

import (
	"time"

	"github.com/gofhir/typegen"
)

// BatchResult aggregates the results of one batch.
type BatchResult struct {
	// Results holds one entry per input definition, in input order.
	Results []*typegen.Result

	// TotalJobs is the number of definitions submitted.
	TotalJobs int

	// CompletedJobs is the number of definitions compiled (including errors).
	CompletedJobs int

	// FailedJobs is the number of definitions that failed.
	FailedJobs int

	// TotalDuration is the wall time of the whole batch.
	TotalDuration time.Duration
}

// HasErrors returns true if any definition failed.
func (br *BatchResult) HasErrors() bool {
	for _, r := range br.Results {
		if !r.OK() {
			return true
		}
	}
	return false
}

// Succeeded returns the results that compiled, in input order.
func (br *BatchResult) Succeeded() []*typegen.Result {
	out := make([]*typegen.Result, 0, len(br.Results))
	for _, r := range br.Results {
		if r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// Failed returns the results that did not compile, in input order.
func (br *BatchResult) Failed() []*typegen.Result {
	var out []*typegen.Result
	for _, r := range br.Results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// InterfaceCount returns the number of interfaces across all results.
func (br *BatchResult) InterfaceCount() int {
	n := 0
	for _, r := range br.Results {
		n += r.InterfaceCount()
	}
	return n
}

// ProblemCount returns the number of invariant problems across all results.
func (br *BatchResult) ProblemCount() int {
	n := 0
	for _, r := range br.Results {
		if r != nil {
			n += len(r.Problems)
		}
	}
	return n
}
