package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// FailureMode decides what a pool does with the rest of a batch once a
// record fails.
type FailureMode int

const (
	// Abort stops handing out records after the first failure. Records that
	// were not started are reported with domain.ErrNotAttempted.
	Abort FailureMode = iota
	// Continue attempts every record regardless of earlier failures.
	Continue
)

// ParseFailureMode maps the FAILURE_MODE setting; anything but "continue"
// means Abort.
func ParseFailureMode(s string) FailureMode {
	if s == "continue" {
		return Continue
	}
	return Abort
}

// Hooks carries the metric callbacks injected by main.
// A nil field is a no-op.
type Hooks struct {
	OnSuccess func(latency time.Duration)
	OnFailure func(err error)
}

// ProcessFunc handles the record at index i of the batch.
type ProcessFunc func(ctx context.Context, i int) error

// Pool runs the records of one batch through a fixed number of workers.
// With one worker records are processed strictly in order, each outbound
// call completing before the next record starts.
// A Pool holds no per-batch state and may be reused across invocations.
type Pool struct {
	size  int
	mode  FailureMode
	hooks Hooks
}

// NewPool creates a pool with size workers. size < 1 is treated as 1.
func NewPool(size int, mode FailureMode, hooks Hooks) *Pool {
	if size < 1 {
		size = 1
	}
	if hooks.OnSuccess == nil {
		hooks.OnSuccess = func(time.Duration) {}
	}
	if hooks.OnFailure == nil {
		hooks.OnFailure = func(error) {}
	}
	return &Pool{size: size, mode: mode, hooks: hooks}
}

// Run processes ids[i] by calling fn(ctx, i) for every index and blocks until
// every worker has returned. The report has one outcome per id, in input
// order.
func (p *Pool) Run(ctx context.Context, ids []string, fn ProcessFunc) Report {
	outcomes := make([]Outcome, len(ids))
	for i, id := range ids {
		outcomes[i].ID = id
	}

	jobs := make(chan int, len(ids))
	for i := range ids {
		jobs <- i
	}
	close(jobs)

	workers := p.size
	if workers > len(ids) {
		workers = len(ids)
	}

	var (
		wg      sync.WaitGroup
		stopped atomic.Bool
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Each index is owned by exactly one worker, so writing
				// outcomes[i] needs no lock.
				if stopped.Load() || ctx.Err() != nil {
					outcomes[i].Skipped = true
					continue
				}
				start := time.Now()
				err := fn(ctx, i)
				outcomes[i].Err = err
				if err != nil {
					p.hooks.OnFailure(err)
					if p.mode == Abort {
						stopped.Store(true)
					}
					continue
				}
				p.hooks.OnSuccess(time.Since(start))
			}
		}()
	}
	wg.Wait()

	for i := range outcomes {
		if outcomes[i].Skipped {
			p.hooks.OnFailure(outcomes[i].Error())
		}
	}
	return Report{Outcomes: outcomes}
}
