package sinkdag

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// runFanout runs each task to completion, at most maxConcurrency of them
// at once, and waits for all of them or until timeout elapses, whichever
// comes first.
//
// This is the mechanism behind spec.md section 5's "reverse traversal may
// fan out at sink across its incoming edges and ascend concurrently": C3
// and C4 each hand runFanout one task per initial edge out of sink, and
// every task performs its own serial upward walk. The bounded worker count
// and context-timeout-wrapped wait are adapted from
// yesoreyeram-thaiyyal's parallel_executor.go (goroutine pool with a
// configurable concurrency limit, context-aware cancellation); unlike that
// engine's dependency-ordered DAG levels, every fan-out task here is
// already independent by construction (spec.md section 4.4's concurrency
// note), so no level barrier is needed between them.
//
// No cooperative cancellation is required (spec.md section 5: "Suspension
// points: none"): a timeout aborts the *wait*, surfacing ErrTimeout, and
// already-running goroutines are left to finish against a store that the
// caller discards on error, per spec.md section 7's "no partial automata
// are returned".
func runFanout(ctx context.Context, timeout time.Duration, maxConcurrency int, tasks []func()) error {
	if len(tasks) == 0 {
		return nil
	}
	if maxConcurrency <= 0 {
		maxConcurrency = runtime.GOMAXPROCS(0)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		sem <- struct{}{}
		go func(t func()) {
			defer wg.Done()
			defer func() { <-sem }()
			t()
		}(task)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runBounded runs each task concurrently, at most maxConcurrency at a
// time, and always waits for every task to finish. Used by MatchMany:
// spec.md section 5 explicitly exempts matching from any timeout ("Matching
// is not subject to a timeout at the core layer; callers may impose one
// externally"), so unlike runFanout there is no context deadline here.
func runBounded(maxConcurrency int, tasks []func()) {
	if len(tasks) == 0 {
		return
	}
	if maxConcurrency <= 0 {
		maxConcurrency = runtime.GOMAXPROCS(0)
	}

	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		sem <- struct{}{}
		go func(t func()) {
			defer wg.Done()
			defer func() { <-sem }()
			t()
		}(task)
	}
	wg.Wait()
}
