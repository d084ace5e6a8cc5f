package manager

import (
	"context"
	"sync"
)

// Process runs all items through the state machine. Results are indexed
// by input position, so worker completion order is never observable.
func (m *implManager) Process(ctx context.Context, items []Item) []ItemResult {
	results := make([]ItemResult, len(items))

	if m.opts.Mode == "parallel" {
		m.processParallel(ctx, items, results)
	} else {
		for i := range items {
			results[i] = m.processItem(ctx, items[i])
		}
	}

	return results
}

func (m *implManager) processParallel(ctx context.Context, items []Item, results []ItemResult) {
	sem := newSemaphore(m.opts.MaxWorkers)
	var wg sync.WaitGroup

	for i := range items {
		if err := sem.acquire(ctx); err != nil {
			results[i] = ItemResult{Ordinal: items[i].Ordinal, Err: err, ErrKind: "canceled"}
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.release()
			results[i] = m.processItem(ctx, items[i])
		}(i)
	}

	wg.Wait()
}
