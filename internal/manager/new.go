package manager

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/chat-notes/internal/cache"
	"github.com/nguyentantai21042004/chat-notes/internal/cost"
	"github.com/nguyentantai21042004/chat-notes/internal/logger"
	"github.com/nguyentantai21042004/chat-notes/internal/provider"
	"github.com/nguyentantai21042004/chat-notes/internal/ratelimit"
)

// Options select the execution mode and cache policy for a run.
type Options struct {
	Mode          string // sequential | parallel
	MaxWorkers    int
	CacheFailures bool // also cache permanent failures
}

type implManager struct {
	chains  map[provider.Capability][]provider.Provider
	models  map[string]string // provider name -> model identifier
	store   *cache.Store      // nil disables caching
	limiter *ratelimit.Limiter
	ledger  *cost.Ledger
	opts    Options
	logger  logger.Logger

	// injectable for tests
	sleep func(ctx context.Context, d time.Duration)
}

// New creates a Manager. The limiter and ledger are the run's shared
// mutable state and must be the same instances across all managers
// targeting the same providers.
func New(
	chains map[provider.Capability][]provider.Provider,
	models map[string]string,
	store *cache.Store,
	limiter *ratelimit.Limiter,
	ledger *cost.Ledger,
	opts Options,
	log logger.Logger,
) Manager {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 1
	}
	return &implManager{
		chains:  chains,
		models:  models,
		store:   store,
		limiter: limiter,
		ledger:  ledger,
		opts:    opts,
		logger:  log,
		sleep:   sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
