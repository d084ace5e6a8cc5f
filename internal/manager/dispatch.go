package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/chat-notes/internal/cache"
	"github.com/nguyentantai21042004/chat-notes/internal/cost"
	"github.com/nguyentantai21042004/chat-notes/internal/provider"
)

// ErrExhausted means every provider in the chain failed for an item.
var ErrExhausted = errors.New("all providers failed")

const (
	maxRetries     = 3
	initialBackoff = time.Second
)

// processItem runs the per-item state machine: cache check, then the
// provider chain in order with retry on transient errors and immediate
// fallback on rate-limited or permanent ones.
func (m *implManager) processItem(ctx context.Context, item Item) ItemResult {
	start := time.Now()

	capability, ok := provider.CapabilityFor(item.Media.Kind)
	if !ok {
		return ItemResult{
			Ordinal: item.Ordinal,
			Err:     fmt.Errorf("no capability for media kind %s", item.Media.Kind),
			ErrKind: string(provider.KindPermanent),
		}
	}

	chain := m.chains[capability]

	// A successful hit from any provider in the chain short-circuits
	// the dispatch entirely: zero cost, zero rate-limit consumption. A
	// cached permanent failure only removes that provider from the
	// chain, since the fallback may still accept the content.
	hit, doomed := m.cacheLookup(item, capability, chain)
	if hit != nil {
		hit.Duration = time.Since(start)
		return *hit
	}

	var lastErr error
	for _, p := range chain {
		if cachedErr, ok := doomed[p.Name()]; ok {
			lastErr = cachedErr
			continue
		}
		params := provider.DefaultParams(capability, m.models[p.Name()])

		result, err := m.invokeWithRetry(ctx, p, item, capability, params)
		if err == nil {
			amount := cost.Estimate(p.Name(), string(capability), item.Media)
			m.ledger.Add(p.Name(), amount)
			m.cachePut(item, capability, p.Name(), params, cache.Entry{
				Success: true,
				Text:    result.Text,
				Cost:    amount,
			})
			m.logger.Info(ctx, "%s: %s ok (%.2fs)", item.Media.Filename, p.Name(), time.Since(start).Seconds())
			return ItemResult{
				Ordinal:  item.Ordinal,
				Text:     result.Text,
				Provider: p.Name(),
				Cost:     amount,
				Duration: time.Since(start),
			}
		}

		lastErr = err
		kind := provider.KindOf(err)
		m.logger.Warn(ctx, "%s: %s failed (%s): %v", item.Media.Filename, p.Name(), kind, err)

		if kind == provider.KindPermanent && m.opts.CacheFailures {
			m.cachePut(item, capability, p.Name(), params, cache.Entry{
				Success: false,
				Text:    err.Error(),
			})
		}
		// Rate-limited and permanent both move to the next provider
		// immediately; transient retries were already exhausted.
	}

	if lastErr == nil {
		lastErr = permanentNoProvider(capability)
	}
	return ItemResult{
		Ordinal:  item.Ordinal,
		Err:      fmt.Errorf("%w: %v", ErrExhausted, lastErr),
		ErrKind:  string(provider.KindOf(lastErr)),
		Duration: time.Since(start),
	}
}

func permanentNoProvider(capability provider.Capability) error {
	return &provider.Error{
		Provider: "none",
		Kind:     provider.KindPermanent,
		Err:      fmt.Errorf("no provider configured for %s", capability),
	}
}

// invokeWithRetry handles one provider's slice of the state machine:
// RateLimitWait -> Invoke -> retry with exponential backoff on
// transient errors, up to maxRetries.
func (m *implManager) invokeWithRetry(ctx context.Context, p provider.Provider, item Item, capability provider.Capability, params provider.Params) (*provider.Result, error) {
	backoff := initialBackoff

	for attempt := 0; ; attempt++ {
		if err := m.waitForBudget(ctx, p.Name()); err != nil {
			return nil, &provider.Error{Provider: p.Name(), Kind: provider.KindTransient, Err: err}
		}

		result, err := p.Invoke(ctx, item.Media, capability, params)
		if err == nil {
			return result, nil
		}

		if provider.KindOf(err) != provider.KindTransient || attempt >= maxRetries {
			return nil, err
		}

		m.logger.Debug(ctx, "%s: retry %d/%d after %s", p.Name(), attempt+1, maxRetries, backoff)
		m.sleep(ctx, backoff)
		backoff *= 2

		if ctx.Err() != nil {
			return nil, &provider.Error{Provider: p.Name(), Kind: provider.KindTransient, Err: ctx.Err()}
		}
	}
}

// waitForBudget blocks until the provider's sliding window grants a
// slot, sleeping for the durations the limiter returns.
func (m *implManager) waitForBudget(ctx context.Context, providerName string) error {
	for {
		ok, wait := m.limiter.Acquire(providerName)
		if ok {
			return nil
		}
		m.logger.Debug(ctx, "%s: rate limit window full, waiting %s", providerName, wait)
		m.sleep(ctx, wait)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// cacheLookup returns a cached success if one exists, plus the set of
// providers whose permanent failures were cached on a previous run.
func (m *implManager) cacheLookup(item Item, capability provider.Capability, chain []provider.Provider) (*ItemResult, map[string]error) {
	doomed := make(map[string]error)
	if m.store == nil {
		return nil, doomed
	}

	for _, p := range chain {
		params := provider.DefaultParams(capability, m.models[p.Name()])
		entry, err := m.store.Get(cache.Key{
			ContentHash:  item.Media.ContentHash,
			Capability:   string(capability),
			Provider:     p.Name(),
			ParamsDigest: params.Fingerprint(),
		})
		if err != nil {
			continue
		}
		if entry.Success {
			return &ItemResult{
				Ordinal:  item.Ordinal,
				Text:     entry.Text,
				Provider: p.Name(),
				Cached:   true,
			}, doomed
		}
		doomed[p.Name()] = &provider.Error{
			Provider: p.Name(),
			Kind:     provider.KindPermanent,
			Err:      fmt.Errorf("cached failure: %s", entry.Text),
		}
	}

	return nil, doomed
}

func (m *implManager) cachePut(item Item, capability provider.Capability, providerName string, params provider.Params, entry cache.Entry) {
	if m.store == nil {
		return
	}
	key := cache.Key{
		ContentHash:  item.Media.ContentHash,
		Capability:   string(capability),
		Provider:     providerName,
		ParamsDigest: params.Fingerprint(),
	}
	if err := m.store.Put(key, entry); err != nil {
		m.logger.Warn(context.Background(), "Cache write failed for %s: %v", item.Media.Filename, err)
	}
}
