package manager

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/chat-notes/internal/model"
)

// Item is one resolved media item awaiting processing.
type Item struct {
	Ordinal int
	Media   *model.ResolvedMedia
}

// ItemResult is the terminal state of one item's capability request.
type ItemResult struct {
	Ordinal  int
	Text     string
	Provider string
	Cached   bool
	Cost     float64
	Err      error // nil on success
	ErrKind  string
	Duration time.Duration
}

// Success reports whether the item produced a description/transcription.
func (r *ItemResult) Success() bool {
	return r.Err == nil
}

// Manager routes each media item through cache lookup, its capability's
// provider chain, retries and fallback, and accumulates cost.
type Manager interface {
	// Process handles every item and returns one result per item, in
	// input order. Item failures never abort the batch.
	Process(ctx context.Context, items []Item) []ItemResult
}
