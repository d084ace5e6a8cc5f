package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nguyentantai21042004/chat-notes/internal/assembly"
	"github.com/nguyentantai21042004/chat-notes/internal/manager"
	"github.com/nguyentantai21042004/chat-notes/internal/model"
	"github.com/nguyentantai21042004/chat-notes/internal/parser"
	"github.com/nguyentantai21042004/chat-notes/internal/resolver"
)

// Process runs the full pipeline for one export folder. Only a setup
// failure (missing transcript, unreadable folder) returns an error;
// every per-item failure is recorded in its outcome and the run
// continues.
func (e *implEngine) Process(ctx context.Context, exportDir string) (*Result, error) {
	start := time.Now()

	e.logger.Info(ctx, "========================================")
	e.logger.Info(ctx, "Processing chat export: %s", exportDir)
	e.logger.Info(ctx, "========================================")

	res, err := resolver.New(exportDir, e.cfg.Limits, e.logger)
	if err != nil {
		return nil, fmt.Errorf("set up export folder: %w", err)
	}

	f, err := os.Open(res.Transcript())
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	messages, err := parser.Parse(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}
	e.logger.Info(ctx, "Parsed %d messages from %s", len(messages), res.Transcript())

	items, outcomes, stats := e.resolveMedia(ctx, res, messages)

	results := e.manager.Process(ctx, items)

	subs := make(map[int]assembly.Substitution, len(results)+len(outcomes))
	for _, o := range outcomes {
		subs[o.Ordinal] = assembly.Substitution{Status: o.Status}
	}
	for i := range results {
		r := &results[i]
		outcome, sub := itemOutcome(r, items[i].Media.Filename)
		outcomes = append(outcomes, outcome)
		subs[r.Ordinal] = sub

		switch outcome.Status {
		case model.OutcomeDescribed:
			stats.ProcessedMedia++
		case model.OutcomeCached:
			stats.CachedMedia++
		case model.OutcomeFailed:
			stats.FailedMedia++
		}
		stats.EstimatedCost += r.Cost
	}

	assembled := assembly.Assemble(messages, subs)
	outputPath, err := assembly.WriteFile(e.cfg.Paths.Output, assembled, &stats)
	if err != nil {
		return nil, fmt.Errorf("write enhanced transcript: %w", err)
	}

	stats.ProcessingTime = time.Since(start)
	e.logger.Info(ctx, "Done in %s: %d/%d media processed (%.1f%% success), cost $%.4f",
		stats.ProcessingTime.Round(time.Millisecond), stats.ProcessedMedia+stats.CachedMedia,
		stats.MediaMessages, stats.SuccessRate(), stats.EstimatedCost)

	return &Result{
		OutputPath: outputPath,
		Messages:   assembled,
		Outcomes:   outcomes,
		Stats:      stats,
	}, nil
}

// resolveMedia walks the parsed messages, resolves each media reference
// and splits them into dispatchable items and terminal outcomes
// (missing or oversize, which never reach a provider).
func (e *implEngine) resolveMedia(ctx context.Context, res resolver.Resolver, messages []model.Message) ([]manager.Item, []model.Outcome, model.Stats) {
	var (
		items    []manager.Item
		outcomes []model.Outcome
	)
	stats := model.Stats{TotalMessages: len(messages)}

	for i := range messages {
		msg := &messages[i]
		if !msg.HasMedia() {
			continue
		}
		stats.MediaMessages++

		media, err := res.Resolve(ctx, msg.Media)
		if err == nil {
			items = append(items, manager.Item{Ordinal: msg.Ordinal, Media: media})
			continue
		}

		var oversize *resolver.OversizeError
		switch {
		case errors.As(err, &oversize):
			stats.FailedMedia++
			outcomes = append(outcomes, model.Outcome{
				Ordinal:  msg.Ordinal,
				Filename: msg.Media.Filename,
				Status:   model.OutcomeOversize,
				Error:    err.Error(),
			})
		default:
			stats.MissingMedia++
			outcomes = append(outcomes, model.Outcome{
				Ordinal:  msg.Ordinal,
				Filename: msg.Media.Filename,
				Status:   model.OutcomeMissing,
				Error:    err.Error(),
			})
		}
	}

	return items, outcomes, stats
}

func itemOutcome(r *manager.ItemResult, filename string) (model.Outcome, assembly.Substitution) {
	outcome := model.Outcome{
		Ordinal:  r.Ordinal,
		Filename: filename,
		Provider: r.Provider,
		Cost:     r.Cost,
		Duration: r.Duration,
	}

	switch {
	case r.Err != nil:
		outcome.Status = model.OutcomeFailed
		outcome.ErrorKind = r.ErrKind
		outcome.Error = r.Err.Error()
	case r.Cached:
		outcome.Status = model.OutcomeCached
	default:
		outcome.Status = model.OutcomeDescribed
	}

	return outcome, assembly.Substitution{Text: r.Text, Status: outcome.Status}
}
