package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nguyentantai21042004/chat-notes/internal/cache"
	"github.com/nguyentantai21042004/chat-notes/internal/config"
	"github.com/nguyentantai21042004/chat-notes/internal/cost"
	"github.com/nguyentantai21042004/chat-notes/internal/engine"
	"github.com/nguyentantai21042004/chat-notes/internal/logger"
	"github.com/nguyentantai21042004/chat-notes/internal/manager"
	"github.com/nguyentantai21042004/chat-notes/internal/provider"
	"github.com/nguyentantai21042004/chat-notes/internal/ratelimit"
	"github.com/nguyentantai21042004/chat-notes/internal/watcher"
	"github.com/nguyentantai21042004/chat-notes/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	exportDir := flag.String("export", "", "chat export folder to process (overrides paths.export)")
	watchMode := flag.Bool("watch", false, "watch paths.inbox for new export folders")
	clearCache := flag.Bool("clear-cache", false, "clear the result cache and exit")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *exportDir != "" {
		cfg.Paths.Export = *exportDir
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Chat Notes - export media processor")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Mode: %s (max workers: %d)", cfg.Performance.Mode, cfg.Performance.MaxWorkers)

	if err := os.MkdirAll(cfg.Paths.Output, 0o755); err != nil {
		log.Error(ctx, "Failed to create output directory: %v", err)
		os.Exit(1)
	}

	// Result cache
	var store *cache.Store
	if cfg.CacheEnabled() || *clearCache {
		store, err = cache.Open(cfg.Cache.Path)
		if err != nil {
			log.Error(ctx, "Failed to open result cache: %v", err)
			os.Exit(1)
		}
		defer store.Close()
	}
	if *clearCache {
		if err := store.Clear(); err != nil {
			log.Error(ctx, "Failed to clear cache: %v", err)
			os.Exit(1)
		}
		log.Info(ctx, "Result cache cleared")
		return
	}
	if !cfg.CacheEnabled() {
		store = nil
		log.Warn(ctx, "Result cache disabled; every run will re-invoke providers")
	}

	mgr := buildManager(cfg, store, log)
	eng := engine.New(cfg, mgr, log)

	if *watchMode {
		runWatch(ctx, cfg, eng, log)
		return
	}

	if cfg.Paths.Export == "" {
		log.Error(ctx, "No export folder: set paths.export, pass -export or use -watch")
		os.Exit(1)
	}

	result, err := eng.Process(ctx, cfg.Paths.Export)
	if err != nil {
		log.Error(ctx, "Processing failed: %v", err)
		os.Exit(1)
	}
	log.Info(ctx, "Enhanced transcript written to %s", result.OutputPath)
}

// buildManager wires the provider chains, rate limiter and cost ledger.
// Image description prefers Gemini with GPT-4o vision as fallback;
// audio transcription prefers Whisper with Gemini as fallback; video
// description has no fallback provider.
func buildManager(cfg *config.Config, store *cache.Store, log logger.Logger) manager.Manager {
	exec := executor.New()

	geminiVision := provider.NewGeminiVision(cfg.Providers.Gemini, log)
	geminiAudio := provider.NewGeminiAudio(cfg.Providers.Gemini, exec, cfg.Paths.Temp, log)
	openaiVision := provider.NewOpenAIVision(cfg.Providers.OpenAI, log)
	openaiWhisper := provider.NewOpenAIWhisper(cfg.Providers.OpenAI, exec, cfg.Paths.Temp, log)

	chains := map[provider.Capability][]provider.Provider{
		provider.DescribeImage:   {geminiVision, openaiVision},
		provider.DescribeVideo:   {geminiVision},
		provider.TranscribeAudio: {openaiWhisper, geminiAudio},
	}
	models := map[string]string{
		geminiVision.Name():  cfg.Providers.Gemini.Model,
		geminiAudio.Name():   cfg.Providers.Gemini.Model,
		openaiVision.Name():  cfg.Providers.OpenAI.VisionModel,
		openaiWhisper.Name(): cfg.Providers.OpenAI.WhisperModel,
	}

	limiter := ratelimit.New()
	limiter.SetBudget(geminiVision.Name(), cfg.Providers.Gemini.RequestsPerMin, time.Minute)
	limiter.SetBudget(geminiAudio.Name(), cfg.Providers.Gemini.RequestsPerMin, time.Minute)
	limiter.SetBudget(openaiVision.Name(), cfg.Providers.OpenAI.RequestsPerMin, time.Minute)
	limiter.SetBudget(openaiWhisper.Name(), cfg.Providers.OpenAI.RequestsPerMin, time.Minute)

	opts := manager.Options{
		Mode:          cfg.Performance.Mode,
		MaxWorkers:    cfg.Performance.MaxWorkers,
		CacheFailures: cfg.Cache.CacheFailures,
	}

	return manager.New(chains, models, store, limiter, cost.NewLedger(), opts, log)
}

// runWatch monitors the inbox for new export folders until interrupted.
func runWatch(ctx context.Context, cfg *config.Config, eng engine.Engine, log logger.Logger) {
	if cfg.Paths.Inbox == "" {
		log.Error(ctx, "Watch mode requires paths.inbox")
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.Paths.Inbox, 0o755); err != nil {
		log.Error(ctx, "Failed to create inbox directory: %v", err)
		os.Exit(1)
	}

	handler := func(ctx context.Context, exportDir string) error {
		result, err := eng.Process(ctx, exportDir)
		if err != nil {
			return err
		}
		log.Info(ctx, "Enhanced transcript written to %s", result.OutputPath)
		return nil
	}

	w, err := watcher.New(cfg.Paths.Inbox, handler, log, cfg.Performance.MaxWorkers)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "Watching %s for new chat exports. Press Ctrl+C to stop", cfg.Paths.Inbox)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()
}
