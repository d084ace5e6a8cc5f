package provider

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/chat-notes/internal/config"
	"github.com/nguyentantai21042004/chat-notes/internal/logger"
	"github.com/nguyentantai21042004/chat-notes/internal/model"
	"github.com/nguyentantai21042004/chat-notes/pkg/executor"
)

// Containers Gemini accepts without conversion.
var geminiAudioFormats = map[string]bool{
	".mp3": true, ".wav": true, ".aac": true, ".ogg": true, ".flac": true,
}

type geminiAudio struct {
	cfg       config.GeminiConfig
	normalize *normalizer
	logger    logger.Logger
}

// NewGeminiAudio returns the Gemini transcription adapter, used as the
// fallback in the audio chain. Voice-note containers are normalized to
// mp3 before dispatch.
func NewGeminiAudio(cfg config.GeminiConfig, exec executor.Executor, tempDir string, log logger.Logger) Provider {
	return &geminiAudio{
		cfg:       cfg,
		normalize: newNormalizer(exec, tempDir, log),
		logger:    log,
	}
}

func (g *geminiAudio) Name() string {
	return "gemini-audio"
}

func (g *geminiAudio) Supports(c Capability) bool {
	return c == TranscribeAudio
}

func (g *geminiAudio) Invoke(ctx context.Context, media *model.ResolvedMedia, c Capability, params Params) (*Result, error) {
	if !g.Supports(c) {
		return nil, permanentf(g.Name(), "capability %s not supported", c)
	}

	path, cleanup, err := g.normalize.toMP3(ctx, media.Path, geminiAudioFormats)
	if err != nil {
		return nil, permanentf(g.Name(), "normalize %s: %w", media.Filename, err)
	}
	defer cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, permanentf(g.Name(), "read %s: %w", media.Filename, err)
	}

	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, classify(g.Name(), fmt.Errorf("create client: %w", err))
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{
			{Text: "Transcribe this voice message verbatim. Return only the spoken words."},
			{InlineData: &genai.Blob{MIMEType: "audio/mp3", Data: data}},
		},
	}}

	g.logger.Debug(ctx, "Transcribing %s with %s", media.Filename, params.Model)

	result, err := client.Models.GenerateContent(ctx, params.Model, contents, nil)
	if err != nil {
		return nil, classify(g.Name(), fmt.Errorf("generate content: %w", err))
	}

	text, tokens := extractGeminiText(result)
	if strings.TrimSpace(text) == "" {
		g.logger.Warn(ctx, "Empty transcription for %s, substituting placeholder", media.Filename)
		text = NoSpeechText
	}

	return &Result{
		Text:       text,
		Provider:   g.Name(),
		TokensUsed: tokens,
		Duration:   time.Since(start),
	}, nil
}
