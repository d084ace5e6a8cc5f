package provider

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/nguyentantai21042004/chat-notes/internal/config"
	"github.com/nguyentantai21042004/chat-notes/internal/logger"
	"github.com/nguyentantai21042004/chat-notes/internal/model"
	"github.com/nguyentantai21042004/chat-notes/pkg/executor"
)

// Containers the Whisper API accepts without conversion.
var whisperAudioFormats = map[string]bool{
	".flac": true, ".m4a": true, ".mp3": true, ".mp4": true, ".mpeg": true,
	".mpga": true, ".oga": true, ".ogg": true, ".wav": true, ".webm": true,
}

type openaiWhisper struct {
	cfg       config.OpenAIConfig
	client    openai.Client
	normalize *normalizer
	logger    logger.Logger
}

// NewOpenAIWhisper returns the Whisper adapter, the primary audio
// transcription provider. Opus voice notes are normalized to mp3 first;
// a failed conversion is a permanent error for the item.
func NewOpenAIWhisper(cfg config.OpenAIConfig, exec executor.Executor, tempDir string, log logger.Logger) Provider {
	return &openaiWhisper{
		cfg:       cfg,
		client:    openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		normalize: newNormalizer(exec, tempDir, log),
		logger:    log,
	}
}

func (o *openaiWhisper) Name() string {
	return "openai-whisper"
}

func (o *openaiWhisper) Supports(c Capability) bool {
	return c == TranscribeAudio
}

func (o *openaiWhisper) Invoke(ctx context.Context, media *model.ResolvedMedia, c Capability, params Params) (*Result, error) {
	if !o.Supports(c) {
		return nil, permanentf(o.Name(), "capability %s not supported", c)
	}

	path, cleanup, err := o.normalize.toMP3(ctx, media.Path, whisperAudioFormats)
	if err != nil {
		return nil, permanentf(o.Name(), "normalize %s: %w", media.Filename, err)
	}
	defer cleanup()

	f, err := os.Open(path)
	if err != nil {
		return nil, permanentf(o.Name(), "open %s: %w", media.Filename, err)
	}
	defer f.Close()

	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(o.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	o.logger.Debug(ctx, "Transcribing %s with %s", media.Filename, params.Model)

	resp, err := o.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(params.Model),
		File:  f,
	})
	if err != nil {
		return nil, classify(o.Name(), fmt.Errorf("transcription: %w", err))
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		o.logger.Warn(ctx, "Empty transcription for %s, substituting placeholder", media.Filename)
		text = NoSpeechText
	}

	return &Result{
		Text:     text,
		Provider: o.Name(),
		Duration: time.Since(start),
	}, nil
}
