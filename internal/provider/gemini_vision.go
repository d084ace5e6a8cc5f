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
)

type geminiVision struct {
	cfg    config.GeminiConfig
	logger logger.Logger
}

// NewGeminiVision returns the Gemini adapter for image and video
// description. Media bytes are sent inline with their MIME type.
func NewGeminiVision(cfg config.GeminiConfig, log logger.Logger) Provider {
	return &geminiVision{cfg: cfg, logger: log}
}

func (g *geminiVision) Name() string {
	return "gemini-vision"
}

func (g *geminiVision) Supports(c Capability) bool {
	return c == DescribeImage || c == DescribeVideo
}

func (g *geminiVision) Invoke(ctx context.Context, media *model.ResolvedMedia, c Capability, params Params) (*Result, error) {
	if !g.Supports(c) {
		return nil, permanentf(g.Name(), "capability %s not supported", c)
	}

	data, err := os.ReadFile(media.Path)
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
			{Text: params.Prompt},
			{InlineData: &genai.Blob{MIMEType: mimeType(media.Extension), Data: data}},
		},
	}}

	g.logger.Debug(ctx, "Describing %s with %s", media.Filename, params.Model)

	result, err := client.Models.GenerateContent(ctx, params.Model, contents, nil)
	if err != nil {
		return nil, classify(g.Name(), fmt.Errorf("generate content: %w", err))
	}

	text, tokens := extractGeminiText(result)
	if text == "" {
		g.logger.Warn(ctx, "Empty response for %s, substituting placeholder", media.Filename)
		text = NoDescriptionText
	}

	return &Result{
		Text:       text,
		Provider:   g.Name(),
		TokensUsed: tokens,
		Duration:   time.Since(start),
	}, nil
}

func extractGeminiText(result *genai.GenerateContentResponse) (string, int) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", 0
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	tokens := 0
	if result.UsageMetadata != nil {
		tokens = int(result.UsageMetadata.TotalTokenCount)
	}
	return strings.TrimSpace(text), tokens
}
