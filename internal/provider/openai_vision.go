package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/nguyentantai21042004/chat-notes/internal/config"
	"github.com/nguyentantai21042004/chat-notes/internal/logger"
	"github.com/nguyentantai21042004/chat-notes/internal/model"
)

// GPT-4o vision accepts fewer image formats than Gemini.
var openaiImageFormats = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

type openaiVision struct {
	cfg    config.OpenAIConfig
	client openai.Client
	logger logger.Logger
}

// NewOpenAIVision returns the GPT-4o adapter used as the image
// description fallback. It does not handle video.
func NewOpenAIVision(cfg config.OpenAIConfig, log logger.Logger) Provider {
	return &openaiVision{
		cfg:    cfg,
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		logger: log,
	}
}

func (o *openaiVision) Name() string {
	return "openai-vision"
}

func (o *openaiVision) Supports(c Capability) bool {
	return c == DescribeImage
}

func (o *openaiVision) Invoke(ctx context.Context, media *model.ResolvedMedia, c Capability, params Params) (*Result, error) {
	if !o.Supports(c) {
		return nil, permanentf(o.Name(), "capability %s not supported", c)
	}
	if !openaiImageFormats[media.Extension] {
		return nil, permanentf(o.Name(), "unsupported image format: %s", media.Extension)
	}

	data, err := os.ReadFile(media.Path)
	if err != nil {
		return nil, permanentf(o.Name(), "read %s: %w", media.Filename, err)
	}

	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(o.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType(media.Extension), base64.StdEncoding.EncodeToString(data))

	o.logger.Debug(ctx, "Describing %s with %s", media.Filename, params.Model)

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(params.Model),
		MaxTokens: openai.Int(500),
		Messages: []openai.ChatCompletionMessageParamUnion{
			imageUserMessage(params.Prompt, dataURL),
		},
	})
	if err != nil {
		return nil, classify(o.Name(), fmt.Errorf("chat completion: %w", err))
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	if text == "" {
		o.logger.Warn(ctx, "Empty response for %s, substituting placeholder", media.Filename)
		text = NoDescriptionText
	}

	return &Result{
		Text:       text,
		Provider:   o.Name(),
		TokensUsed: int(resp.Usage.TotalTokens),
		Duration:   time.Since(start),
	}, nil
}

// imageUserMessage builds a user message carrying a text prompt and an
// inline image as a data URL.
func imageUserMessage(prompt, imageURL string) openai.ChatCompletionMessageParamUnion {
	imageContent := openai.ChatCompletionContentPartUnionParam{
		OfImageURL: &openai.ChatCompletionContentPartImageParam{
			ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
				URL:    imageURL,
				Detail: "auto",
			},
		},
	}

	textContent := openai.ChatCompletionContentPartUnionParam{
		OfText: &openai.ChatCompletionContentPartTextParam{
			Text: prompt,
		},
	}

	return openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
					textContent,
					imageContent,
				},
			},
		},
	}
}
