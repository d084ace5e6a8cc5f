// Package provider contains the AI service adapters. Every adapter
// exposes the same Invoke contract so the service manager can treat an
// ordered provider chain as data rather than branching code.
package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/nguyentantai21042004/chat-notes/internal/model"
)

// Capability is an abstract task a provider performs.
type Capability string

const (
	DescribeImage   Capability = "describe-image"
	DescribeVideo   Capability = "describe-video"
	TranscribeAudio Capability = "transcribe-audio"
)

// CapabilityFor maps a media kind to the capability that handles it.
// Video is described, not transcribed.
func CapabilityFor(kind model.MediaKind) (Capability, bool) {
	switch kind {
	case model.KindImage:
		return DescribeImage, true
	case model.KindVideo:
		return DescribeVideo, true
	case model.KindAudio:
		return TranscribeAudio, true
	default:
		return "", false
	}
}

// Params are the request parameters for one invocation. They are part
// of the cache key, so two invocations with different prompts or models
// never share a cache entry.
type Params struct {
	Prompt string
	Model  string
}

// Fingerprint returns a stable digest of the parameters for cache keying.
func (p Params) Fingerprint() string {
	h := sha256.Sum256([]byte(p.Model + "\x00" + p.Prompt))
	return hex.EncodeToString(h[:8])
}

// Result is the uniform response from any adapter.
type Result struct {
	Text       string
	Provider   string
	TokensUsed int
	Duration   time.Duration
}

// Provider is one external AI service adapter. Invoke returns either a
// Result or a *provider.Error whose Kind drives retry and fallback.
type Provider interface {
	Name() string
	Supports(c Capability) bool
	Invoke(ctx context.Context, media *model.ResolvedMedia, c Capability, params Params) (*Result, error)
}

const (
	defaultImagePrompt = "Describe this image in detail. Focus on the main subjects, objects, " +
		"activities, setting, and any text visible in the image. Be concise but comprehensive."
	defaultVideoPrompt = "Describe this video in detail, focusing on the main subjects, actions, " +
		"setting, and any notable features or events."
)

// Placeholder text for empty-but-successful responses. Providers return
// these as ordinary results so they are cached like any other success.
const (
	NoDescriptionText = "[no description available]"
	NoSpeechText      = "[no speech detected]"
)

// DefaultParams returns the stock prompt and model for a capability.
func DefaultParams(c Capability, model string) Params {
	switch c {
	case DescribeImage:
		return Params{Prompt: defaultImagePrompt, Model: model}
	case DescribeVideo:
		return Params{Prompt: defaultVideoPrompt, Model: model}
	default:
		return Params{Model: model}
	}
}
