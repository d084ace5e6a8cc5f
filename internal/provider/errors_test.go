package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"quota marker", errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED"), KindRateLimited},
		{"rate limit text", errors.New("rate limit reached for gpt-4o"), KindRateLimited},
		{"deadline", context.DeadlineExceeded, KindTransient},
		{"server error", errors.New("503 service unavailable"), KindTransient},
		{"overloaded", errors.New("the model is overloaded"), KindTransient},
		{"bad request", errors.New("400 invalid request payload"), KindPermanent},
		{"unsupported", errors.New("unsupported media format"), KindPermanent},
		{"unknown stays retryable", errors.New("connection reset by peer"), KindTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("gemini-vision", tt.err)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, "gemini-vision", got.Provider)
		})
	}
}

func TestKindOf(t *testing.T) {
	pe := &Error{Provider: "p", Kind: KindPermanent, Err: errors.New("boom")}
	assert.Equal(t, KindPermanent, KindOf(pe))

	wrapped := fmt.Errorf("invoke: %w", pe)
	assert.Equal(t, KindPermanent, KindOf(wrapped))

	assert.Equal(t, KindTransient, KindOf(errors.New("plain")))
}

func TestParamsFingerprint(t *testing.T) {
	a := Params{Prompt: "describe", Model: "gemini-2.5-flash"}
	b := Params{Prompt: "describe", Model: "gpt-4o"}

	assert.Equal(t, a.Fingerprint(), a.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 16)
}
