package cost

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nguyentantai21042004/chat-notes/internal/model"
)

func TestEstimatePerItem(t *testing.T) {
	media := &model.ResolvedMedia{SizeBytes: 2 * 1024 * 1024}

	assert.InDelta(t, 0.0025, Estimate("gemini-vision", "describe-image", media), 1e-9)
	assert.InDelta(t, 0.01, Estimate("openai-vision", "describe-image", media), 1e-9)
	assert.Zero(t, Estimate("openai-vision", "describe-video", media))
	assert.Zero(t, Estimate("unknown", "describe-image", media))
}

func TestEstimatePerMinute(t *testing.T) {
	// Two minutes of voice-note audio at 32kbps.
	media := &model.ResolvedMedia{SizeBytes: 2 * bytesPerMinute}
	assert.InDelta(t, 2*0.006, Estimate("openai-whisper", "transcribe-audio", media), 1e-9)

	// Tiny clips are floored at 0.1 billed minutes.
	tiny := &model.ResolvedMedia{SizeBytes: 100}
	assert.InDelta(t, 0.1*0.006, Estimate("openai-whisper", "transcribe-audio", tiny), 1e-9)
}

func TestLedger(t *testing.T) {
	l := NewLedger()
	l.Add("gemini-vision", 0.0025)
	l.Add("gemini-vision", 0.0025)
	l.Add("openai-whisper", 0.006)
	l.Add("openai-whisper", -1) // never decremented

	assert.InDelta(t, 0.011, l.Total(), 1e-9)
	per := l.PerProvider()
	assert.InDelta(t, 0.005, per["gemini-vision"], 1e-9)
	assert.InDelta(t, 0.006, per["openai-whisper"], 1e-9)
}

func TestLedgerConcurrent(t *testing.T) {
	l := NewLedger()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Add("p", 0.01)
		}()
	}
	wg.Wait()

	assert.InDelta(t, 1.0, l.Total(), 1e-9)
}
