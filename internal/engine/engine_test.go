package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/chat-notes/internal/config"
	"github.com/nguyentantai21042004/chat-notes/internal/logger"
	"github.com/nguyentantai21042004/chat-notes/internal/manager"
	"github.com/nguyentantai21042004/chat-notes/internal/model"
)

// stubManager describes every image item with a fixed text.
type stubManager struct {
	items [][]manager.Item
	fail  bool
}

func (s *stubManager) Process(ctx context.Context, items []manager.Item) []manager.ItemResult {
	s.items = append(s.items, items)
	results := make([]manager.ItemResult, len(items))
	for i, item := range items {
		if s.fail {
			results[i] = manager.ItemResult{Ordinal: item.Ordinal, Err: errors.New("all providers failed"), ErrKind: "permanent"}
			continue
		}
		results[i] = manager.ItemResult{
			Ordinal:  item.Ordinal,
			Text:     "a dog on a beach",
			Provider: "gemini-vision",
			Cost:     0.0025,
		}
	}
	return results
}

const transcript = `25/12/2024, 10:30 - Bob: good morning
25/12/2024, 10:32 - Bob: IMG-0001.jpg (file attached)
25/12/2024, 10:33 - Alice: IMG-MISSING.jpg (file attached)
25/12/2024, 10:35 - Alice: nice!
`

func setupExport(t *testing.T) (exportDir string, cfg *config.Config) {
	t.Helper()
	exportDir = t.TempDir()

	err := os.WriteFile(filepath.Join(exportDir, "WhatsApp Chat with Bob.txt"), []byte(transcript), 0o644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(exportDir, "IMG-0001.jpg"), []byte("fake image bytes"), 0o644)
	require.NoError(t, err)

	cfg = &config.Config{
		Paths:  config.PathsConfig{Output: t.TempDir()},
		Limits: config.LimitsConfig{MaxImageSizeMB: 20, MaxVideoSizeMB: 10, MaxAudioSizeMB: 25},
	}
	return exportDir, cfg
}

func TestProcessEndToEnd(t *testing.T) {
	exportDir, cfg := setupExport(t)
	mgr := &stubManager{}
	eng := New(cfg, mgr, logger.New("error"))

	result, err := eng.Process(context.Background(), exportDir)
	require.NoError(t, err)

	// One output message per input message, in order.
	require.Len(t, result.Messages, 4)
	assert.Equal(t, "good morning", result.Messages[0].Text)
	assert.Equal(t, "This is an image: a dog on a beach", result.Messages[1].Text)
	assert.Equal(t, "IMG-MISSING.jpg (file attached)", result.Messages[2].Text)
	assert.Equal(t, "nice!", result.Messages[3].Text)

	// Only the resolved file is dispatched.
	require.Len(t, mgr.items, 1)
	require.Len(t, mgr.items[0], 1)
	assert.Equal(t, "IMG-0001.jpg", mgr.items[0][0].Media.Filename)

	assert.Equal(t, 4, result.Stats.TotalMessages)
	assert.Equal(t, 2, result.Stats.MediaMessages)
	assert.Equal(t, 1, result.Stats.ProcessedMedia)
	assert.Equal(t, 1, result.Stats.MissingMedia)
	assert.InDelta(t, 0.0025, result.Stats.EstimatedCost, 1e-9)

	data, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "This is an image: a dog on a beach")
}

func TestProcessFailedItemGetsPlaceholder(t *testing.T) {
	exportDir, cfg := setupExport(t)
	mgr := &stubManager{fail: true}
	eng := New(cfg, mgr, logger.New("error"))

	result, err := eng.Process(context.Background(), exportDir)
	require.NoError(t, err)

	assert.Contains(t, result.Messages[1].Text, "[media could not be processed]")
	assert.Equal(t, 1, result.Stats.FailedMedia)

	var failed *model.Outcome
	for i := range result.Outcomes {
		if result.Outcomes[i].Status == model.OutcomeFailed {
			failed = &result.Outcomes[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "permanent", failed.ErrorKind)
}

func TestProcessMissingTranscriptIsFatal(t *testing.T) {
	exportDir := t.TempDir() // no transcript file inside
	cfg := &config.Config{
		Paths:  config.PathsConfig{Output: t.TempDir()},
		Limits: config.LimitsConfig{MaxImageSizeMB: 20, MaxVideoSizeMB: 10, MaxAudioSizeMB: 25},
	}
	eng := New(cfg, &stubManager{}, logger.New("error"))

	_, err := eng.Process(context.Background(), exportDir)
	require.Error(t, err)
}

func TestProcessOversizeNeverDispatched(t *testing.T) {
	exportDir, cfg := setupExport(t)
	cfg.Limits.MaxImageSizeMB = 0 // knocked to zero so any file is oversize

	mgr := &stubManager{}
	eng := New(cfg, mgr, logger.New("error"))

	result, err := eng.Process(context.Background(), exportDir)
	require.NoError(t, err)

	require.Len(t, mgr.items, 1)
	assert.Empty(t, mgr.items[0])
	assert.Contains(t, result.Messages[1].Text, "[media could not be processed]")
	assert.Equal(t, 1, result.Stats.FailedMedia)
}
