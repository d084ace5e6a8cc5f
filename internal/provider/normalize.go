package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/chat-notes/internal/logger"
	"github.com/nguyentantai21042004/chat-notes/pkg/executor"
)

// normalizer converts voice-note containers the transcription APIs
// reject (e.g. .opus) into mp3 before dispatch. A failed conversion is
// a permanent error for the item: retrying cannot fix the content.
type normalizer struct {
	exec    executor.Executor
	tempDir string
	logger  logger.Logger
}

func newNormalizer(exec executor.Executor, tempDir string, log logger.Logger) *normalizer {
	return &normalizer{exec: exec, tempDir: tempDir, logger: log}
}

// toMP3 converts the audio file to a speech-optimized mono mp3 and
// returns the converted path plus a cleanup func. If the extension is
// already accepted, the original path is returned unchanged.
func (n *normalizer) toMP3(ctx context.Context, path string, accepted map[string]bool) (string, func(), error) {
	ext := strings.ToLower(filepath.Ext(path))
	if accepted[ext] {
		return path, func() {}, nil
	}

	out, err := os.CreateTemp(n.tempDir, "normalized-*.mp3")
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	outPath := out.Name()
	out.Close()

	n.logger.Info(ctx, "Converting %s to mp3 for transcription", filepath.Base(path))

	// 16kHz mono at 32kbps is plenty for speech
	args := []string{
		"-i", path,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-b:a", "32k",
		"-y",
		outPath,
	}

	if _, err := n.exec.Execute(ctx, "ffmpeg", args...); err != nil {
		os.Remove(outPath)
		return "", nil, fmt.Errorf("ffmpeg convert %s: %w", filepath.Base(path), err)
	}

	cleanup := func() {
		if err := os.Remove(outPath); err != nil {
			n.logger.Warn(ctx, "Failed to cleanup converted file %s: %v", outPath, err)
		}
	}
	return outPath, cleanup, nil
}
